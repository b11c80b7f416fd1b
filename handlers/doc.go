// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Meet API
plus the pure aggregation functions they serve.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PollHandler: Poll lifecycle (create, close, reopen, delete, password)
  - VotingHandler: Vote toggle and voter renames
  - ScheduleHandler: Schedule lifecycle (create, close with a confirmed
    slot, reopen, delete, password)
  - ResponseHandler: Availability response upserts
  - ResultsHandler: Live aggregated results for both event kinds

Handlers are created via constructor functions that accept *sql.DB and Config:

	pollHandler := handlers.NewPollHandler(db, cfg)

# Organizer Actions

Close, reopen, and delete require the X-Organizer-Key header. The key is
issued at creation and re-issued by the verify-password endpoints; see the
auth package.

# Voting Semantics

One vote per voter per poll. Voting for the already-held option cancels the
vote, voting for a different option moves it. The toggle runs in a single
transaction and the poll_voter primary key rules out double memberships.

# Aggregation

tally.go holds the poll math (TotalVotes, WinningOption, VotePercentage)
and slots.go the schedule math (SlotKey, FlattenDates, Summarize, Score,
BestKeys). All of it is pure and total: these functions never fail, they
treat malformed counts as zero and missing availability as unavailable.
*/
package handlers
