// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - poll: Poll metadata and lifecycle state
  - poll_option: Voting options per poll (denormalized vote_count)
  - poll_voter: One membership row per voter per poll
  - schedule: Schedule metadata, confirmed slot, lifecycle state
  - schedule_date: Candidate dates with optional time lists
  - schedule_response: One availability map per respondent

# Relationships

	poll 1──* poll_option
	poll_option 1──* poll_voter
	schedule 1──* schedule_date
	schedule 1──* schedule_response

All foreign keys use ON DELETE CASCADE, so deleting an event is a single
DELETE on poll or schedule.

# Invariants In The Schema

poll_voter's primary key (poll_id, voter_id) means a voter can hold at most
one membership per poll; schedule_response's primary key (schedule_id,
respondent_id) means a respondent has at most one answer per schedule.
*/
package db
