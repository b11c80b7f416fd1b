// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by
the handlers and the client library.

# Event Kinds

Two event kinds exist: a Poll (vote for one option) and a Schedule (mark
availability per date/time slot). Both carry an optional plaintext password
that gates organizer actions, an optional deadline, and a closed flag.

# Envelope

Every API response uses the Result envelope:

	{"success": true, "data": ...}
	{"success": false, "error": "..."}

Callers must treat success=false as the only failure signal; there is no
partial success.

# Slots

A schedule's DateOption entries flatten into Slot values: a date with N
times yields N timed slots, a date with no times yields one whole-day slot.
Slot.Key is the deterministic string used as the aggregation unit and as
the availability map key.
*/
package models
