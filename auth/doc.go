// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides organizer key and identifier generation utilities.

# Organizer Keys

Organizer keys use HMAC-SHA256 to create deterministic, verifiable
capabilities:

	key := auth.GenerateOrganizerKey(eventID, salt)
	err := auth.ValidateOrganizerKey(eventID, key, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same event ID and salt always produce the same key,
which allows validation without storing the key in the database. The key is
returned once when an event is created and again after a successful
password challenge; every privileged call (close, reopen, delete) must
present it in the X-Organizer-Key header.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# Participant IDs

Client-generated pseudo-identities use a readable composite format:

	id, err := auth.ParticipantID("resp")  // resp_1714691234567_k3q9xv02m

The timestamp prefix keeps IDs roughly sortable; the random suffix makes
collisions within one millisecond vanishingly unlikely.
*/
package auth
