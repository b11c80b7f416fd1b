// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is the Go client library for the Quickly Meet API: an HTTP
wrapper plus the local state a participant's device keeps between runs.

# Local Store

Store is a JSON-file key-value store playing the role browser localStorage
plays for the web frontend. Keys:

  - voterInfo_<pollId>: {voterId, voterName} for one poll
  - schedule_respondent_id: the shared respondent id
  - my_created_polls / my_created_schedules: arrays of event ids
  - organizer_keys: event id → server-issued organizer key

# Identity

Participant identities are generated locally, never registered:

	id, err := client.EnsureRespondentID(store)
	voter, err := client.LoadLocalVoter(store, poll)

LoadLocalVoter reconciles against fetched poll data: a stored id the
server no longer lists is discarded as stale. Renames keep the id.

# Organizer Flow

Organizer drives the four-state authorization machine (Unverified,
PasswordPrompt, Verified, Denied):

	org := client.NewOrganizer(store, api, models.KindPoll, pollID)
	err := org.CheckAccess(poll.HasPassword, onAuthorized, onPasswordRequired)
	err = org.VerifyPassword(candidate) // from the password dialog

A correct password adds the event to the created set, stores the organizer
key, and moves to Verified; a wrong one returns an AuthError and stays in
PasswordPrompt for retry. This flag is per-device: wiping the store file
revokes organizer status until the password is entered again.

# Errors

API failures map onto the error taxonomy: ErrNotFound (missing event),
AuthError (401), MutationError (any other success=false). Validation
errors surface as MutationError with the server's message.
*/
package client
