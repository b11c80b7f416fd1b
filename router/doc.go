// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes for the API.

# Routing

Uses Go 1.22+ enhanced routing with method matching and path parameters:

	mux.HandleFunc("POST /polls/{id}/vote", ...)

# Route Groups

  - Polls: create, fetch, results, vote, voter rename, password challenge
  - Poll organizer ops: close, reopen, delete (X-Organizer-Key)
  - Schedule: create, fetch, results, responses, password challenge
  - Schedule organizer ops: close (with confirmed slot), reopen, delete
  - Infrastructure: GET /health, GET /

Event ids are opaque URL-safe strings used directly as route segments:
/polls/{id} and /schedule/{id}.
*/
package router
