// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Meet API server.

Quickly Meet is a group decision service: a shared link lets anonymous
participants either vote for an option (a poll) or mark their availability
across candidate dates (a schedule), with live aggregate results and an
organizer role for closing, reopening, and deleting events.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3319 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL (or sqlite) connection string
  - ORGANIZER_KEY_SALT (--organizer-salt): Secret for organizer key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): "postgres" (default) or "sqlite"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, schedule, responses,
    results) plus the pure tally/slot aggregation functions
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON result envelope helpers
  - models: Request/response types
  - auth: Organizer key generation and validation, ID generation
  - db: Schema creation
  - cliparse: Configuration parsing
  - client: Go client library with the local identity store and the
    organizer authorization flow

See package documentation for each component.
*/
package main
