// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and
environment variables.

# Precedence

CLI flags override environment variables:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Settings

  - -p / PORT: server port (default 3319)
  - -d / DATABASE_URL: database connection string (required)
  - -t / DATABASE_TYPE: "postgres" (default) or "sqlite"
  - --organizer-salt / ORGANIZER_KEY_SALT: secret for organizer key HMAC
    (required)

Secrets should come from the environment in production; the flags exist for
local development only.
*/
package cliparse
