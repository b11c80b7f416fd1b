// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    password TEXT,
    end_at TIMESTAMP,
    is_closed BOOLEAN NOT NULL DEFAULT FALSE,
    created_by TEXT NOT NULL DEFAULT '',
    schedule_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Poll options, numbered per poll; vote_count is denormalized and kept
-- in step with poll_voter inside the vote transaction
CREATE TABLE IF NOT EXISTS poll_option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    url TEXT,
    description TEXT,
    vote_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (poll_id, option_id)
);

-- One row per voter per poll: the primary key is what makes
-- "at most one membership" hold even under concurrent toggles
CREATE TABLE IF NOT EXISTS poll_voter (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id INTEGER NOT NULL,
    voter_id TEXT NOT NULL,
    voter_name TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (poll_id, voter_id),
    FOREIGN KEY (poll_id, option_id) REFERENCES poll_option(poll_id, option_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_poll_voter_option ON poll_voter(poll_id, option_id);

-- Schedules
CREATE TABLE IF NOT EXISTS schedule (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    password TEXT,
    end_at TIMESTAMP,
    is_closed BOOLEAN NOT NULL DEFAULT FALSE,
    confirmed_key TEXT,
    poll_id TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Candidate dates in creation order; times is a JSON array of "HH:mm"
-- strings, empty for a whole-day candidate
CREATE TABLE IF NOT EXISTS schedule_date (
    schedule_id TEXT NOT NULL REFERENCES schedule(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    times JSONB NOT NULL DEFAULT '[]',
    PRIMARY KEY (schedule_id, position)
);

-- One row per respondent per schedule; availability maps slot key to
-- 'available' | 'maybe' | 'unavailable' (missing keys read as unavailable)
CREATE TABLE IF NOT EXISTS schedule_response (
    schedule_id TEXT NOT NULL REFERENCES schedule(id) ON DELETE CASCADE,
    respondent_id TEXT NOT NULL,
    name TEXT NOT NULL,
    availability JSONB NOT NULL DEFAULT '{}',
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (schedule_id, respondent_id)
);

CREATE INDEX IF NOT EXISTS idx_schedule_response_schedule ON schedule_response(schedule_id);
`
