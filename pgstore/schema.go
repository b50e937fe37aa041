// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pgstore

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
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('super_admin', 'manager', 'voter')),
    active BOOLEAN NOT NULL DEFAULT TRUE,
    seq BIGSERIAL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));

-- Sessions
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    start_date TEXT,
    end_date TEXT,
    seats INTEGER NOT NULL DEFAULT 1,
    closed BOOLEAN NOT NULL DEFAULT FALSE,
    seq BIGSERIAL
);

-- Position attachment per session, ordered
CREATE TABLE IF NOT EXISTS session_position (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    position_id TEXT NOT NULL,
    ord INTEGER NOT NULL,
    PRIMARY KEY (session_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_session_position_position ON session_position(position_id);

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    id TEXT PRIMARY KEY,
    session_id TEXT,
    title TEXT NOT NULL,
    seq BIGSERIAL
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id TEXT PRIMARY KEY,
    position_id TEXT NOT NULL,
    name TEXT NOT NULL,
    seq BIGSERIAL
);

CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position_id);

-- Votes (append-only; one vote per voter per position per session)
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    position_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    seq BIGSERIAL,
    UNIQUE (session_id, position_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_session ON votes(session_id);

-- Participation requests
CREATE TABLE IF NOT EXISTS requests (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    email TEXT,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    seq BIGSERIAL
);

CREATE INDEX IF NOT EXISTS idx_requests_session ON requests(session_id);

-- Global settings (single row)
CREATE TABLE IF NOT EXISTS app_settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    logo TEXT NOT NULL DEFAULT '',
    rules TEXT NOT NULL,
    session_visibility TEXT NOT NULL
);

INSERT INTO app_settings (id, name, logo, rules, session_visibility)
VALUES (1, 'Voting System', '', 'one_vote_per_position', 'public')
ON CONFLICT (id) DO NOTHING;

-- Chat messages (insertion order significant)
CREATE TABLE IF NOT EXISTS chat_messages (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    author_id TEXT NOT NULL,
    body TEXT NOT NULL,
    ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    seq BIGSERIAL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id);

-- Voter invites (one-time tokens, bcrypt hash only)
CREATE TABLE IF NOT EXISTS voter_invites (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    email TEXT NOT NULL,
    token_hash TEXT NOT NULL,
    used_at TIMESTAMPTZ,
    seq BIGSERIAL
);

CREATE INDEX IF NOT EXISTS idx_voter_invites_email ON voter_invites (LOWER(email));
`
