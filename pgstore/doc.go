// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pgstore implements store.Store on PostgreSQL.

# Schema Creation

Open connects, pings, and initializes all required tables:

	st, err := pgstore.Open(cfg.DatabaseURL)

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - users: accounts; unique index on LOWER(email)
  - sessions + session_position: voting events and their ordered positions
  - positions, candidates
  - votes: UNIQUE (session_id, position_id, voter_id) enforces the
    one-vote-per-position invariant at the constraint level
  - requests: participation requests
  - app_settings: single seeded row (id = 1)
  - chat_messages: insertion order via seq
  - voter_invites: one-time tokens, bcrypt hash only

# Ordering

Every collection carries a BIGSERIAL seq column; reads ORDER BY seq so the
store contract's "ordered sequence" holds across backends.

# Conflict Mapping

Unique violations (class 23505) map to store.ErrDuplicateEmail and
store.ErrDuplicateVote so handlers stay backend-agnostic.
*/
package pgstore
