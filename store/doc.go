// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the record store contract shared by both storage
backends.

# Contract

Store exposes explicit get/save/add/update/delete accessors per collection
(users, sessions, positions, candidates, votes, requests, settings, chat
messages, voter invites). There is no ambient singleton; handlers receive a
Store at construction.

Key behaviors:

  - Add methods assign fresh prefixed identifiers (NewID) and append
  - Update methods merge explicit patch fields; missing record is a no-op
  - Delete methods are no-ops on missing records
  - AddUser rejects duplicate emails with ErrDuplicateEmail
  - AddVote rejects a second vote for the same (session, position, voter)
    with ErrDuplicateVote
  - DeletePosition detaches the position id from every session
  - Chat messages and votes preserve insertion order

# Implementations

  - localstore: flat JSON collections in an embedded SQLite key/value table
  - pgstore: relational PostgreSQL schema

Both are safe for concurrent HTTP handlers.
*/
package store
