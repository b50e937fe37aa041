// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package localstore implements store.Store on a single-file embedded SQLite
database used as a key/value blob store.

# Layout

One table:

	CREATE TABLE collection (key TEXT PRIMARY KEY, value TEXT NOT NULL)

Each collection lives under a fixed key (users, sessions, positions,
candidates, votes, requests, settings, session_chats, voter_invites) as one
JSON-serialized sequence or record. Open seeds empty collections and the
default Settings record on first use.

# Fail-open Reads

A missing key or malformed JSON blob reads as an empty collection. Stored
corruption never surfaces as an error; it degrades to defaults.

# Concurrency

Every operation is a read-modify-write of a whole collection, serialized
behind a mutex so concurrent handlers cannot lose updates. The connection
pool is pinned to a single connection, which also makes the ":memory:"
variant usable in tests.
*/
package localstore
