// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally reports the vote set for a session. ForSession returns the
// raw votes in insertion order; CountByCandidate is a convenience
// aggregation over such a set.
package tally
