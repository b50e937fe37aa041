// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "github.com/google/uuid"

// NewID returns a fresh record identifier with a per-kind prefix, e.g.
// "s_8a2f..." for sessions. Prefixes keep identifiers recognizable in logs
// and stored JSON; the UUID keeps them collision-free under concurrent
// writers.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Well-known identifier prefixes.
const (
	PrefixUser      = "u"
	PrefixSession   = "s"
	PrefixPosition  = "p"
	PrefixCandidate = "c"
	PrefixVote      = "v"
	PrefixRequest   = "r"
	PrefixMessage   = "m"
	PrefixInvite    = "i"
)
