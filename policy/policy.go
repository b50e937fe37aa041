// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

import (
	"time"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

// parseBound parses an RFC 3339 session bound. Absent or unparseable
// values are unbounded.
func parseBound(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsActive reports whether the session is open for voting at now: not
// closed, now within [start, end], and at least as many positions attached
// as seats required (default 1 when unset).
func IsActive(sess models.Session, now time.Time) bool {
	if sess.Closed {
		return false
	}
	if start, ok := parseBound(sess.StartDate); ok && now.Before(start) {
		return false
	}
	if end, ok := parseBound(sess.EndDate); ok && now.After(end) {
		return false
	}
	seats := sess.Seats
	if seats < 1 {
		seats = 1
	}
	return len(sess.Positions) >= seats
}

// AutoCloseExpired closes every non-closed session whose end date is
// parseable and strictly in the past. Each expired session is patched
// individually; the sweep never writes back the whole collection, so a
// session closed elsewhere while the sweep runs stays closed. Sessions
// without an end date are never auto-closed. Idempotent: a second call
// with the same now is a no-op. Returns the number of sessions closed.
func AutoCloseExpired(st store.Store, now time.Time) (int, error) {
	sessions, err := st.Sessions()
	if err != nil {
		return 0, err
	}
	closed := 0
	expire := true
	for _, sess := range sessions {
		if sess.Closed {
			continue
		}
		if end, ok := parseBound(sess.EndDate); ok && now.After(end) {
			if err := st.UpdateSession(sess.ID, models.SessionPatch{Closed: &expire}); err != nil {
				return closed, err
			}
			closed++
		}
	}
	return closed, nil
}
