// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

// ForSession returns the raw vote set for a session in insertion order.
// Aggregation is the caller's concern; this is the tally contract.
func ForSession(st store.Store, sessionID string) ([]models.Vote, error) {
	votes, err := st.Votes()
	if err != nil {
		return nil, err
	}
	filtered := []models.Vote{}
	for _, v := range votes {
		if v.SessionID == sessionID {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// CountByCandidate aggregates a vote set into candidate id -> count.
// Ties are not broken; callers get counts only.
func CountByCandidate(votes []models.Vote) map[string]int {
	counts := map[string]int{}
	for _, v := range votes {
		counts[v.CandidateID]++
	}
	return counts
}
