// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabris-vote/fabris/localstore"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

func TestIsActive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sess models.Session
		want bool
	}{
		{
			name: "open session with one position",
			sess: models.Session{Positions: []string{"p_1"}},
			want: true,
		},
		{
			name: "closed session is never active",
			sess: models.Session{Positions: []string{"p_1"}, Closed: true},
			want: false,
		},
		{
			name: "before start date",
			sess: models.Session{StartDate: "2025-07-01T00:00:00Z", Positions: []string{"p_1"}},
			want: false,
		},
		{
			name: "after end date",
			sess: models.Session{EndDate: "2025-06-01T00:00:00Z", Positions: []string{"p_1"}},
			want: false,
		},
		{
			name: "within both bounds",
			sess: models.Session{
				StartDate: "2025-06-01T00:00:00Z",
				EndDate:   "2025-07-01T00:00:00Z",
				Positions: []string{"p_1"},
			},
			want: true,
		},
		{
			name: "unparseable dates are unbounded",
			sess: models.Session{StartDate: "yesterday", EndDate: "someday", Positions: []string{"p_1"}},
			want: true,
		},
		{
			name: "no positions attached",
			sess: models.Session{Positions: []string{}},
			want: false,
		},
		{
			name: "fewer positions than seats",
			sess: models.Session{Seats: 2, Positions: []string{"p_1"}},
			want: false,
		},
		{
			name: "positions meet seats",
			sess: models.Session{Seats: 2, Positions: []string{"p_1", "p_2"}},
			want: true,
		},
		{
			name: "zero seats defaults to one",
			sess: models.Session{Seats: 0, Positions: []string{"p_1"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.sess, now))
		})
	}
}

func TestAutoCloseExpired(t *testing.T) {
	st, err := localstore.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	_, err = st.AddSession(models.Session{Title: "expired", EndDate: "2025-01-01T00:00:00Z"})
	require.NoError(t, err)
	open, err := st.AddSession(models.Session{Title: "open ended"})
	require.NoError(t, err)
	future, err := st.AddSession(models.Session{Title: "future", EndDate: "2030-01-01T00:00:00Z"})
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	n, err := AutoCloseExpired(st, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sessions, err := st.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.True(t, sessions[0].Closed)

	got, _, err := st.SessionByID(open.ID)
	require.NoError(t, err)
	assert.False(t, got.Closed)

	got, _, err = st.SessionByID(future.ID)
	require.NoError(t, err)
	assert.False(t, got.Closed)

	// second sweep with the same clock is a no-op
	n, err = AutoCloseExpired(st, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// hookedStore runs hook once, right after the first Sessions read.
type hookedStore struct {
	store.Store
	hook func()
	once sync.Once
}

func (s *hookedStore) Sessions() ([]models.Session, error) {
	sessions, err := s.Store.Sessions()
	s.once.Do(s.hook)
	return sessions, err
}

func TestAutoCloseExpiredKeepsSessionClosedMidSweep(t *testing.T) {
	st, err := localstore.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	_, err = st.AddSession(models.Session{Title: "expired", EndDate: "2025-01-01T00:00:00Z"})
	require.NoError(t, err)
	open, err := st.AddSession(models.Session{Title: "open ended"})
	require.NoError(t, err)

	// an admin closes the open-ended session between the sweep's read
	// and its writes
	closed := true
	wrapped := &hookedStore{Store: st, hook: func() {
		require.NoError(t, st.UpdateSession(open.ID, models.SessionPatch{Closed: &closed}))
	}}

	n, err := AutoCloseExpired(wrapped, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _, err := st.SessionByID(open.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed, "session closed during the sweep must stay closed")
}

func TestAutoCloseExpiredUnparseableEndDate(t *testing.T) {
	st, err := localstore.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	sess, err := st.AddSession(models.Session{Title: "odd dates", EndDate: "end of semester"})
	require.NoError(t, err)

	n, err := AutoCloseExpired(st, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, _, err := st.SessionByID(sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Closed)
}
