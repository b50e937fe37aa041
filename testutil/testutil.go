// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/localstore"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

// NewTestStore opens a fresh in-memory store, closed automatically when the
// test finishes.
func NewTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:      3318,
		Driver:    cliparse.DriverLocal,
		DataPath:  ":memory:",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

// CreateTestUser creates an active user with the given role and returns it
// together with a signed auth token.
func CreateTestUser(t *testing.T, st store.Store, cfg cliparse.Config, email, role string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user, err := st.AddUser(models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role, []byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return user, token
}

// CreateTestSession creates an open-ended session with the given seats.
func CreateTestSession(t *testing.T, st store.Store, title string, seats int) models.Session {
	t.Helper()

	sess, err := st.AddSession(models.Session{Title: title, Seats: seats})
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return sess
}

// CreateTestPosition creates a position and attaches it to the session.
func CreateTestPosition(t *testing.T, st store.Store, sessionID, title string) models.Position {
	t.Helper()

	pos, err := st.AddPosition(models.Position{SessionID: sessionID, Title: title})
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	if sessionID != "" {
		if err := st.AttachPosition(sessionID, pos.ID); err != nil {
			t.Fatalf("Failed to attach position: %v", err)
		}
	}
	return pos
}

// CreateTestCandidate creates a candidate for the position.
func CreateTestCandidate(t *testing.T, st store.Store, positionID, name string) models.Candidate {
	t.Helper()

	cand, err := st.AddCandidate(models.Candidate{PositionID: positionID, Name: name})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return cand
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader builds the Authorization header map for a token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
