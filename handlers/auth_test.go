// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

func TestRegister(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(st, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Email:    "ada@example.com",
				Password: "password123",
				Name:     "Ada",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			requestBody: models.RegisterRequest{
				Email:    "Ada@Example.com",
				Password: "password456",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			requestBody:    models.RegisterRequest{Email: "grace@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			requestBody: models.RegisterRequest{
				Email:    "grace@example.com",
				Password: "password123",
				Role:     "overlord",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
				if resp.User.Role != models.RoleVoter {
					t.Errorf("Expected default role voter, got %s", resp.User.Role)
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(st, cfg)

	user, _ := testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid login",
			requestBody:    models.LoginRequest{Email: "ada@example.com", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "case-insensitive email",
			requestBody:    models.LoginRequest{Email: "ADA@example.com", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Email: "ada@example.com", Password: "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown email without invite",
			requestBody:    models.LoginRequest{Email: "grace@example.com", Password: "password123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			requestBody:    models.LoginRequest{Email: "ada@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.User.ID != user.ID {
					t.Errorf("Expected user %s, got %s", user.ID, resp.User.ID)
				}
			}
		})
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(st, cfg)

	user, _ := testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)
	active := false
	if err := st.UpdateUser(user.ID, models.UserPatch{Active: &active}); err != nil {
		t.Fatalf("Failed to disable user: %v", err)
	}

	req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()

	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLoginBootstrapsInvitedVoter(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(st, cfg)

	token, err := auth.GenerateInviteToken()
	if err != nil {
		t.Fatalf("Failed to generate invite token: %v", err)
	}
	hash, err := auth.HashPassword(token)
	if err != nil {
		t.Fatalf("Failed to hash invite token: %v", err)
	}
	if _, err := st.AddInvite(models.VoterInvite{Email: "grace@example.com", TokenHash: hash}); err != nil {
		t.Fatalf("Failed to store invite: %v", err)
	}

	// first login with the invite token provisions the account
	req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
		Email:    "grace@example.com",
		Password: token,
	}, nil)
	w := httptest.NewRecorder()

	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.Role != models.RoleVoter {
		t.Errorf("Expected voter role, got %s", resp.User.Role)
	}

	// second login works as a normal password login
	req = testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
		Email:    "grace@example.com",
		Password: token,
	}, nil)
	w = httptest.NewRecorder()

	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	users, err := st.Users()
	if err != nil {
		t.Fatalf("Failed to query users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected exactly one user, got %d", len(users))
	}
}

func TestMe(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(st, cfg)

	user, token := testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)
	wrapped := middleware.RequireUser(st, []byte(cfg.JWTSecret), handler.Me)

	req := testutil.MakeRequest("GET", "/api/auth/me", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()

	wrapped(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MeResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, resp.User.ID)
	}

	// no token
	req = testutil.MakeRequest("GET", "/api/auth/me", nil, nil)
	w = httptest.NewRecorder()
	wrapped(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
