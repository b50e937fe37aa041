// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

func TestCreateUser(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(st, cfg)

	tests := []struct {
		name           string
		requestBody    models.CreateUserRequest
		expectedStatus int
	}{
		{
			name: "valid manager",
			requestBody: models.CreateUserRequest{
				Email:    "mgr@example.com",
				Password: "password123",
				Role:     models.RoleManager,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "role defaults to voter",
			requestBody: models.CreateUserRequest{
				Email:    "voter@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "bad role",
			requestBody: models.CreateUserRequest{
				Email:    "x@example.com",
				Password: "password123",
				Role:     "root",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			requestBody:    models.CreateUserRequest{Email: "y@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/users", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if w.Code == http.StatusCreated && strings.Contains(w.Body.String(), "password_hash") {
				t.Error("Response must not expose the password hash")
			}
		})
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(st, cfg)

	user, _ := testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)

	password := "new-password"
	req := testutil.MakeRequest("PUT", "/api/users/"+user.ID, models.UpdateUserRequest{
		Password: &password,
	}, nil)
	req.SetPathValue("id", user.ID)
	w := httptest.NewRecorder()

	handler.Update(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	got, _, err := st.UserByID(user.ID)
	if err != nil {
		t.Fatalf("Failed to query user: %v", err)
	}
	if got.PasswordHash == password {
		t.Error("Password must be stored hashed")
	}
	if !auth.CheckPassword(got.PasswordHash, password) {
		t.Error("New password should verify against the stored hash")
	}
}

func TestListUsersHidesHashes(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(st, cfg)

	testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)

	req := testutil.MakeRequest("GET", "/api/users", nil, nil)
	w := httptest.NewRecorder()

	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if strings.Contains(w.Body.String(), "password_hash") {
		t.Error("User listing must not expose password hashes")
	}
}
