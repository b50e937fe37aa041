// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

// TestFullVotingFlow drives the whole API surface through the mux: an admin
// sets up a session with a position and candidates, a voter casts a vote,
// and the counts come back.
func TestFullVotingFlow(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(st, cfg)

	do := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		t.Helper()
		var headers map[string]string
		if token != "" {
			headers = testutil.AuthHeader(token)
		}
		req := testutil.MakeRequest(method, path, body, headers)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	// health
	w := do("GET", "/api/health", nil, "")
	testutil.AssertStatus(t, w, http.StatusOK)

	// register an admin
	w = do("POST", "/api/auth/register", models.RegisterRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Role:     models.RoleSuperAdmin,
	}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var adminResp models.AuthResponse
	testutil.AssertJSON(t, w, &adminResp)
	adminToken := adminResp.Token

	// register a voter
	w = do("POST", "/api/auth/register", models.RegisterRequest{
		Email:    "voter@example.com",
		Password: "password123",
	}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var voterResp models.AuthResponse
	testutil.AssertJSON(t, w, &voterResp)
	voterToken := voterResp.Token

	// voters cannot create sessions
	w = do("POST", "/api/sessions", models.CreateSessionRequest{Title: "Nope"}, voterToken)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// admin creates the session
	w = do("POST", "/api/sessions", models.CreateSessionRequest{Title: "Board 2025"}, adminToken)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var sessResp models.SessionResponse
	testutil.AssertJSON(t, w, &sessResp)
	sessID := sessResp.Session.ID

	// add a position and two candidates
	w = do("POST", "/api/positions", models.CreatePositionRequest{
		SessionID: sessID,
		Title:     "President",
	}, adminToken)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var posResp models.PositionResponse
	testutil.AssertJSON(t, w, &posResp)

	w = do("POST", "/api/candidates", models.CreateCandidateRequest{
		PositionID: posResp.Position.ID,
		Name:       "Ada",
	}, adminToken)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var candResp models.CandidateResponse
	testutil.AssertJSON(t, w, &candResp)

	// the session is now active
	w = do("GET", "/api/sessions/"+sessID, nil, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &sessResp)
	if !sessResp.Session.Active {
		t.Error("Session with a position should be active")
	}

	// voter casts a vote
	w = do("POST", "/api/votes", models.CastVoteRequest{
		SessionID:   sessID,
		PositionID:  posResp.Position.ID,
		CandidateID: candResp.Candidate.ID,
	}, voterToken)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// double vote rejected
	w = do("POST", "/api/votes", models.CastVoteRequest{
		SessionID:   sessID,
		PositionID:  posResp.Position.ID,
		CandidateID: candResp.Candidate.ID,
	}, voterToken)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// anonymous vote rejected
	w = do("POST", "/api/votes", models.CastVoteRequest{
		SessionID:   sessID,
		PositionID:  posResp.Position.ID,
		CandidateID: candResp.Candidate.ID,
	}, "")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// counts
	w = do("GET", "/api/votes/session/"+sessID+"/counts", nil, voterToken)
	testutil.AssertStatus(t, w, http.StatusOK)
	var countsResp models.VoteCountsResponse
	testutil.AssertJSON(t, w, &countsResp)
	if countsResp.Counts[candResp.Candidate.ID] != 1 {
		t.Errorf("Expected 1 vote for candidate, got %v", countsResp.Counts)
	}

	// chat round trip
	w = do("POST", "/api/chat", models.PostChatRequest{
		SessionID: sessID,
		Body:      "good luck everyone",
	}, voterToken)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = do("GET", "/api/chat/session/"+sessID, nil, voterToken)
	testutil.AssertStatus(t, w, http.StatusOK)
	var chatResp models.ChatMessagesResponse
	testutil.AssertJSON(t, w, &chatResp)
	if len(chatResp.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(chatResp.Messages))
	}

	// only admins purge chat
	w = do("DELETE", "/api/chat/session/"+sessID, nil, voterToken)
	testutil.AssertStatus(t, w, http.StatusForbidden)
	w = do("DELETE", "/api/chat/session/"+sessID, nil, adminToken)
	testutil.AssertStatus(t, w, http.StatusOK)

	// settings are public to read, admin to write
	w = do("GET", "/api/settings", nil, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var settingsResp models.SettingsResponse
	testutil.AssertJSON(t, w, &settingsResp)
	if settingsResp.Settings.Name != "Voting System" {
		t.Errorf("Expected default name, got %s", settingsResp.Settings.Name)
	}

	name := "Club Elections"
	w = do("PUT", "/api/settings", models.SettingsPatch{Name: &name}, voterToken)
	testutil.AssertStatus(t, w, http.StatusForbidden)
	w = do("PUT", "/api/settings", models.SettingsPatch{Name: &name}, adminToken)
	testutil.AssertStatus(t, w, http.StatusOK)

	// close the session; further votes conflict
	w = do("POST", "/api/sessions/"+sessID+"/close", nil, adminToken)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do("POST", "/api/votes", models.CastVoteRequest{
		SessionID:   sessID,
		PositionID:  posResp.Position.ID,
		CandidateID: candResp.Candidate.ID,
	}, adminToken)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestInviteFlowThroughRouter(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(st, cfg)

	do := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		t.Helper()
		var headers map[string]string
		if token != "" {
			headers = testutil.AuthHeader(token)
		}
		req := testutil.MakeRequest(method, path, body, headers)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	_, adminToken := testutil.CreateTestUser(t, st, cfg, "admin@example.com", models.RoleManager)

	w := do("POST", "/api/invites", models.CreateInvitesRequest{
		Emails: []string{"grace@example.com"},
	}, adminToken)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var invResp models.CreateInvitesResponse
	testutil.AssertJSON(t, w, &invResp)
	if len(invResp.Invites) != 1 {
		t.Fatalf("Expected 1 invite, got %d", len(invResp.Invites))
	}

	// the invited voter signs in with the one-time token
	w = do("POST", "/api/auth/login", models.LoginRequest{
		Email:    "grace@example.com",
		Password: invResp.Invites[0].Token,
	}, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var authResp models.AuthResponse
	testutil.AssertJSON(t, w, &authResp)
	if authResp.User.Role != models.RoleVoter {
		t.Errorf("Expected voter role, got %s", authResp.User.Role)
	}

	// invite listing shows it consumed
	w = do("GET", "/api/invites", nil, adminToken)
	testutil.AssertStatus(t, w, http.StatusOK)
	var listResp models.InvitesResponse
	testutil.AssertJSON(t, w, &listResp)
	if len(listResp.Invites) != 1 || listResp.Invites[0].UsedAt == nil {
		t.Errorf("Expected one consumed invite, got %v", listResp.Invites)
	}
}
