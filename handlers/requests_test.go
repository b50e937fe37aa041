// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

func TestCreateRequest(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewRequestHandler(st, cfg)

	sess := testutil.CreateTestSession(t, st, "Board 2025", 1)
	user, token := testutil.CreateTestUser(t, st, cfg, "ada@example.com", models.RoleVoter)
	create := middleware.RequireUser(st, []byte(cfg.JWTSecret), handler.Create)

	req := testutil.MakeRequest("POST", "/api/requests", models.CreateRequestRequest{
		SessionID: sess.ID,
	}, testutil.AuthHeader(token))
	w := httptest.NewRecorder()

	create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RequestResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Request.Status != models.RequestPending {
		t.Errorf("Expected pending, got %s", resp.Request.Status)
	}
	if resp.Request.VoterID != user.ID {
		t.Errorf("Expected voter %s, got %s", user.ID, resp.Request.VoterID)
	}

	// unknown session
	req = testutil.MakeRequest("POST", "/api/requests", models.CreateRequestRequest{
		SessionID: "s_missing",
	}, testutil.AuthHeader(token))
	w = httptest.NewRecorder()
	create(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDecideRequest(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewRequestHandler(st, cfg)

	sess := testutil.CreateTestSession(t, st, "Board 2025", 1)
	pr, err := st.AddRequest(models.ParticipationRequest{SessionID: sess.ID, VoterID: "u_1"})
	if err != nil {
		t.Fatalf("Failed to seed request: %v", err)
	}

	req := testutil.MakeRequest("POST", "/api/requests/"+pr.ID+"/approve", nil, nil)
	req.SetPathValue("id", pr.ID)
	w := httptest.NewRecorder()

	handler.Approve(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RequestResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Request.Status != models.RequestApproved {
		t.Errorf("Expected approved, got %s", resp.Request.Status)
	}

	// terminal decisions never change
	req = testutil.MakeRequest("POST", "/api/requests/"+pr.ID+"/reject", nil, nil)
	req.SetPathValue("id", pr.ID)
	w = httptest.NewRecorder()
	handler.Reject(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	got, _, err := st.RequestByID(pr.ID)
	if err != nil {
		t.Fatalf("Failed to query request: %v", err)
	}
	if got.Status != models.RequestApproved {
		t.Errorf("Status should stay approved, got %s", got.Status)
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewRequestHandler(st, cfg)

	req := testutil.MakeRequest("POST", "/api/requests/r_missing/reject", nil, nil)
	req.SetPathValue("id", "r_missing")
	w := httptest.NewRecorder()

	handler.Reject(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
