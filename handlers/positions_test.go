// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

func TestCreatePositionAttachesToSession(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewPositionHandler(st, cfg)

	sess := testutil.CreateTestSession(t, st, "Board 2025", 1)

	req := testutil.MakeRequest("POST", "/api/positions", models.CreatePositionRequest{
		SessionID: sess.ID,
		Title:     "President",
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.PositionResponse
	testutil.AssertJSON(t, w, &resp)

	got, _, err := st.SessionByID(sess.ID)
	if err != nil {
		t.Fatalf("Failed to query session: %v", err)
	}
	if len(got.Positions) != 1 || got.Positions[0] != resp.Position.ID {
		t.Errorf("Position not attached to session: %v", got.Positions)
	}
}

func TestCreatePositionValidation(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewPositionHandler(st, cfg)

	tests := []struct {
		name           string
		requestBody    models.CreatePositionRequest
		expectedStatus int
	}{
		{
			name:           "missing title",
			requestBody:    models.CreatePositionRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown session",
			requestBody:    models.CreatePositionRequest{SessionID: "s_missing", Title: "President"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "standalone position without session",
			requestBody:    models.CreatePositionRequest{Title: "President"},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/positions", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestDeletePositionDetaches(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewPositionHandler(st, cfg)

	sess := testutil.CreateTestSession(t, st, "Board 2025", 1)
	pos := testutil.CreateTestPosition(t, st, sess.ID, "President")

	req := testutil.MakeRequest("DELETE", "/api/positions/"+pos.ID, nil, nil)
	req.SetPathValue("id", pos.ID)
	w := httptest.NewRecorder()

	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	got, _, err := st.SessionByID(sess.ID)
	if err != nil {
		t.Fatalf("Failed to query session: %v", err)
	}
	if len(got.Positions) != 0 {
		t.Errorf("Position should be detached from session, got %v", got.Positions)
	}
}

func TestCreateCandidateRequiresPosition(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewCandidateHandler(st, cfg)

	req := testutil.MakeRequest("POST", "/api/candidates", models.CreateCandidateRequest{
		PositionID: "p_missing",
		Name:       "Ada",
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	pos, err := st.AddPosition(models.Position{Title: "President"})
	if err != nil {
		t.Fatalf("Failed to create position: %v", err)
	}

	req = testutil.MakeRequest("POST", "/api/candidates", models.CreateCandidateRequest{
		PositionID: pos.ID,
		Name:       "Ada",
	}, nil)
	w = httptest.NewRecorder()

	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CandidateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Candidate.PositionID != pos.ID {
		t.Errorf("Expected position %s, got %s", pos.ID, resp.Candidate.PositionID)
	}
}
