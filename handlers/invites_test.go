// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/testutil"
)

func TestCreateInvites(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewInviteHandler(st, cfg)

	sess := testutil.CreateTestSession(t, st, "Board 2025", 1)

	req := testutil.MakeRequest("POST", "/api/invites", models.CreateInvitesRequest{
		SessionID: sess.ID,
		Emails:    []string{"Ada@Example.com", " grace@example.com ", ""},
	}, nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateInvitesResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Invites) != 2 {
		t.Fatalf("Expected 2 invites, got %d", len(resp.Invites))
	}
	for _, inv := range resp.Invites {
		if inv.Token == "" {
			t.Error("Expected plaintext token in creation response")
		}
		if inv.Email != strings.ToLower(strings.TrimSpace(inv.Email)) {
			t.Errorf("Email not normalized: %s", inv.Email)
		}
	}

	// stored invites carry only the hash
	invites, err := st.Invites()
	if err != nil {
		t.Fatalf("Failed to query invites: %v", err)
	}
	for i, inv := range invites {
		if inv.TokenHash == resp.Invites[i].Token {
			t.Error("Stored invite must not contain the plaintext token")
		}
		if inv.Used() {
			t.Error("Fresh invite must be unused")
		}
	}
}

func TestCreateInvitesValidation(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewInviteHandler(st, cfg)

	// no emails
	req := testutil.MakeRequest("POST", "/api/invites", models.CreateInvitesRequest{}, nil)
	w := httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// unknown session
	req = testutil.MakeRequest("POST", "/api/invites", models.CreateInvitesRequest{
		SessionID: "s_missing",
		Emails:    []string{"ada@example.com"},
	}, nil)
	w = httptest.NewRecorder()
	handler.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListInvitesHidesHashes(t *testing.T) {
	st := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewInviteHandler(st, cfg)

	if _, err := st.AddInvite(models.VoterInvite{Email: "ada@example.com", TokenHash: "$2a$10$hash"}); err != nil {
		t.Fatalf("Failed to seed invite: %v", err)
	}

	req := testutil.MakeRequest("GET", "/api/invites", nil, nil)
	w := httptest.NewRecorder()

	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if strings.Contains(w.Body.String(), "$2a$10$hash") {
		t.Error("Invite listing must not expose token hashes")
	}

	var resp models.InvitesResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Invites) != 1 || resp.Invites[0].Email != "ada@example.com" {
		t.Errorf("Unexpected invites: %v", resp.Invites)
	}
}
