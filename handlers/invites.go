// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

type InviteHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewInviteHandler(st store.Store, cfg cliparse.Config) *InviteHandler {
	return &InviteHandler{st: st, cfg: cfg}
}

// Create handles POST /api/invites. One invite per email; the plaintext
// token appears in this response and nowhere else.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvitesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Emails) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "emails is required")
		return
	}

	if req.SessionID != "" {
		if _, found, err := h.st.SessionByID(req.SessionID); err != nil {
			slog.Error("failed to query session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
			return
		} else if !found {
			middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
			return
		}
	}

	created := []models.CreatedInvite{}
	for _, raw := range req.Emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}

		token, err := auth.GenerateInviteToken()
		if err != nil {
			slog.Error("failed to generate invite token", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invites")
			return
		}
		hash, err := auth.HashPassword(token)
		if err != nil {
			slog.Error("failed to hash invite token", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invites")
			return
		}

		inv, err := h.st.AddInvite(models.VoterInvite{
			SessionID: req.SessionID,
			Email:     email,
			TokenHash: hash,
		})
		if err != nil {
			slog.Error("failed to store invite", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invites")
			return
		}
		created = append(created, models.CreatedInvite{ID: inv.ID, Email: inv.Email, Token: token})
	}

	slog.Info("invites created", "count", len(created), "session_id", req.SessionID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateInvitesResponse{Success: true, Invites: created})
}

// List handles GET /api/invites. Token hashes are never exposed.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	invites, err := h.st.Invites()
	if err != nil {
		slog.Error("failed to query invites", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	infos := []models.InviteInfo{}
	for _, inv := range invites {
		infos = append(infos, models.InviteInfo{
			ID:        inv.ID,
			SessionID: inv.SessionID,
			Email:     inv.Email,
			UsedAt:    inv.UsedAt,
		})
	}
	middleware.JSONResponse(w, http.StatusOK, models.InvitesResponse{Success: true, Invites: infos})
}
