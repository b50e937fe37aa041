// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

type RequestHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewRequestHandler(st store.Store, cfg cliparse.Config) *RequestHandler {
	return &RequestHandler{st: st, cfg: cfg}
}

// List handles GET /api/requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.st.Requests()
	if err != nil {
		slog.Error("failed to query requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if requests == nil {
		requests = []models.ParticipationRequest{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.RequestsResponse{Success: true, Requests: requests})
}

// Create handles POST /api/requests. Requests always start pending.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.CreateRequestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if _, found, err := h.st.SessionByID(req.SessionID); err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	pr, err := h.st.AddRequest(models.ParticipationRequest{
		SessionID: req.SessionID,
		VoterID:   user.ID,
		Email:     user.Email,
	})
	if err != nil {
		slog.Error("failed to create request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create request")
		return
	}

	slog.Info("participation requested", "request_id", pr.ID, "session_id", pr.SessionID, "voter_id", pr.VoterID)

	middleware.JSONResponse(w, http.StatusCreated, models.RequestResponse{Success: true, Request: pr})
}

// Approve handles POST /api/requests/{id}/approve
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.RequestApproved)
}

// Reject handles POST /api/requests/{id}/reject
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.RequestRejected)
}

// decide moves a pending request to a terminal status. Terminal statuses
// never change again.
func (h *RequestHandler) decide(w http.ResponseWriter, r *http.Request, status string) {
	id := r.PathValue("id")
	pr, found, err := h.st.RequestByID(id)
	if err != nil {
		slog.Error("failed to query request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if pr.Status != models.RequestPending {
		middleware.ErrorResponse(w, http.StatusConflict, "Request already decided")
		return
	}

	if err := h.st.UpdateRequest(id, models.RequestPatch{Status: &status}); err != nil {
		slog.Error("failed to update request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update request")
		return
	}

	slog.Info("request decided", "request_id", id, "status", status)

	pr.Status = status
	middleware.JSONResponse(w, http.StatusOK, models.RequestResponse{Success: true, Request: pr})
}
