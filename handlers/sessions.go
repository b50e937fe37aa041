// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/policy"
	"github.com/fabris-vote/fabris/store"
)

type SessionHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewSessionHandler(st store.Store, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{st: st, cfg: cfg}
}

// autoClose sweeps expired sessions before any session read or vote write.
func (h *SessionHandler) autoClose() {
	n, err := policy.AutoCloseExpired(h.st, time.Now())
	if err != nil {
		slog.Error("failed to auto-close sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("sessions auto-closed", "count", n)
	}
}

// List handles GET /api/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	h.autoClose()

	sessions, err := h.st.Sessions()
	if err != nil {
		slog.Error("failed to query sessions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	now := time.Now()
	views := []models.SessionView{}
	for _, sess := range sessions {
		views = append(views, models.SessionView{Session: sess, Active: policy.IsActive(sess, now)})
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionsResponse{Success: true, Sessions: views})
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.autoClose()

	sess, found, err := h.st.SessionByID(r.PathValue("id"))
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Success: true,
		Session: models.SessionView{Session: sess, Active: policy.IsActive(sess, time.Now())},
	})
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	seats := req.Seats
	if seats < 1 {
		seats = 1
	}

	sess, err := h.st.AddSession(models.Session{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Seats:     seats,
		Positions: req.Positions,
	})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", sess.ID, "title", sess.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		Success: true,
		Session: models.SessionView{Session: sess, Active: policy.IsActive(sess, time.Now())},
	})
}

// Update handles PUT /api/sessions/{id}
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.SessionByID(id); err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	var patch models.SessionPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if patch.Seats != nil && *patch.Seats < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "seats must be at least 1")
		return
	}

	if err := h.st.UpdateSession(id, patch); err != nil {
		slog.Error("failed to update session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	sess, _, err := h.st.SessionByID(id)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Success: true,
		Session: models.SessionView{Session: sess, Active: policy.IsActive(sess, time.Now())},
	})
}

// Close handles POST /api/sessions/{id}/close
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, found, err := h.st.SessionByID(id)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if sess.Closed {
		middleware.ErrorResponse(w, http.StatusConflict, "Session already closed")
		return
	}

	closed := true
	if err := h.st.UpdateSession(id, models.SessionPatch{Closed: &closed}); err != nil {
		slog.Error("failed to close session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	slog.Info("session closed", "session_id", id)

	sess.Closed = true
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Success: true,
		Session: models.SessionView{Session: sess, Active: false},
	})
}

// Delete handles DELETE /api/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.DeleteSession(id); err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
