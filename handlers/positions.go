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

type PositionHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewPositionHandler(st store.Store, cfg cliparse.Config) *PositionHandler {
	return &PositionHandler{st: st, cfg: cfg}
}

// List handles GET /api/positions
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.st.Positions()
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if positions == nil {
		positions = []models.Position{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.PositionsResponse{Success: true, Positions: positions})
}

// Create handles POST /api/positions. When session_id is given, the new
// position is also appended to that session's position list.
func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
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

	pos, err := h.st.AddPosition(models.Position{SessionID: req.SessionID, Title: req.Title})
	if err != nil {
		slog.Error("failed to create position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	if req.SessionID != "" {
		if err := h.st.AttachPosition(req.SessionID, pos.ID); err != nil {
			slog.Error("failed to attach position to session", "error", err, "position_id", pos.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
			return
		}
	}

	slog.Info("position created", "position_id", pos.ID, "session_id", pos.SessionID)

	middleware.JSONResponse(w, http.StatusCreated, models.PositionResponse{Success: true, Position: pos})
}

// Update handles PUT /api/positions/{id}
func (h *PositionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.PositionByID(id); err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	var patch models.PositionPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.st.UpdatePosition(id, patch); err != nil {
		slog.Error("failed to update position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update position")
		return
	}

	pos, _, err := h.st.PositionByID(id)
	if err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PositionResponse{Success: true, Position: pos})
}

// Delete handles DELETE /api/positions/{id}. The position is also detached
// from every session that lists it.
func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.DeletePosition(id); err != nil {
		slog.Error("failed to delete position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete position")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
