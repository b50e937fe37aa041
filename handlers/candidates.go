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

type CandidateHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewCandidateHandler(st store.Store, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{st: st, cfg: cfg}
}

// List handles GET /api/candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.st.Candidates()
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{Success: true, Candidates: candidates})
}

// Create handles POST /api/candidates
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PositionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	if _, found, err := h.st.PositionByID(req.PositionID); err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	cand, err := h.st.AddCandidate(models.Candidate{PositionID: req.PositionID, Name: req.Name})
	if err != nil {
		slog.Error("failed to create candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate created", "candidate_id", cand.ID, "position_id", cand.PositionID)

	middleware.JSONResponse(w, http.StatusCreated, models.CandidateResponse{Success: true, Candidate: cand})
}

// Update handles PUT /api/candidates/{id}
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.CandidateByID(id); err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	var patch models.CandidatePatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.st.UpdateCandidate(id, patch); err != nil {
		slog.Error("failed to update candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}

	cand, _, err := h.st.CandidateByID(id)
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CandidateResponse{Success: true, Candidate: cand})
}

// Delete handles DELETE /api/candidates/{id}
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.DeleteCandidate(id); err != nil {
		slog.Error("failed to delete candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
