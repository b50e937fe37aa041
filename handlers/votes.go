// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/policy"
	"github.com/fabris-vote/fabris/store"
	"github.com/fabris-vote/fabris/tally"
)

type VoteHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewVoteHandler(st store.Store, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{st: st, cfg: cfg}
}

// Cast handles POST /api/votes. The voter identity comes from the auth
// context, never from the request body.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionID == "" || req.PositionID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id, position_id and candidate_id required")
		return
	}

	if _, err := policy.AutoCloseExpired(h.st, time.Now()); err != nil {
		slog.Error("failed to auto-close sessions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	sess, found, err := h.st.SessionByID(req.SessionID)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if !policy.IsActive(sess, time.Now()) {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not active")
		return
	}

	pos, found, err := h.st.PositionByID(req.PositionID)
	if err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	cand, found, err := h.st.CandidateByID(req.CandidateID)
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if cand.PositionID != pos.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate does not belong to position")
		return
	}

	vote, err := h.st.AddVote(models.Vote{
		SessionID:   req.SessionID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
		VoterID:     user.ID,
	})
	if errors.Is(err, store.ErrDuplicateVote) {
		middleware.ErrorResponse(w, http.StatusConflict, "Vote already cast for this position")
		return
	}
	if err != nil {
		slog.Error("failed to record vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote cast", "vote_id", vote.ID, "session_id", vote.SessionID, "position_id", vote.PositionID)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{Success: true, Vote: vote})
}

// ListForSession handles GET /api/votes/session/{id}. Votes come back in
// insertion order.
func (h *VoteHandler) ListForSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.SessionByID(id); err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	votes, err := tally.ForSession(h.st, id)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VotesResponse{Success: true, Votes: votes})
}

// Counts handles GET /api/votes/session/{id}/counts
func (h *VoteHandler) Counts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.SessionByID(id); err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	votes, err := tally.ForSession(h.st, id)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VoteCountsResponse{
		Success: true,
		Counts:  tally.CountByCandidate(votes),
	})
}
