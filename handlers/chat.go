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

type ChatHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewChatHandler(st store.Store, cfg cliparse.Config) *ChatHandler {
	return &ChatHandler{st: st, cfg: cfg}
}

// Post handles POST /api/chat. The author identity comes from the auth
// context.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req models.PostChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "body is required")
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

	msg, err := h.st.AddChatMessage(models.ChatMessage{
		SessionID: req.SessionID,
		AuthorID:  user.ID,
		Body:      req.Body,
	})
	if err != nil {
		slog.Error("failed to post message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.ChatMessageResponse{Success: true, Message: msg})
}

// ListForSession handles GET /api/chat/session/{id}. Messages come back in
// posting order.
func (h *ChatHandler) ListForSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.SessionByID(id); err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	all, err := h.st.ChatMessages()
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	messages := []models.ChatMessage{}
	for _, m := range all {
		if m.SessionID == id {
			messages = append(messages, m)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, models.ChatMessagesResponse{Success: true, Messages: messages})
}

// Purge handles DELETE /api/chat/session/{id}. Other sessions' messages are
// untouched.
func (h *ChatHandler) Purge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.PurgeChatForSession(id); err != nil {
		slog.Error("failed to purge chat", "error", err, "session_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to purge chat")
		return
	}

	slog.Info("chat purged", "session_id", id)

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
