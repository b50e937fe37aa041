// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/handlers"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

func NewRouter(st store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)
	admins := []string{models.RoleSuperAdmin, models.RoleManager}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, cfg)
	userHandler := handlers.NewUserHandler(st, cfg)
	sessionHandler := handlers.NewSessionHandler(st, cfg)
	positionHandler := handlers.NewPositionHandler(st, cfg)
	candidateHandler := handlers.NewCandidateHandler(st, cfg)
	voteHandler := handlers.NewVoteHandler(st, cfg)
	requestHandler := handlers.NewRequestHandler(st, cfg)
	chatHandler := handlers.NewChatHandler(st, cfg)
	settingsHandler := handlers.NewSettingsHandler(st, cfg)
	inviteHandler := handlers.NewInviteHandler(st, cfg)

	logged := middleware.WithLogging
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireUser(st, secret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireRole(st, secret, admins, h))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Success: true, Message: "ok"})
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", logged(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", logged(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", logged(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/me", authed(authHandler.Me))

	// User management (admin operations)
	mux.HandleFunc("GET /api/users", admin(userHandler.List))
	mux.HandleFunc("POST /api/users", admin(userHandler.Create))
	mux.HandleFunc("GET /api/users/{id}", admin(userHandler.Get))
	mux.HandleFunc("PUT /api/users/{id}", admin(userHandler.Update))
	mux.HandleFunc("DELETE /api/users/{id}", admin(userHandler.Delete))

	// Voting sessions
	mux.HandleFunc("GET /api/sessions", logged(sessionHandler.List))
	mux.HandleFunc("POST /api/sessions", admin(sessionHandler.Create))
	mux.HandleFunc("GET /api/sessions/{id}", logged(sessionHandler.Get))
	mux.HandleFunc("PUT /api/sessions/{id}", admin(sessionHandler.Update))
	mux.HandleFunc("DELETE /api/sessions/{id}", admin(sessionHandler.Delete))
	mux.HandleFunc("POST /api/sessions/{id}/close", admin(sessionHandler.Close))

	// Positions
	mux.HandleFunc("GET /api/positions", logged(positionHandler.List))
	mux.HandleFunc("POST /api/positions", admin(positionHandler.Create))
	mux.HandleFunc("PUT /api/positions/{id}", admin(positionHandler.Update))
	mux.HandleFunc("DELETE /api/positions/{id}", admin(positionHandler.Delete))

	// Candidates
	mux.HandleFunc("GET /api/candidates", logged(candidateHandler.List))
	mux.HandleFunc("POST /api/candidates", admin(candidateHandler.Create))
	mux.HandleFunc("PUT /api/candidates/{id}", admin(candidateHandler.Update))
	mux.HandleFunc("DELETE /api/candidates/{id}", admin(candidateHandler.Delete))

	// Votes
	mux.HandleFunc("POST /api/votes", authed(voteHandler.Cast))
	mux.HandleFunc("GET /api/votes/session/{id}", authed(voteHandler.ListForSession))
	mux.HandleFunc("GET /api/votes/session/{id}/counts", authed(voteHandler.Counts))

	// Participation requests
	mux.HandleFunc("GET /api/requests", admin(requestHandler.List))
	mux.HandleFunc("POST /api/requests", authed(requestHandler.Create))
	mux.HandleFunc("POST /api/requests/{id}/approve", admin(requestHandler.Approve))
	mux.HandleFunc("POST /api/requests/{id}/reject", admin(requestHandler.Reject))

	// Session chat
	mux.HandleFunc("POST /api/chat", authed(chatHandler.Post))
	mux.HandleFunc("GET /api/chat/session/{id}", authed(chatHandler.ListForSession))
	mux.HandleFunc("DELETE /api/chat/session/{id}", admin(chatHandler.Purge))

	// Application settings
	mux.HandleFunc("GET /api/settings", logged(settingsHandler.Get))
	mux.HandleFunc("PUT /api/settings", admin(settingsHandler.Update))

	// Voter invites
	mux.HandleFunc("GET /api/invites", admin(inviteHandler.List))
	mux.HandleFunc("POST /api/invites", admin(inviteHandler.Create))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fabris API v1"))
	})

	return mux
}
