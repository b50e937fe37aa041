// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/invite"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

type AuthHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewAuthHandler(st store.Store, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{st: st, cfg: cfg}
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, user models.User) (string, bool) {
	token, err := auth.GenerateToken(user.ID, user.Role, []byte(h.cfg.JWTSecret), h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, true
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password required")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleVoter
	}
	if !validRole(role) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of: super_admin, manager, voter")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := h.st.AddUser(models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email already in use")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, ok := h.issueToken(w, user)
	if !ok {
		return
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.Safe(),
	})
}

// Login handles POST /api/auth/login. A failed lookup falls through to the
// invite bootstrap so pre-invited voters can sign in with their one-time
// token before an account exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, found, err := h.st.UserByEmail(email)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	switch {
	case found && auth.CheckPassword(user.PasswordHash, req.Password):
		if !user.Active {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Account disabled")
			return
		}
	case found:
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		user, err = invite.Bootstrap(h.st, email, req.Password)
		if errors.Is(err, invite.ErrNotInvited) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Not invited")
			return
		}
		if err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Info("voter provisioned from invite", "user_id", user.ID)
	}

	token, ok := h.issueToken(w, user)
	if !ok {
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.Safe(),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Logged out",
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		Success: true,
		User:    user.Safe(),
	})
}

func validRole(role string) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleManager, models.RoleVoter:
		return true
	}
	return false
}
