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
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

type UserHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewUserHandler(st store.Store, cfg cliparse.Config) *UserHandler {
	return &UserHandler{st: st, cfg: cfg}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.st.Users()
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	safe := []models.SafeUser{}
	for _, u := range users {
		safe = append(safe, u.Safe())
	}
	middleware.JSONResponse(w, http.StatusOK, models.UsersResponse{Success: true, Users: safe})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	user, found, err := h.st.UserByID(id)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{Success: true, User: user.Safe()})
}

// Create handles POST /api/users (admin-created accounts)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
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
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
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
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "role", user.Role)

	middleware.JSONResponse(w, http.StatusCreated, models.UserResponse{Success: true, User: user.Safe()})
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found, err := h.st.UserByID(id); err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	} else if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	var req models.UpdateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Role != nil && !validRole(*req.Role) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of: super_admin, manager, voter")
		return
	}

	patch := models.UserPatch{
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		patch.PasswordHash = &hash
	}

	if err := h.st.UpdateUser(id, patch); err != nil {
		slog.Error("failed to update user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	user, _, err := h.st.UserByID(id)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{Success: true, User: user.Safe()})
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.DeleteUser(id); err != nil {
		slog.Error("failed to delete user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
