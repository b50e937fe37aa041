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

type SettingsHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewSettingsHandler(st store.Store, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{st: st, cfg: cfg}
}

// Get handles GET /api/settings. Public; the login page needs the branding
// before anyone is signed in.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.st.Settings()
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{Success: true, Settings: settings})
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	settings, err := h.st.UpdateSettings(patch)
	if err != nil {
		slog.Error("failed to update settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	slog.Info("settings updated")

	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{Success: true, Settings: settings})
}
