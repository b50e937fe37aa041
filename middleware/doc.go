// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write envelope responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ErrorResponse always produces {"success": false, "message": "..."}.

# Authentication

RequireUser resolves the JWT from the Authorization header or token
cookie, reloads the user from the store, and stores it in the request
context:

	mux.HandleFunc("GET /api/auth/me",
		middleware.RequireUser(st, secret, handler))

	user, ok := middleware.UserFrom(r)

RequireRole adds a role allow-list on top:

	middleware.RequireRole(st, secret,
		[]string{models.RoleSuperAdmin, models.RoleManager}, handler)
*/
package middleware
