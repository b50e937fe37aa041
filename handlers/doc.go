/*
Package handlers contains the HTTP handlers for the voting API.

Each handler group is a struct built with its New constructor, taking the
record store and server config:

	authHandler := handlers.NewAuthHandler(st, cfg)
	sessionHandler := handlers.NewSessionHandler(st, cfg)

Handlers read path parameters with r.PathValue, decode bodies with
middleware.ParseJSONBody, and reply through middleware.JSONResponse and
middleware.ErrorResponse so every response carries the standard envelope:

	{"success": true, ...}
	{"success": false, "message": "Session not found"}

Session reads and vote writes first sweep expired sessions through
policy.AutoCloseExpired, so a session past its end date reports closed on
the very request that observes it.

Authorization is applied in the router, not here: handlers that need the
caller's identity read it from the request context via middleware.UserFrom.
*/
package handlers
