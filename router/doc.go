/*
Package router wires HTTP routes to handlers.

NewRouter builds the full API surface on a net/http ServeMux using Go 1.22
method-aware patterns, and returns it ready for http.Server:

	mux := router.NewRouter(st, cfg)
	http.ListenAndServe(":5000", middleware.CORS(mux))

Routes fall into three access tiers:

  - public: auth endpoints, session and position/candidate reads, settings
  - authed: voting, participation requests, chat, /api/auth/me
  - admin (super_admin or manager): user management, session and roster
    mutation, request decisions, chat purge, settings updates, invites

Every route is wrapped with middleware.WithLogging; authed and admin tiers
add middleware.RequireUser and middleware.RequireRole.
*/
package router
