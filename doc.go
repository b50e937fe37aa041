// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Fabris voting API server.

Fabris manages voting sessions: admins define sessions with positions and
candidates, voters cast one vote per position, and each session carries its
own chat room.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	JWT_SECRET=... go run main.go

Or with flags against PostgreSQL:

	go run main.go -p 5000 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): Auth token signing secret
  - DATABASE_URL (-d): PostgreSQL connection string (postgres driver only)

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - STORE_DRIVER (-t): "local" or "postgres" (default: local)
  - DATA_PATH (--data): Local store file (default: fabris.db)
  - TOKEN_TTL (--token-ttl): Auth token lifetime (default: 168h)
  - ADMIN_EMAIL / ADMIN_PASSWORD: bootstrap super admin

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, users, sessions, votes, chat)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth guards, JSON helpers
  - models: Domain, request and response types
  - store: Record store contract
  - localstore / pgstore: SQLite-file and PostgreSQL store backends
  - policy: Session activity and auto-close rules
  - tally: Vote filtering and counting
  - auth: Passwords, JWT tokens, invite tokens
  - invite: First-login voter provisioning
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
