// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, response, and patch types for the API.

# Domain Types

  - User / SafeUser: account with role and active flag; SafeUser strips the hash
  - Session: bounded voting event with seats requirement and position list
  - Position: contestable seat, optionally attached to a session
  - Candidate: contender for a position
  - Vote: one ballot line (session, position, candidate, voter)
  - ParticipationRequest: voter's request to join a session
  - ChatMessage: session-scoped message, insertion order significant
  - Settings: single global record, seeded via DefaultSettings
  - VoterInvite: one-time invite token (bcrypt hash only)

# Patch Types

Updates go through explicit patch structs (UserPatch, SessionPatch, ...)
whose pointer fields mark which columns to merge. Unknown JSON keys are
dropped at decode time; there is no free-form field spreading.

# Constants

Roles:

	RoleSuperAdmin = "super_admin"
	RoleManager    = "manager"
	RoleVoter      = "voter"

Participation request statuses:

	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"

# Response Envelope

Every response carries a success flag. Failures use ErrorResponse:

	{"success": false, "message": "..."}
*/
package models
