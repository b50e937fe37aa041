// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// User role constants
const (
	RoleSuperAdmin = "super_admin"
	RoleManager    = "manager"
	RoleVoter      = "voter"
)

// Participation request status constants
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Domain types

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}

// SafeUser is a User with the credential hash stripped. API responses
// carry SafeUser, never User.
type SafeUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Active: u.Active}
}

type Session struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Seats     int      `json:"seats"`
	Positions []string `json:"positions"`
	Closed    bool     `json:"closed"`
}

type Position struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id,omitempty"`
	Title     string `json:"title"`
}

type Candidate struct {
	ID         string `json:"id"`
	PositionID string `json:"position_id"`
	Name       string `json:"name"`
}

type Vote struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
	VoterID     string `json:"voter_id"`
}

type ParticipationRequest struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	VoterID   string `json:"voter_id"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

type Settings struct {
	Name              string `json:"name"`
	Logo              string `json:"logo"`
	Rules             string `json:"rules"`
	SessionVisibility string `json:"session_visibility"`
}

// DefaultSettings is seeded on first access.
func DefaultSettings() Settings {
	return Settings{
		Name:              "Voting System",
		Logo:              "",
		Rules:             "one_vote_per_position",
		SessionVisibility: "public",
	}
}

// VoterInvite is a one-time invite for a not-yet-registered voter. The
// invite token is never stored in the clear; TokenHash is a bcrypt hash
// and the plaintext is returned exactly once at creation.
type VoterInvite struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Email     string     `json:"email"`
	TokenHash string     `json:"token_hash"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func (i VoterInvite) Used() bool { return i.UsedAt != nil }

// Patch types
//
// Updates merge only the explicit fields below; unknown JSON keys are
// dropped at decode time rather than spread into the record.

type UserPatch struct {
	Email        *string `json:"email,omitempty"`
	Name         *string `json:"name,omitempty"`
	PasswordHash *string `json:"password_hash,omitempty"`
	Role         *string `json:"role,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

type SessionPatch struct {
	Title     *string   `json:"title,omitempty"`
	StartDate *string   `json:"start_date,omitempty"`
	EndDate   *string   `json:"end_date,omitempty"`
	Seats     *int      `json:"seats,omitempty"`
	Positions *[]string `json:"positions,omitempty"`
	Closed    *bool     `json:"closed,omitempty"`
}

type PositionPatch struct {
	SessionID *string `json:"session_id,omitempty"`
	Title     *string `json:"title,omitempty"`
}

type CandidatePatch struct {
	PositionID *string `json:"position_id,omitempty"`
	Name       *string `json:"name,omitempty"`
}

type RequestPatch struct {
	Status *string `json:"status,omitempty"`
}

type SettingsPatch struct {
	Name              *string `json:"name,omitempty"`
	Logo              *string `json:"logo,omitempty"`
	Rules             *string `json:"rules,omitempty"`
	SessionVisibility *string `json:"session_visibility,omitempty"`
}

type InvitePatch struct {
	UsedAt *time.Time `json:"used_at,omitempty"`
}

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateSessionRequest struct {
	Title     string   `json:"title"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Seats     int      `json:"seats"`
	Positions []string `json:"positions"`
}

type CreatePositionRequest struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

type CreateCandidateRequest struct {
	PositionID string `json:"position_id"`
	Name       string `json:"name"`
}

type CastVoteRequest struct {
	SessionID   string `json:"session_id"`
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
}

type CreateRequestRequest struct {
	SessionID string `json:"session_id"`
}

type PostChatRequest struct {
	SessionID string `json:"session_id"`
	Body      string `json:"body"`
}

type CreateInvitesRequest struct {
	SessionID string   `json:"session_id"`
	Emails    []string `json:"emails"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the wire shape for user updates; the handler hashes
// Password before it reaches the store as a UserPatch.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Response types

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    SafeUser `json:"user"`
}

type MeResponse struct {
	Success bool     `json:"success"`
	User    SafeUser `json:"user"`
}

type UserResponse struct {
	Success bool     `json:"success"`
	User    SafeUser `json:"user"`
}

type UsersResponse struct {
	Success bool       `json:"success"`
	Users   []SafeUser `json:"users"`
}

// SessionView decorates a Session with its computed activity state.
type SessionView struct {
	Session
	Active bool `json:"active"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Session SessionView `json:"session"`
}

type SessionsResponse struct {
	Success  bool          `json:"success"`
	Sessions []SessionView `json:"sessions"`
}

type PositionResponse struct {
	Success  bool     `json:"success"`
	Position Position `json:"position"`
}

type PositionsResponse struct {
	Success   bool       `json:"success"`
	Positions []Position `json:"positions"`
}

type CandidateResponse struct {
	Success   bool      `json:"success"`
	Candidate Candidate `json:"candidate"`
}

type CandidatesResponse struct {
	Success    bool        `json:"success"`
	Candidates []Candidate `json:"candidates"`
}

type VoteResponse struct {
	Success bool `json:"success"`
	Vote    Vote `json:"vote"`
}

type VotesResponse struct {
	Success bool   `json:"success"`
	Votes   []Vote `json:"votes"`
}

type VoteCountsResponse struct {
	Success bool           `json:"success"`
	Counts  map[string]int `json:"counts"`
}

type RequestResponse struct {
	Success bool                 `json:"success"`
	Request ParticipationRequest `json:"request"`
}

type RequestsResponse struct {
	Success  bool                   `json:"success"`
	Requests []ParticipationRequest `json:"requests"`
}

type ChatMessageResponse struct {
	Success bool        `json:"success"`
	Message ChatMessage `json:"message"`
}

type ChatMessagesResponse struct {
	Success  bool          `json:"success"`
	Messages []ChatMessage `json:"messages"`
}

type SettingsResponse struct {
	Success  bool     `json:"success"`
	Settings Settings `json:"settings"`
}

// CreatedInvite pairs a stored invite with its plaintext token. The token
// is only ever present in the creation response.
type CreatedInvite struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type CreateInvitesResponse struct {
	Success bool            `json:"success"`
	Invites []CreatedInvite `json:"invites"`
}

type InviteInfo struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Email     string     `json:"email"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

type InvitesResponse struct {
	Success bool         `json:"success"`
	Invites []InviteInfo `json:"invites"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
