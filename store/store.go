// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"

	"github.com/fabris-vote/fabris/models"
)

var (
	// ErrDuplicateEmail is returned by AddUser when the email is already
	// registered (case-insensitive).
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrDuplicateVote is returned by AddVote when the voter already voted
	// for the position in the session.
	ErrDuplicateVote = errors.New("vote already cast for this position")
)

// Store is the record store behind the API. Collections are ordered
// sequences; Add methods assign a fresh identifier and append; Update
// methods merge the explicit patch fields into the matching record and are
// no-ops when the record is missing; Delete methods remove the matching
// record and are no-ops when it is missing. Every mutation persists
// synchronously. Implementations must be safe for concurrent handlers.
type Store interface {
	// Users
	Users() ([]models.User, error)
	SaveUsers([]models.User) error
	AddUser(models.User) (models.User, error)
	UserByID(id string) (models.User, bool, error)
	UserByEmail(email string) (models.User, bool, error)
	UpdateUser(id string, patch models.UserPatch) error
	DeleteUser(id string) error

	// Sessions
	Sessions() ([]models.Session, error)
	SaveSessions([]models.Session) error
	AddSession(models.Session) (models.Session, error)
	SessionByID(id string) (models.Session, bool, error)
	UpdateSession(id string, patch models.SessionPatch) error
	DeleteSession(id string) error

	// Positions. AttachPosition appends the position to the end of the
	// session's position list in one atomic step; already-attached
	// positions and missing sessions are no-ops. DeletePosition also
	// detaches the position from every session's position list.
	Positions() ([]models.Position, error)
	AddPosition(models.Position) (models.Position, error)
	PositionByID(id string) (models.Position, bool, error)
	UpdatePosition(id string, patch models.PositionPatch) error
	AttachPosition(sessionID, positionID string) error
	DeletePosition(id string) error

	// Candidates
	Candidates() ([]models.Candidate, error)
	AddCandidate(models.Candidate) (models.Candidate, error)
	CandidateByID(id string) (models.Candidate, bool, error)
	UpdateCandidate(id string, patch models.CandidatePatch) error
	DeleteCandidate(id string) error

	// Votes are append-only. Insertion order is preserved.
	Votes() ([]models.Vote, error)
	AddVote(models.Vote) (models.Vote, error)

	// Participation requests
	Requests() ([]models.ParticipationRequest, error)
	AddRequest(models.ParticipationRequest) (models.ParticipationRequest, error)
	RequestByID(id string) (models.ParticipationRequest, bool, error)
	UpdateRequest(id string, patch models.RequestPatch) error

	// Settings is a single global record, seeded with defaults.
	Settings() (models.Settings, error)
	UpdateSettings(patch models.SettingsPatch) (models.Settings, error)

	// Chat. Insertion order is significant; AddChatMessage assigns the
	// timestamp when the caller leaves it zero.
	ChatMessages() ([]models.ChatMessage, error)
	AddChatMessage(models.ChatMessage) (models.ChatMessage, error)
	PurgeChatForSession(sessionID string) error

	// Voter invites
	Invites() ([]models.VoterInvite, error)
	AddInvite(models.VoterInvite) (models.VoterInvite, error)
	UpdateInvite(id string, patch models.InvitePatch) error

	Close() error
}
