// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

// Collection keys. Each collection is one JSON blob under a fixed key,
// mirroring the flat named-collection layout the frontend mock used.
const (
	keyUsers      = "users"
	keySessions   = "sessions"
	keyPositions  = "positions"
	keyCandidates = "candidates"
	keyVotes      = "votes"
	keyRequests   = "requests"
	keySettings   = "settings"
	keyChats      = "session_chats"
	keyInvites    = "voter_invites"
)

// Store persists every collection as a JSON blob in a single key/value
// table inside an embedded SQLite file. A mutex serializes read-modify-write
// cycles so concurrent handlers cannot lose updates.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the store at path. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// A single connection keeps the in-memory variant coherent and avoids
	// SQLITE_BUSY on the file variant.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collection (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create collection table: %w", err)
	}

	s := &Store{db: db}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// seed writes defaults for collections that have never been stored.
func (s *Store) seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := map[string]string{
		keyUsers:      "[]",
		keySessions:   "[]",
		keyPositions:  "[]",
		keyCandidates: "[]",
		keyVotes:      "[]",
		keyRequests:   "[]",
		keyChats:      "[]",
		keyInvites:    "[]",
	}
	for key, blob := range empty {
		if _, err := s.db.Exec(`
			INSERT INTO collection (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO NOTHING
		`, key, blob); err != nil {
			return fmt.Errorf("failed to seed %s: %w", key, err)
		}
	}

	defaults, err := json.Marshal(models.DefaultSettings())
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`
		INSERT INTO collection (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING
	`, keySettings, string(defaults)); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// read loads the collection under key into v. A missing key or malformed
// blob leaves v at its zero value: stored corruption degrades to an empty
// collection instead of surfacing an error.
func (s *Store) read(key string, v any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM collection WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		// fail-open
		return nil
	}
	return nil
}

func (s *Store) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, err := s.db.Exec(`
		INSERT INTO collection (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Users

func (s *Store) Users() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	err := s.read(keyUsers, &users)
	return users, err
}

func (s *Store) SaveUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keyUsers, users)
}

func (s *Store) AddUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	if err := s.read(keyUsers, &users); err != nil {
		return models.User{}, err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, store.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = store.NewID(store.PrefixUser)
	}
	users = append(users, u)
	if err := s.write(keyUsers, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) UserByID(id string) (models.User, bool, error) {
	users, err := s.Users()
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *Store) UserByEmail(email string) (models.User, bool, error) {
	users, err := s.Users()
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *Store) UpdateUser(id string, patch models.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	if err := s.read(keyUsers, &users); err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if patch.Email != nil {
			users[i].Email = strings.ToLower(strings.TrimSpace(*patch.Email))
		}
		if patch.Name != nil {
			users[i].Name = *patch.Name
		}
		if patch.PasswordHash != nil {
			users[i].PasswordHash = *patch.PasswordHash
		}
		if patch.Role != nil {
			users[i].Role = *patch.Role
		}
		if patch.Active != nil {
			users[i].Active = *patch.Active
		}
		return s.write(keyUsers, users)
	}
	return nil
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	if err := s.read(keyUsers, &users); err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	return s.write(keyUsers, kept)
}

// Sessions

func (s *Store) Sessions() ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sessions []models.Session
	err := s.read(keySessions, &sessions)
	return sessions, err
}

func (s *Store) SaveSessions(sessions []models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keySessions, sessions)
}

func (s *Store) AddSession(sess models.Session) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sessions []models.Session
	if err := s.read(keySessions, &sessions); err != nil {
		return models.Session{}, err
	}
	if sess.ID == "" {
		sess.ID = store.NewID(store.PrefixSession)
	}
	sess.Closed = false
	if sess.Positions == nil {
		sess.Positions = []string{}
	}
	sessions = append(sessions, sess)
	if err := s.write(keySessions, sessions); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *Store) SessionByID(id string) (models.Session, bool, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return models.Session{}, false, err
	}
	for _, sess := range sessions {
		if sess.ID == id {
			return sess, true, nil
		}
	}
	return models.Session{}, false, nil
}

func (s *Store) UpdateSession(id string, patch models.SessionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sessions []models.Session
	if err := s.read(keySessions, &sessions); err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		applySessionPatch(&sessions[i], patch)
		return s.write(keySessions, sessions)
	}
	return nil
}

func applySessionPatch(sess *models.Session, patch models.SessionPatch) {
	if patch.Title != nil {
		sess.Title = *patch.Title
	}
	if patch.StartDate != nil {
		sess.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		sess.EndDate = *patch.EndDate
	}
	if patch.Seats != nil {
		sess.Seats = *patch.Seats
	}
	if patch.Positions != nil {
		sess.Positions = *patch.Positions
	}
	if patch.Closed != nil {
		// closed never reverts to false
		if *patch.Closed {
			sess.Closed = true
		}
	}
}

func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sessions []models.Session
	if err := s.read(keySessions, &sessions); err != nil {
		return err
	}
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}
	return s.write(keySessions, kept)
}

// Positions

func (s *Store) Positions() ([]models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var positions []models.Position
	err := s.read(keyPositions, &positions)
	return positions, err
}

func (s *Store) AddPosition(p models.Position) (models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var positions []models.Position
	if err := s.read(keyPositions, &positions); err != nil {
		return models.Position{}, err
	}
	if p.ID == "" {
		p.ID = store.NewID(store.PrefixPosition)
	}
	positions = append(positions, p)
	if err := s.write(keyPositions, positions); err != nil {
		return models.Position{}, err
	}
	return p, nil
}

func (s *Store) PositionByID(id string) (models.Position, bool, error) {
	positions, err := s.Positions()
	if err != nil {
		return models.Position{}, false, err
	}
	for _, p := range positions {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Position{}, false, nil
}

func (s *Store) UpdatePosition(id string, patch models.PositionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var positions []models.Position
	if err := s.read(keyPositions, &positions); err != nil {
		return err
	}
	for i := range positions {
		if positions[i].ID != id {
			continue
		}
		if patch.SessionID != nil {
			positions[i].SessionID = *patch.SessionID
		}
		if patch.Title != nil {
			positions[i].Title = *patch.Title
		}
		return s.write(keyPositions, positions)
	}
	return nil
}

// AttachPosition appends the position id to the session's list in one
// locked read-modify-write, so concurrent attaches cannot drop each other.
func (s *Store) AttachPosition(sessionID, positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []models.Session
	if err := s.read(keySessions, &sessions); err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		for _, pid := range sessions[i].Positions {
			if pid == positionID {
				return nil
			}
		}
		sessions[i].Positions = append(sessions[i].Positions, positionID)
		return s.write(keySessions, sessions)
	}
	return nil
}

// DeletePosition removes the position and detaches its id from every
// session's position list.
func (s *Store) DeletePosition(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []models.Position
	if err := s.read(keyPositions, &positions); err != nil {
		return err
	}
	kept := positions[:0]
	for _, p := range positions {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) != len(positions) {
		if err := s.write(keyPositions, kept); err != nil {
			return err
		}
	}

	var sessions []models.Session
	if err := s.read(keySessions, &sessions); err != nil {
		return err
	}
	changed := false
	for i := range sessions {
		filtered := sessions[i].Positions[:0]
		for _, pid := range sessions[i].Positions {
			if pid != id {
				filtered = append(filtered, pid)
			}
		}
		if len(filtered) != len(sessions[i].Positions) {
			sessions[i].Positions = filtered
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.write(keySessions, sessions)
}

// Candidates

func (s *Store) Candidates() ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []models.Candidate
	err := s.read(keyCandidates, &candidates)
	return candidates, err
}

func (s *Store) AddCandidate(c models.Candidate) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []models.Candidate
	if err := s.read(keyCandidates, &candidates); err != nil {
		return models.Candidate{}, err
	}
	if c.ID == "" {
		c.ID = store.NewID(store.PrefixCandidate)
	}
	candidates = append(candidates, c)
	if err := s.write(keyCandidates, candidates); err != nil {
		return models.Candidate{}, err
	}
	return c, nil
}

func (s *Store) CandidateByID(id string) (models.Candidate, bool, error) {
	candidates, err := s.Candidates()
	if err != nil {
		return models.Candidate{}, false, err
	}
	for _, c := range candidates {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Candidate{}, false, nil
}

func (s *Store) UpdateCandidate(id string, patch models.CandidatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []models.Candidate
	if err := s.read(keyCandidates, &candidates); err != nil {
		return err
	}
	for i := range candidates {
		if candidates[i].ID != id {
			continue
		}
		if patch.PositionID != nil {
			candidates[i].PositionID = *patch.PositionID
		}
		if patch.Name != nil {
			candidates[i].Name = *patch.Name
		}
		return s.write(keyCandidates, candidates)
	}
	return nil
}

func (s *Store) DeleteCandidate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []models.Candidate
	if err := s.read(keyCandidates, &candidates); err != nil {
		return err
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(candidates) {
		return nil
	}
	return s.write(keyCandidates, kept)
}

// Votes

func (s *Store) Votes() ([]models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var votes []models.Vote
	err := s.read(keyVotes, &votes)
	return votes, err
}

func (s *Store) AddVote(v models.Vote) (models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var votes []models.Vote
	if err := s.read(keyVotes, &votes); err != nil {
		return models.Vote{}, err
	}
	for _, existing := range votes {
		if existing.SessionID == v.SessionID &&
			existing.PositionID == v.PositionID &&
			existing.VoterID == v.VoterID {
			return models.Vote{}, store.ErrDuplicateVote
		}
	}
	if v.ID == "" {
		v.ID = store.NewID(store.PrefixVote)
	}
	votes = append(votes, v)
	if err := s.write(keyVotes, votes); err != nil {
		return models.Vote{}, err
	}
	return v, nil
}

// Participation requests

func (s *Store) Requests() ([]models.ParticipationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.ParticipationRequest
	err := s.read(keyRequests, &requests)
	return requests, err
}

func (s *Store) AddRequest(r models.ParticipationRequest) (models.ParticipationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.ParticipationRequest
	if err := s.read(keyRequests, &requests); err != nil {
		return models.ParticipationRequest{}, err
	}
	if r.ID == "" {
		r.ID = store.NewID(store.PrefixRequest)
	}
	r.Status = models.RequestPending
	requests = append(requests, r)
	if err := s.write(keyRequests, requests); err != nil {
		return models.ParticipationRequest{}, err
	}
	return r, nil
}

func (s *Store) RequestByID(id string) (models.ParticipationRequest, bool, error) {
	requests, err := s.Requests()
	if err != nil {
		return models.ParticipationRequest{}, false, err
	}
	for _, r := range requests {
		if r.ID == id {
			return r, true, nil
		}
	}
	return models.ParticipationRequest{}, false, nil
}

func (s *Store) UpdateRequest(id string, patch models.RequestPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.ParticipationRequest
	if err := s.read(keyRequests, &requests); err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID != id {
			continue
		}
		if patch.Status != nil {
			requests[i].Status = *patch.Status
		}
		return s.write(keyRequests, requests)
	}
	return nil
}

// Settings

func (s *Store) Settings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := models.DefaultSettings()
	if err := s.read(keySettings, &settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *Store) UpdateSettings(patch models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := models.DefaultSettings()
	if err := s.read(keySettings, &settings); err != nil {
		return models.Settings{}, err
	}
	if patch.Name != nil {
		settings.Name = *patch.Name
	}
	if patch.Logo != nil {
		settings.Logo = *patch.Logo
	}
	if patch.Rules != nil {
		settings.Rules = *patch.Rules
	}
	if patch.SessionVisibility != nil {
		settings.SessionVisibility = *patch.SessionVisibility
	}
	if err := s.write(keySettings, settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Chat

func (s *Store) ChatMessages() ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []models.ChatMessage
	err := s.read(keyChats, &messages)
	return messages, err
}

func (s *Store) AddChatMessage(m models.ChatMessage) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []models.ChatMessage
	if err := s.read(keyChats, &messages); err != nil {
		return models.ChatMessage{}, err
	}
	if m.ID == "" {
		m.ID = store.NewID(store.PrefixMessage)
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	messages = append(messages, m)
	if err := s.write(keyChats, messages); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

func (s *Store) PurgeChatForSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []models.ChatMessage
	if err := s.read(keyChats, &messages); err != nil {
		return err
	}
	kept := messages[:0]
	for _, m := range messages {
		if m.SessionID != sessionID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(messages) {
		return nil
	}
	return s.write(keyChats, kept)
}

// Voter invites

func (s *Store) Invites() ([]models.VoterInvite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var invites []models.VoterInvite
	err := s.read(keyInvites, &invites)
	return invites, err
}

func (s *Store) AddInvite(inv models.VoterInvite) (models.VoterInvite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var invites []models.VoterInvite
	if err := s.read(keyInvites, &invites); err != nil {
		return models.VoterInvite{}, err
	}
	if inv.ID == "" {
		inv.ID = store.NewID(store.PrefixInvite)
	}
	invites = append(invites, inv)
	if err := s.write(keyInvites, invites); err != nil {
		return models.VoterInvite{}, err
	}
	return inv, nil
}

func (s *Store) UpdateInvite(id string, patch models.InvitePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var invites []models.VoterInvite
	if err := s.read(keyInvites, &invites); err != nil {
		return err
	}
	for i := range invites {
		if invites[i].ID != id {
			continue
		}
		if patch.UsedAt != nil {
			invites[i].UsedAt = patch.UsedAt
		}
		return s.write(keyInvites, invites)
	}
	return nil
}
