// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pgstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

// Store implements store.Store on PostgreSQL. Collection order is carried
// by a seq column; uniqueness invariants (email, one vote per position per
// voter) are enforced by constraints rather than application scans.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL, verifies the connection, and ensures the
// schema exists.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

// Users

func (s *Store) Users() ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, COALESCE(name, ''), password_hash, role, active
		FROM users ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) SaveUsers(users []models.User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to replace users: %w", err)
	}
	for _, u := range users {
		if _, err := tx.Exec(`
			INSERT INTO users (id, email, name, password_hash, role, active)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active); err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) AddUser(u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = store.NewID(store.PrefixUser)
	}
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, name, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, store.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func (s *Store) UserByID(id string) (models.User, bool, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT id, email, COALESCE(name, ''), password_hash, role, active
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active)
	if err == sql.ErrNoRows {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to query user: %w", err)
	}
	return u, true, nil
}

func (s *Store) UserByEmail(email string) (models.User, bool, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT id, email, COALESCE(name, ''), password_hash, role, active
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active)
	if err == sql.ErrNoRows {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to query user: %w", err)
	}
	return u, true, nil
}

func (s *Store) UpdateUser(id string, patch models.UserPatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*patch.Email)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(set, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(id string) error {
	if _, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Sessions

func (s *Store) Sessions() ([]models.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, title, COALESCE(start_date, ''), COALESCE(end_date, ''), seats, closed
		FROM sessions ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	index := map[string]int{}
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.StartDate, &sess.EndDate, &sess.Seats, &sess.Closed); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.Positions = []string{}
		index[sess.ID] = len(sessions)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.Query(`
		SELECT session_id, position_id FROM session_position ORDER BY session_id, ord
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session positions: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var sessionID, positionID string
		if err := prows.Scan(&sessionID, &positionID); err != nil {
			return nil, fmt.Errorf("failed to scan session position: %w", err)
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Positions = append(sessions[i].Positions, positionID)
		}
	}
	return sessions, prows.Err()
}

func (s *Store) SaveSessions(sessions []models.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_position`); err != nil {
		return fmt.Errorf("failed to replace sessions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to replace sessions: %w", err)
	}
	for _, sess := range sessions {
		if err := insertSession(tx, sess); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertSession(tx *sql.Tx, sess models.Session) error {
	if _, err := tx.Exec(`
		INSERT INTO sessions (id, title, start_date, end_date, seats, closed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sess.ID, sess.Title, sess.StartDate, sess.EndDate, sess.Seats, sess.Closed); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	for i, pid := range sess.Positions {
		if _, err := tx.Exec(`
			INSERT INTO session_position (session_id, position_id, ord)
			VALUES ($1, $2, $3)
		`, sess.ID, pid, i); err != nil {
			return fmt.Errorf("failed to attach position: %w", err)
		}
	}
	return nil
}

func (s *Store) AddSession(sess models.Session) (models.Session, error) {
	if sess.ID == "" {
		sess.ID = store.NewID(store.PrefixSession)
	}
	sess.Closed = false
	if sess.Positions == nil {
		sess.Positions = []string{}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return models.Session{}, err
	}
	defer tx.Rollback()
	if err := insertSession(tx, sess); err != nil {
		return models.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *Store) SessionByID(id string) (models.Session, bool, error) {
	var sess models.Session
	err := s.db.QueryRow(`
		SELECT id, title, COALESCE(start_date, ''), COALESCE(end_date, ''), seats, closed
		FROM sessions WHERE id = $1
	`, id).Scan(&sess.ID, &sess.Title, &sess.StartDate, &sess.EndDate, &sess.Seats, &sess.Closed)
	if err == sql.ErrNoRows {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to query session: %w", err)
	}

	sess.Positions = []string{}
	rows, err := s.db.Query(`
		SELECT position_id FROM session_position WHERE session_id = $1 ORDER BY ord
	`, id)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to query session positions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return models.Session{}, false, fmt.Errorf("failed to scan session position: %w", err)
		}
		sess.Positions = append(sess.Positions, pid)
	}
	return sess, true, rows.Err()
}

func (s *Store) UpdateSession(id string, patch models.SessionPatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	set := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.Seats != nil {
		add("seats", *patch.Seats)
	}
	if patch.Closed != nil && *patch.Closed {
		// closed never reverts
		add("closed", true)
	}
	if len(set) > 0 {
		args = append(args, id)
		query := "UPDATE sessions SET " + strings.Join(set, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
	}

	if patch.Positions != nil {
		if _, err := tx.Exec(`DELETE FROM session_position WHERE session_id = $1`, id); err != nil {
			return fmt.Errorf("failed to update session positions: %w", err)
		}
		for i, pid := range *patch.Positions {
			if _, err := tx.Exec(`
				INSERT INTO session_position (session_id, position_id, ord)
				VALUES ($1, $2, $3)
			`, id, pid, i); err != nil {
				return fmt.Errorf("failed to attach position: %w", err)
			}
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteSession(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Positions

func (s *Store) Positions() ([]models.Position, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(session_id, ''), title FROM positions ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *Store) AddPosition(p models.Position) (models.Position, error) {
	if p.ID == "" {
		p.ID = store.NewID(store.PrefixPosition)
	}
	if _, err := s.db.Exec(`
		INSERT INTO positions (id, session_id, title) VALUES ($1, $2, $3)
	`, p.ID, p.SessionID, p.Title); err != nil {
		return models.Position{}, fmt.Errorf("failed to insert position: %w", err)
	}
	return p, nil
}

func (s *Store) PositionByID(id string) (models.Position, bool, error) {
	var p models.Position
	err := s.db.QueryRow(`
		SELECT id, COALESCE(session_id, ''), title FROM positions WHERE id = $1
	`, id).Scan(&p.ID, &p.SessionID, &p.Title)
	if err == sql.ErrNoRows {
		return models.Position{}, false, nil
	}
	if err != nil {
		return models.Position{}, false, fmt.Errorf("failed to query position: %w", err)
	}
	return p, true, nil
}

func (s *Store) UpdatePosition(id string, patch models.PositionPatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.SessionID != nil {
		add("session_id", *patch.SessionID)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE positions SET " + strings.Join(set, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return nil
}

// AttachPosition appends the position to the end of the session's list in
// a single insert; already-attached positions and missing sessions are
// no-ops.
func (s *Store) AttachPosition(sessionID, positionID string) error {
	if _, err := s.db.Exec(`
		INSERT INTO session_position (session_id, position_id, ord)
		SELECT id, $2, COALESCE((SELECT MAX(ord) + 1 FROM session_position WHERE session_id = $1), 0)
		FROM sessions WHERE id = $1
		ON CONFLICT (session_id, position_id) DO NOTHING
	`, sessionID, positionID); err != nil {
		return fmt.Errorf("failed to attach position: %w", err)
	}
	return nil
}

// DeletePosition removes the position and detaches it from every session.
func (s *Store) DeletePosition(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM positions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM session_position WHERE position_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach position: %w", err)
	}
	return tx.Commit()
}

// Candidates

func (s *Store) Candidates() ([]models.Candidate, error) {
	rows, err := s.db.Query(`
		SELECT id, position_id, name FROM candidates ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.PositionID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *Store) AddCandidate(c models.Candidate) (models.Candidate, error) {
	if c.ID == "" {
		c.ID = store.NewID(store.PrefixCandidate)
	}
	if _, err := s.db.Exec(`
		INSERT INTO candidates (id, position_id, name) VALUES ($1, $2, $3)
	`, c.ID, c.PositionID, c.Name); err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return c, nil
}

func (s *Store) CandidateByID(id string) (models.Candidate, bool, error) {
	var c models.Candidate
	err := s.db.QueryRow(`
		SELECT id, position_id, name FROM candidates WHERE id = $1
	`, id).Scan(&c.ID, &c.PositionID, &c.Name)
	if err == sql.ErrNoRows {
		return models.Candidate{}, false, nil
	}
	if err != nil {
		return models.Candidate{}, false, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, true, nil
}

func (s *Store) UpdateCandidate(id string, patch models.CandidatePatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.PositionID != nil {
		add("position_id", *patch.PositionID)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE candidates SET " + strings.Join(set, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	return nil
}

func (s *Store) DeleteCandidate(id string) error {
	if _, err := s.db.Exec(`DELETE FROM candidates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}

// Votes

func (s *Store) Votes() ([]models.Vote, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, position_id, candidate_id, voter_id
		FROM votes ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.SessionID, &v.PositionID, &v.CandidateID, &v.VoterID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *Store) AddVote(v models.Vote) (models.Vote, error) {
	if v.ID == "" {
		v.ID = store.NewID(store.PrefixVote)
	}
	_, err := s.db.Exec(`
		INSERT INTO votes (id, session_id, position_id, candidate_id, voter_id)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.SessionID, v.PositionID, v.CandidateID, v.VoterID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, store.ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	return v, nil
}

// Participation requests

func (s *Store) Requests() ([]models.ParticipationRequest, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, voter_id, COALESCE(email, ''), status
		FROM requests ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ParticipationRequest{}
	for rows.Next() {
		var r models.ParticipationRequest
		if err := rows.Scan(&r.ID, &r.SessionID, &r.VoterID, &r.Email, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) AddRequest(r models.ParticipationRequest) (models.ParticipationRequest, error) {
	if r.ID == "" {
		r.ID = store.NewID(store.PrefixRequest)
	}
	r.Status = models.RequestPending
	if _, err := s.db.Exec(`
		INSERT INTO requests (id, session_id, voter_id, email, status)
		VALUES ($1, $2, $3, $4, $5)
	`, r.ID, r.SessionID, r.VoterID, r.Email, r.Status); err != nil {
		return models.ParticipationRequest{}, fmt.Errorf("failed to insert request: %w", err)
	}
	return r, nil
}

func (s *Store) RequestByID(id string) (models.ParticipationRequest, bool, error) {
	var r models.ParticipationRequest
	err := s.db.QueryRow(`
		SELECT id, session_id, voter_id, COALESCE(email, ''), status
		FROM requests WHERE id = $1
	`, id).Scan(&r.ID, &r.SessionID, &r.VoterID, &r.Email, &r.Status)
	if err == sql.ErrNoRows {
		return models.ParticipationRequest{}, false, nil
	}
	if err != nil {
		return models.ParticipationRequest{}, false, fmt.Errorf("failed to query request: %w", err)
	}
	return r, true, nil
}

func (s *Store) UpdateRequest(id string, patch models.RequestPatch) error {
	if patch.Status == nil {
		return nil
	}
	if _, err := s.db.Exec(`
		UPDATE requests SET status = $1 WHERE id = $2
	`, *patch.Status, id); err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

// Settings

func (s *Store) Settings() (models.Settings, error) {
	var settings models.Settings
	err := s.db.QueryRow(`
		SELECT name, logo, rules, session_visibility FROM app_settings WHERE id = 1
	`).Scan(&settings.Name, &settings.Logo, &settings.Rules, &settings.SessionVisibility)
	if err == sql.ErrNoRows {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return settings, nil
}

func (s *Store) UpdateSettings(patch models.SettingsPatch) (models.Settings, error) {
	settings, err := s.Settings()
	if err != nil {
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
	if _, err := s.db.Exec(`
		INSERT INTO app_settings (id, name, logo, rules, session_visibility)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			logo = EXCLUDED.logo,
			rules = EXCLUDED.rules,
			session_visibility = EXCLUDED.session_visibility
	`, settings.Name, settings.Logo, settings.Rules, settings.SessionVisibility); err != nil {
		return models.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

// Chat

func (s *Store) ChatMessages() ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, author_id, body, ts FROM chat_messages ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.AuthorID, &m.Body, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) AddChatMessage(m models.ChatMessage) (models.ChatMessage, error) {
	if m.ID == "" {
		m.ID = store.NewID(store.PrefixMessage)
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if _, err := s.db.Exec(`
		INSERT INTO chat_messages (id, session_id, author_id, body, ts)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.SessionID, m.AuthorID, m.Body, m.Timestamp); err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to insert chat message: %w", err)
	}
	return m, nil
}

func (s *Store) PurgeChatForSession(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM chat_messages WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to purge chat: %w", err)
	}
	return nil
}

// Voter invites

func (s *Store) Invites() ([]models.VoterInvite, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, email, token_hash, used_at FROM voter_invites ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	invites := []models.VoterInvite{}
	for rows.Next() {
		var inv models.VoterInvite
		var usedAt sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.SessionID, &inv.Email, &inv.TokenHash, &usedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		if usedAt.Valid {
			t := usedAt.Time
			inv.UsedAt = &t
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (s *Store) AddInvite(inv models.VoterInvite) (models.VoterInvite, error) {
	if inv.ID == "" {
		inv.ID = store.NewID(store.PrefixInvite)
	}
	var usedAt sql.NullTime
	if inv.UsedAt != nil {
		usedAt = sql.NullTime{Time: *inv.UsedAt, Valid: true}
	}
	if _, err := s.db.Exec(`
		INSERT INTO voter_invites (id, session_id, email, token_hash, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`, inv.ID, inv.SessionID, inv.Email, inv.TokenHash, usedAt); err != nil {
		return models.VoterInvite{}, fmt.Errorf("failed to insert invite: %w", err)
	}
	return inv, nil
}

func (s *Store) UpdateInvite(id string, patch models.InvitePatch) error {
	if patch.UsedAt == nil {
		return nil
	}
	if _, err := s.db.Exec(`
		UPDATE voter_invites SET used_at = $1 WHERE id = $2
	`, *patch.UsedAt, id); err != nil {
		return fmt.Errorf("failed to update invite: %w", err)
	}
	return nil
}
