// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package invite

import (
	"errors"
	"strings"
	"time"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/store"
)

var (
	// ErrNotInvited means the email has no unused invite, or the supplied
	// token does not match one.
	ErrNotInvited = errors.New("not invited")

	// ErrInvalidCredentials covers every other bootstrap failure; callers
	// surface it exactly like a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Bootstrap provisions an account for a pre-invited voter whose login
// attempt failed against the user collection. The supplied password must
// match an unused invite token for the email; on success the voter account
// is created with that token as its initial credential and the invite is
// consumed. A duplicate-email race falls back to one lookup retry.
func Bootstrap(st store.Store, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	invites, err := st.Invites()
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	var matched *models.VoterInvite
	for i := range invites {
		if invites[i].Used() || !strings.EqualFold(invites[i].Email, email) {
			continue
		}
		if auth.CheckPassword(invites[i].TokenHash, password) {
			matched = &invites[i]
			break
		}
	}
	if matched == nil {
		return models.User{}, ErrNotInvited
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	user, err := st.AddUser(models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleVoter,
		Active:       true,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		// lost the race to another provisioning attempt; retry the lookup once
		existing, found, lerr := st.UserByEmail(email)
		if lerr != nil || !found {
			return models.User{}, ErrInvalidCredentials
		}
		user = existing
	} else if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := st.UpdateInvite(matched.ID, models.InvitePatch{UsedAt: &now}); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
