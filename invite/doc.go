// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package invite provisions accounts for pre-invited voters on first login.

An admin creates VoterInvite records for a session; each carries a one-time
random token (only its bcrypt hash is stored). When a login attempt fails
against the user collection, the auth handler calls

	user, err := invite.Bootstrap(st, email, password)

which matches the supplied password against the email's unused invite
tokens, creates a voter account with that token as the initial credential,
and marks the invite used. A second identical login succeeds through the
normal password path without creating a duplicate.

Errors: ErrNotInvited when no unused invite matches; every other failure is
ErrInvalidCredentials, indistinguishable from a wrong password.
*/
package invite
