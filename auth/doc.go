// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential hashing and token utilities.

# Passwords

bcrypt with the default cost:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# Session Tokens

HS256 JWTs carrying the user id and role:

	token, err := auth.GenerateToken(user.ID, user.Role, secret, ttl)
	claims, err := auth.ParseToken(token, secret)

The middleware resolves tokens from the Authorization header or the token
cookie and reloads the user from the store, so a role change takes effect
on the next request rather than at token expiry.

# Invite Tokens

One-time voter invite tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateInviteToken()

URL-safe base64 without padding. Only a bcrypt hash of the token is stored;
the plaintext appears exactly once in the invite-creation response.
*/
package auth
