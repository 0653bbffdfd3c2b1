// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances hashing latency against brute-force resistance. Admin
// logins are rare, so the slower cost is affordable.
const bcryptCost = 12

// AdminVerifier checks admin credentials against a bcrypt hash configured at
// startup. The plaintext password is never held in memory.
type AdminVerifier struct {
	username     string
	passwordHash []byte
}

// NewAdminVerifier creates a verifier from a configured username and bcrypt
// password hash. The hash format is validated eagerly so a malformed config
// fails at boot instead of on the first login attempt.
func NewAdminVerifier(username, passwordHash string) (*AdminVerifier, error) {
	if username == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash is not a valid bcrypt hash: %w", err)
	}

	return &AdminVerifier{
		username:     username,
		passwordHash: []byte(passwordHash),
	}, nil
}

// Verify reports whether the supplied credentials match. Both comparisons
// always run; using a single && with the bcrypt check last would leak whether
// the username matched through response timing.
func (v *AdminVerifier) Verify(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// HashPassword produces a bcrypt hash suitable for the admin_password_hash
// config field. Exposed for the hash-admin-password CLI path and tests.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
