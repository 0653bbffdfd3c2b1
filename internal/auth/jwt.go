// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/mathesis/internal/config"
)

// Role values carried in session tokens. Learners can only touch their own
// session; admins additionally reach catalog reload and archive queries.
const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// Claims are the JWT claims minted for a session token. SessionID scopes the
// token to a single assessment session; a learner token for session A cannot
// record observations against session B.
type Claims struct {
	Subject   string `json:"sub_name"`
	SessionID string `json:"session_id,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager mints and validates HS256 session tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a token manager from the security configuration.
// The secret must be non-empty; there is no insecure fallback.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required but was empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
	}, nil
}

// GenerateToken mints a signed HS256 token for the given subject. sessionID
// may be empty for tokens not bound to a session (admin logins).
func (m *JWTManager) GenerateToken(subject, sessionID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Subject:   subject,
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token string, returning its claims.
// The signing method is pinned to HMAC before the signature is checked so a
// token asserting RS256 or alg=none is rejected outright.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// TTL returns the configured token lifetime. The API layer uses it to set
// cookie expiry consistently with the token's own ExpiresAt claim.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}
