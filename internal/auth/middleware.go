// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/mathesis/internal/logging"
)

type contextKey string

// ClaimsContextKey is where Authenticate stores validated claims for
// downstream handlers.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie checked when no Authorization header is
// present. Browser dashboard clients authenticate this way; API clients
// use bearer headers.
const TokenCookieName = "mathesis_token"

// Middleware enforces authentication on chi routes. Local HS256 session
// tokens are always accepted; tokens from an external OIDC provider are
// accepted additionally when a verifier is configured.
type Middleware struct {
	jwt  *JWTManager
	oidc *OIDCVerifier // nil unless oidc.issuer_url is configured
}

// NewMiddleware creates authentication middleware. oidc may be nil.
func NewMiddleware(jwt *JWTManager, oidc *OIDCVerifier) *Middleware {
	return &Middleware{jwt: jwt, oidc: oidc}
}

// Authenticate validates the request's token and injects its claims into the
// request context. Requests without a valid token get 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
			return
		}

		claims, err := m.validate(r.Context(), token)
		if err != nil {
			logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validate tries the local HS256 manager first, then the OIDC verifier.
// Local tokens are the common case (every session mints one); the OIDC path
// involves JWKS lookups and only runs for tokens the local manager rejects.
func (m *Middleware) validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err == nil {
		return claims, nil
	}
	if m.oidc == nil {
		return nil, err
	}

	oidcClaims, oidcErr := m.oidc.Verify(ctx, token)
	if oidcErr != nil {
		return nil, fmt.Errorf("local: %w; oidc: %s", err, oidcErr)
	}
	return oidcClaims, nil
}

// RequireRole returns middleware that rejects authenticated requests whose
// role is neither the required one nor admin. It must be mounted after
// Authenticate.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: missing claims", http.StatusForbidden)
				return
			}
			if claims.Role != role && claims.Role != RoleAdmin {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// extractToken pulls the token from the Authorization header, falling back
// to the session cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
