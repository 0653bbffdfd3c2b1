// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package authz

import (
	"net/http"

	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/logging"
)

// Middleware enforces the Casbin policy on chi routes. It must be mounted
// after auth.Middleware.Authenticate so claims are in the context.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates authorization middleware over the given enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize checks the request path and method against the policy using the
// authenticated role as subject.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no authentication context", http.StatusForbidden)
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.EnforceRole(claims.Role, r.URL.Path, action)
		if err != nil {
			logging.Error().Err(err).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !allowed {
			logging.Warn().
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Authorization denied")
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
