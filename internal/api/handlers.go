// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mathesis/internal/archive"
	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/engine"
	"github.com/tomtom215/mathesis/internal/session"
	ws "github.com/tomtom215/mathesis/internal/websocket"
)

// Token issuance throttle for session creation; the endpoint is reachable
// without a token, so it carries its own per-IP limiter on top of the
// route-tier rate limit.
const (
	tokenIssueBurst  = 10
	tokenIssueWindow = time.Minute
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_health.go: Health/monitoring endpoints
//   - handlers_auth.go: Admin login
//   - handlers_sessions.go: Session lifecycle endpoints
//   - handlers_catalog.go: Catalog and spatial query endpoints
//   - handlers_archive.go: Archived session endpoints
//   - handlers_ws.go: WebSocket upgrade
type Handler struct {
	sessions     *session.Manager
	store        *catalog.Store
	config       *config.Config
	jwtManager   *auth.JWTManager
	wsHub        *ws.Hub
	verifier     *auth.AdminVerifier // optional; admin login disabled when nil
	fetcher      *catalog.Fetcher    // optional; remote catalog reload when set
	archive      *archive.Archive    // optional; archive endpoints 503 when nil
	issueLimiter *auth.IssueLimiter
	startTime    time.Time
}

// NewHandler creates a new API handler with all required dependencies.
// Optional dependencies (admin verifier, catalog fetcher, archive) are
// attached through setters after construction.
func NewHandler(sessions *session.Manager, store *catalog.Store, cfg *config.Config, jwtManager *auth.JWTManager, wsHub *ws.Hub) *Handler {
	return &Handler{
		sessions:     sessions,
		store:        store,
		config:       cfg,
		jwtManager:   jwtManager,
		wsHub:        wsHub,
		issueLimiter: auth.NewIssueLimiter(tokenIssueBurst, tokenIssueWindow),
		startTime:    time.Now(),
	}
}

// SetAdminVerifier enables the admin login endpoint. Without a verifier
// POST /auth/login answers 503.
func (h *Handler) SetAdminVerifier(v *auth.AdminVerifier) {
	h.verifier = v
}

// SetFetcher enables remote catalog reloads. Without a fetcher,
// POST /catalog/reload re-reads the configured file path.
func (h *Handler) SetFetcher(f *catalog.Fetcher) {
	h.fetcher = f
}

// SetArchive enables the archive endpoints.
func (h *Handler) SetArchive(a *archive.Archive) {
	h.archive = a
}

// Close releases handler-owned resources (the token issuance limiter's
// cleanup goroutine).
func (h *Handler) Close() {
	if h.issueLimiter != nil {
		h.issueLimiter.Stop()
	}
}

// authorizeSession extracts the {id} path parameter, verifies the caller's
// token is scoped to that session (admins bypass the scope check), and
// restores the session from the journal if the process restarted since it
// was created. On failure it writes the error response and returns ok=false.
func (h *Handler) authorizeSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing session id", nil)
		return "", false
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return "", false
	}

	if claims.Role != auth.RoleAdmin && claims.SessionID != id {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Token is not scoped to this session", nil)
		return "", false
	}

	if _, err := h.sessions.GetOrRestore(r.Context(), id); err != nil {
		h.respondSessionError(w, err)
		return "", false
	}

	return id, true
}

// respondSessionError maps session and engine errors onto API error codes.
func (h *Handler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session does not exist", nil)
	case errors.Is(err, session.ErrCompleted):
		respondError(w, http.StatusConflict, "SESSION_COMPLETED", "Session is already completed", nil)
	case errors.Is(err, session.ErrTooManySessions):
		respondError(w, http.StatusTooManyRequests, "TOO_MANY_SESSIONS", "Session capacity reached, try again later", nil)
	case errors.Is(err, engine.ErrUnknownItem):
		respondError(w, http.StatusBadRequest, "UNKNOWN_ITEM", "Item is not in the current catalog", nil)
	case errors.Is(err, engine.ErrInvalidObservation):
		respondError(w, http.StatusBadRequest, "INVALID_OBSERVATION", "Observation failed validation", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}

// clientIP returns the caller's IP for rate-limit keying. RealIP middleware
// has already folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
