// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"time"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// Request validation structs use go-playground/validator v10 tags:
//   - required: field must be present and non-zero
//   - min,max: numeric or string length bounds
//   - unitinterval: float must lie in [0,1] (custom rule, internal/validation)
//   - omitempty: skip validation if field is empty/zero
//
// Body structs additionally carry json tags; query structs are populated
// from URL parameters before validation.

// LoginRequest is the request body for POST /api/v1/auth/login.
//
// Fields:
//   - Username: Required admin login name
//   - Password: Required admin password
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginResponse is returned on successful admin login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// CreateSessionRequest is the request body for POST /api/v1/sessions.
// Both fields are optional; an anonymous, domain-unscoped session is valid.
//
// Fields:
//   - LearnerTag: Opaque caller-supplied label echoed in the archive
//   - Domain: Default domain filter applied to question selection
type CreateSessionRequest struct {
	LearnerTag string `json:"learner_tag" validate:"omitempty,max=64"`
	Domain     string `json:"domain" validate:"omitempty,max=64"`
}

// CreateSessionResponse is returned on session creation. The token is
// scoped to the created session and authorizes all /sessions/{id} calls.
type CreateSessionResponse struct {
	SessionID  string    `json:"session_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	LearnerTag string    `json:"learner_tag,omitempty"`
	Domain     string    `json:"domain,omitempty"`
}

// RecordObservationRequest is the request body for
// POST /api/v1/sessions/{id}/observations.
//
// Fields:
//   - ItemID: Required catalog item the learner responded to
//   - Outcome: Graded correctness in [0,1]; ignored when Skipped is set
//   - Skipped: Marks a skip, recorded with reduced evidence weight
type RecordObservationRequest struct {
	ItemID  string  `json:"item_id" validate:"required,min=1,max=128"`
	Outcome float64 `json:"outcome" validate:"unitinterval"`
	Skipped bool    `json:"skipped"`
}

// NextResponse is returned by GET /api/v1/sessions/{id}/next. Exhausted is
// set, and Item nil, when no candidate question remains.
type NextResponse struct {
	Item      *catalog.Item `json:"item,omitempty"`
	Exhausted bool          `json:"exhausted"`
}

// NearRequest represents the validated query parameters for
// GET /api/v1/catalog/near.
//
// Fields:
//   - X, Y: Query position in the unit square
//   - K: Number of neighbours to return (1-100)
type NearRequest struct {
	X float64 `validate:"unitinterval"`
	Y float64 `validate:"unitinterval"`
	K int     `validate:"min=1,max=100"`
}

// NearNeighbor is one entry in the GET /api/v1/catalog/near response.
type NearNeighbor struct {
	ID       string           `json:"id"`
	Position catalog.Position `json:"position"`
	Distance float64          `json:"distance"`
}

// MasteryGridRequest represents the validated query parameters for
// GET /api/v1/sessions/{id}/mastery-grid.
//
// Fields:
//   - Resolution: Cells per axis (2-100)
type MasteryGridRequest struct {
	Resolution int `validate:"min=2,max=100"`
}

// ArchiveSessionsRequest represents the validated query parameters for
// GET /api/v1/archive/sessions.
//
// Fields:
//   - Limit: Maximum sessions to return (1-500)
type ArchiveSessionsRequest struct {
	Limit int `validate:"min=1,max=500"`
}

// ReloadResponse is returned by POST /api/v1/catalog/reload.
type ReloadResponse struct {
	Reloaded bool          `json:"reloaded"`
	Source   string        `json:"source"`
	Stats    catalog.Stats `json:"stats"`
}
