// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/session"
)

// CreateSession handles session creation requests
//
// The endpoint is reachable without a token: it mints the learner JWT that
// authorizes every subsequent /sessions/{id} call. Token issuance is
// throttled per client IP on top of the route's rate limit tier.
//
// @Summary Create an adaptive session
// @Description Creates a new learner session and returns a session-scoped JWT token
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest false "Optional learner tag and domain filter"
// @Success 201 {object} APIResponse{data=CreateSessionResponse} "Session created"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 429 {object} APIResponse "Token issuance or session capacity limit reached"
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if !h.issueLimiter.Allow(clientIP(r)) {
		respondError(w, http.StatusTooManyRequests, "TOKEN_ISSUANCE_LIMITED", "Too many sessions created from this address, slow down", nil)
		return
	}

	s, err := h.sessions.Create(r.Context(), session.CreateParams{
		LearnerTag: req.LearnerTag,
		Domain:     req.Domain,
	})
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	subject := req.LearnerTag
	if subject == "" {
		subject = "learner"
	}
	token, err := h.jwtManager.GenerateToken(subject, s.ID(), auth.RoleLearner)
	if err != nil {
		// The session would be orphaned without a token; take it back down.
		if _, cerr := h.sessions.Complete(r.Context(), s.ID(), events.ReasonCompleted); cerr != nil {
			logging.Error().Err(cerr).Str("session_id", s.ID()).Msg("Failed to clean up session after token failure")
		}
		respondError(w, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "Failed to generate session token", err)
		return
	}
	expiresAt := time.Now().Add(h.jwtManager.TTL())

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondSuccess(w, http.StatusCreated, CreateSessionResponse{
		SessionID:  s.ID(),
		Token:      token,
		ExpiresAt:  expiresAt,
		LearnerTag: req.LearnerTag,
		Domain:     req.Domain,
	})
}

// SessionInfo handles session state requests
//
// @Summary Get session state
// @Description Returns the session's phase, level, and question counters
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=session.Info} "Session state"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	info, err := h.sessions.Info(id)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, info)
}

// RecordObservation handles observation recording requests
//
// @Summary Record an observation
// @Description Records a graded answer or skip for a catalog item and returns the updated session state and confidence
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body RecordObservationRequest true "Observation"
// @Success 200 {object} APIResponse{data=session.RecordResult} "Observation recorded"
// @Failure 400 {object} APIResponse "Invalid observation or unknown item"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 409 {object} APIResponse "Session already completed"
// @Router /sessions/{id}/observations [post]
func (h *Handler) RecordObservation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	var req RecordObservationRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	result, err := h.sessions.Record(r.Context(), id, req.ItemID, req.Outcome, req.Skipped)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// NextQuestion handles question selection requests
//
// Exhaustion is an outcome, not an error: when no candidate remains the
// response carries exhausted=true and a null item.
//
// @Summary Select the next question
// @Description Returns the next item the selector proposes, optionally restricted to a domain
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param domain query string false "Domain filter overriding the session default"
// @Success 200 {object} APIResponse{data=NextResponse} "Next question or exhaustion marker"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 409 {object} APIResponse "Session already completed"
// @Router /sessions/{id}/next [get]
func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	item, err := h.sessions.SelectNext(id, r.URL.Query().Get("domain"))
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, NextResponse{
		Item:      item,
		Exhausted: item == nil,
	})
}

// SessionConfidence handles confidence report requests
//
// @Summary Get the confidence report
// @Description Returns overall, coverage, and uncertainty confidence plus per-level accuracy
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=engine.Confidence} "Confidence report"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/confidence [get]
func (h *Handler) SessionConfidence(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	conf, err := h.sessions.Confidence(id)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, conf)
}

// SessionRecommendations handles study recommendation requests
//
// @Summary Get study recommendations
// @Description Returns trajectory items ranked by expected learning gain
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=[]engine.Recommendation} "Ranked recommendations"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/recommendations [get]
func (h *Handler) SessionRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	recs, err := h.sessions.Recommendations(id)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, recs)
}

// MasteryGrid handles mastery grid requests
//
// @Summary Get the mastery grid
// @Description Returns a grid of mastery and uncertainty estimates over the knowledge plane
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param resolution query int false "Cells per axis (2-100)" default(10)
// @Success 200 {object} APIResponse{data=engine.Grid} "Mastery grid"
// @Failure 400 {object} APIResponse "Invalid resolution"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id}/mastery-grid [get]
func (h *Handler) MasteryGrid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	defaultRes := h.config.Engine.Confidence.GridResolution
	if defaultRes <= 0 {
		defaultRes = 10
	}
	req := MasteryGridRequest{
		Resolution: getIntParam(r, "resolution", defaultRes),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	grid, err := h.sessions.Grid(id, req.Resolution)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, grid)
}

// CompleteSession handles explicit session completion requests
//
// @Summary Complete a session
// @Description Completes the session, publishes its summary for archiving, and invalidates further writes
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=events.SessionCompleted} "Session summary"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	summary, err := h.sessions.Complete(r.Context(), id, events.ReasonCompleted)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, summary)
}
