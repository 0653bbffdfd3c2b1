// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/logging"
)

// Login handles admin authentication requests
//
// Learner tokens are minted by session creation; this endpoint exists for
// operators only. Successful login returns a JWT in both the response body
// and an HttpOnly cookie.
//
// @Summary Admin login
// @Description Authenticates an administrator and returns a JWT token with the admin role
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Admin credentials"
// @Success 200 {object} APIResponse{data=LoginResponse} "Login successful"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 503 {object} APIResponse "Admin authentication not configured"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if h.verifier == nil {
		respondError(w, http.StatusServiceUnavailable, "AUTH_NOT_CONFIGURED", "Admin authentication is not configured", nil)
		return
	}

	if !h.verifier.Verify(req.Username, req.Password) {
		logging.Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Str("remote_addr", clientIP(r)).
			Msg("Failed admin login attempt")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username, "", auth.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "Failed to generate token", err)
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

	logging.Info().
		Str("username", sanitizeLogValue(req.Username)).
		Msg("Admin login successful")

	respondSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
		Role:      auth.RoleAdmin,
	})
}
