// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
)

// ArchiveSessions handles archived session listing requests
//
// @Summary List archived sessions
// @Description Returns recently completed sessions from the archive, newest first
// @Tags Archive
// @Produce json
// @Param limit query int false "Maximum sessions to return (1-500)" default(50)
// @Success 200 {object} APIResponse{data=[]archive.SessionSummary} "Archived sessions"
// @Failure 503 {object} APIResponse "Archive not configured"
// @Router /archive/sessions [get]
func (h *Handler) ArchiveSessions(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Session archive is not configured", nil)
		return
	}

	req := ArchiveSessionsRequest{
		Limit: getIntParam(r, "limit", 50),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	sessions, err := h.archive.RecentSessions(r.Context(), req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ARCHIVE_QUERY_FAILED", "Failed to query session archive", err)
		return
	}

	respondSuccess(w, http.StatusOK, sessions)
}

// ArchiveDomainAccuracy handles per-domain accuracy requests
//
// @Summary Get per-domain accuracy aggregates
// @Description Returns session counts, average confidence, and answer accuracy grouped by domain tag
// @Tags Archive
// @Produce json
// @Success 200 {object} APIResponse{data=[]archive.DomainStats} "Per-domain aggregates"
// @Failure 503 {object} APIResponse "Archive not configured"
// @Router /archive/domains/accuracy [get]
func (h *Handler) ArchiveDomainAccuracy(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Session archive is not configured", nil)
		return
	}

	stats, err := h.archive.DomainStatsAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ARCHIVE_QUERY_FAILED", "Failed to query session archive", err)
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}
