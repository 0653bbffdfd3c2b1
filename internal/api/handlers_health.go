// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of the full health endpoint.
type HealthStatus struct {
	Status           string    `json:"status"`
	Version          string    `json:"version"`
	CatalogLoaded    bool      `json:"catalog_loaded"`
	CatalogItems     int       `json:"catalog_items"`
	CatalogLoadedAt  time.Time `json:"catalog_loaded_at,omitempty"`
	ArchiveConnected bool      `json:"archive_connected"`
	ActiveSessions   int       `json:"active_sessions"`
	Uptime           float64   `json:"uptime"`
}

// version is stamped by the build; overridden through SetVersion.
var version = "dev"

// SetVersion records the build version reported by the health endpoints.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns comprehensive health status including catalog state, archive connectivity, active session count, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	cat := h.store.Current()
	catalogLoaded := cat != nil && cat.Len() > 0

	// Archive is optional; a configured archive that fails Ping degrades health
	archiveConnected := h.archive != nil && h.archive.Ping(r.Context()) == nil

	status := "healthy"
	if !catalogLoaded {
		status = "degraded"
	} else if h.archive != nil && !archiveConnected {
		status = "degraded"
	}

	health := HealthStatus{
		Status:           status,
		Version:          version,
		CatalogLoaded:    catalogLoaded,
		ArchiveConnected: archiveConnected,
		ActiveSessions:   h.sessions.Count(),
		Uptime:           time.Since(h.startTime).Seconds(),
	}
	if catalogLoaded {
		stats := cat.Stats()
		health.CatalogItems = stats.Items
		health.CatalogLoadedAt = stats.LoadedAt
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   health,
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the service is ready to handle traffic (catalog loaded and, when configured, archive reachable). Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	cat := h.store.Current()
	catalogLoaded := cat != nil && cat.Len() > 0

	// Only gate readiness on the archive when one is configured
	archiveReady := h.archive == nil || h.archive.Ping(r.Context()) == nil
	ready := catalogLoaded && archiveReady

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"catalog_loaded":    catalogLoaded,
			"archive_connected": h.archive != nil && archiveReady,
			"ready_to_serve":    ready,
			"uptime":            time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
	})
}
