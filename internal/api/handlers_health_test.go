// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/mathesis/internal/archive"
)

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data map[string]interface{}
	env2 := decodeData(t, rec, &data)
	if env2.Status != "success" {
		t.Errorf("expected success status, got %q", env2.Status)
	}
	if alive, _ := data["alive"].(bool); !alive {
		t.Error("expected alive=true")
	}
}

func TestHealthReady(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var data map[string]interface{}
	decodeData(t, rec, &data)
	if loaded, _ := data["catalog_loaded"].(bool); !loaded {
		t.Error("expected catalog_loaded=true")
	}
}

func TestHealthReadyDegradedByArchive(t *testing.T) {
	env := newTestEnv(t)

	arch, err := archive.Open(archive.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	env.handler.SetArchive(arch)

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("with live archive: expected 200, got %d", rec.Code)
	}

	// A dead archive connection turns readiness off.
	if err := arch.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("with closed archive: expected 503, got %d", rec.Code)
	}
}

func TestHealthFull(t *testing.T) {
	env := newTestEnv(t)
	createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/health/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var health HealthStatus
	decodeData(t, rec, &health)
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %q", health.Status)
	}
	if !health.CatalogLoaded || health.CatalogItems != 5 {
		t.Errorf("unexpected catalog state: %+v", health)
	}
	if health.ActiveSessions != 1 {
		t.Errorf("expected 1 active session, got %d", health.ActiveSessions)
	}
}
