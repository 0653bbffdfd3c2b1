// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/mathesis/internal/catalog"
)

func TestCatalogStats(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/catalog", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var stats catalog.Stats
	decodeData(t, rec, &stats)
	if stats.Items != 5 || stats.Probes != 4 || stats.Trajectories != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCatalogItemLookup(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/items/alg-1", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var item catalog.Item
	decodeData(t, rec, &item)
	if item.ID != "alg-1" || item.Kind != catalog.KindProbe {
		t.Errorf("unexpected item: %+v", item)
	}

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/items/ghost", created.Token, nil)
	wantErrorCode(t, rec, http.StatusNotFound, "ITEM_NOT_FOUND")
}

func TestCatalogNear(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/near?x=0.2&y=0.2&k=2", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var neighbors []NearNeighbor
	decodeData(t, rec, &neighbors)
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbours, got %d", len(neighbors))
	}
	if neighbors[0].ID != "alg-1" || neighbors[0].Distance != 0 {
		t.Errorf("nearest should be alg-1 at distance 0, got %+v", neighbors[0])
	}

	// Missing coordinates.
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/near?x=0.2", created.Token, nil)
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Out-of-bounds coordinate.
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/near?x=1.5&y=0.2&k=2", created.Token, nil)
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Non-positive k.
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/near?x=0.2&y=0.2&k=0", created.Token, nil)
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestReloadRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/catalog/reload", created.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("learner reload: expected 403, got %d", rec.Code)
	}

	// Admin passes the role check; without a configured source the reload
	// reports unavailable.
	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/catalog/reload", adminToken(t, env), nil)
	wantErrorCode(t, rec, http.StatusServiceUnavailable, "RELOAD_NOT_CONFIGURED")
}

func TestReloadFromFile(t *testing.T) {
	env := newTestEnv(t)

	// A session created against the original catalog keeps its snapshot.
	created := createTestSession(t, env, CreateSessionRequest{})

	doc := `{
		"version": "2",
		"items": [
			{"id": "fresh-1", "kind": "probe", "positions": [{"x": 0.3, "y": 0.3}], "difficulty_level": 1},
			{"id": "fresh-2", "kind": "probe", "positions": [{"x": 0.7, "y": 0.7}], "difficulty_level": 2}
		]
	}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	env.cfg.Catalog.Path = path

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/catalog/reload", adminToken(t, env), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var reload ReloadResponse
	decodeData(t, rec, &reload)
	if !reload.Reloaded || reload.Source != "file" || reload.Stats.Items != 2 {
		t.Errorf("unexpected reload response: %+v", reload)
	}

	// New catalog serves lookups.
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/items/fresh-1", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh item lookup: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/catalog/items/alg-1", created.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("old item lookup: expected 404, got %d", rec.Code)
	}

	// The pre-reload session still records against its own snapshot.
	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/observations", created.Token, RecordObservationRequest{
		ItemID:  "alg-1",
		Outcome: 1.0,
	})
	if rec.Code != http.StatusOK {
		t.Errorf("observation on session snapshot: expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
}
