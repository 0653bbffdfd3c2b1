// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/session"
)

func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

func probeItem(id string, x, y float64, level int, domain string) *catalog.Item {
	return &catalog.Item{
		ID:              id,
		Kind:            catalog.KindProbe,
		Positions:       []catalog.Position{{X: x, Y: y}},
		DomainTag:       domain,
		DifficultyLevel: level,
	}
}

func trajectoryItem(id string, anchors ...catalog.Position) *catalog.Item {
	return &catalog.Item{
		ID:        id,
		Kind:      catalog.KindTrajectory,
		Positions: anchors,
	}
}

func defaultItems() []*catalog.Item {
	return []*catalog.Item{
		probeItem("alg-1", 0.2, 0.2, 1, "algebra"),
		probeItem("alg-2", 0.8, 0.8, 1, "algebra"),
		probeItem("geo-1", 0.2, 0.8, 1, "geometry"),
		probeItem("geo-2", 0.8, 0.2, 1, "geometry"),
		trajectoryItem("traj-1", catalog.Position{X: 0.5, Y: 0.5}, catalog.Position{X: 0.6, Y: 0.6}),
	}
}

// testEnv wires a real router over a real session manager and catalog, with
// rate limiting disabled so tests never trip the per-IP limiters.
type testEnv struct {
	store   *catalog.Store
	manager *session.Manager
	jwt     *auth.JWTManager
	handler *Handler
	router  http.Handler
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvConfigured(t, nil)
}

// newTestEnvConfigured lets a test adjust the Router (e.g. attach authz)
// before routes are frozen.
func newTestEnvConfigured(t *testing.T, configure func(*Router)) *testEnv {
	t.Helper()

	cat, err := catalog.New(defaultItems())
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	store := catalog.NewStore(cat)

	cfg := &config.Config{
		Session: config.SessionConfig{
			IdleTimeout: time.Hour,
			MaxSessions: 16,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-0123456789abcdef",
			TokenTTL:          time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}

	bus := events.NewBus(16)
	manager := session.NewManager(cfg.Session, cfg.Engine, store, nil, bus)

	jwtMgr, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	handler := NewHandler(manager, store, cfg, jwtMgr, nil)
	t.Cleanup(handler.Close)

	authMW := auth.NewMiddleware(jwtMgr, nil)
	router := NewRouter(handler, authMW, NewChiMiddlewareFromConfig(&cfg.Security))
	if configure != nil {
		configure(router)
	}

	return &testEnv{
		store:   store,
		manager: manager,
		jwt:     jwtMgr,
		handler: handler,
		router:  router.SetupChi(),
		cfg:     cfg,
	}
}

// testEnvelope mirrors APIResponse with raw data for two-stage decoding.
type testEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *APIError       `json:"error"`
}

// doJSON runs one request through the router. A non-empty token is sent as
// a bearer header.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope and then its data payload into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) testEnvelope {
	t.Helper()

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decode data: %v (data %q)", err, string(env.Data))
		}
	}
	return env
}

// wantErrorCode asserts status code and envelope error code.
func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body %q)", status, rec.Code, rec.Body.String())
	}
	env := decodeData(t, rec, nil)
	if env.Error == nil {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Fatalf("expected error code %s, got %s", code, env.Error.Code)
	}
}

// createTestSession creates a session through the API and returns its
// response payload.
func createTestSession(t *testing.T, env *testEnv, req CreateSessionRequest) CreateSessionResponse {
	t.Helper()

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected status 201, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var resp CreateSessionResponse
	decodeData(t, rec, &resp)
	if resp.SessionID == "" || resp.Token == "" {
		t.Fatalf("create session: incomplete response %+v", resp)
	}
	return resp
}

// adminToken mints an admin token directly from the JWT manager.
func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()

	token, err := env.jwt.GenerateToken("admin", "", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}
