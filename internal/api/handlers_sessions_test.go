// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCreateSessionAcceptsEmptyBody(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %q)", rec.Code, rec.Body.String())
	}

	var resp CreateSessionResponse
	decodeData(t, rec, &resp)
	if resp.SessionID == "" || resp.Token == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}

	// The response also sets the token cookie for browser clients.
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "mathesis_token" && c.Value == resp.Token && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected an HttpOnly mathesis_token cookie")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	env := newTestEnv(t)

	// Overlong learner tag.
	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", CreateSessionRequest{
		LearnerTag: strings.Repeat("x", 65),
	})
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Unknown fields are rejected, not silently dropped.
	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", map[string]interface{}{
		"learner_tag": "casey",
		"domain_tag":  "algebra",
	})
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestCreateSessionThrottlesTokenIssuance(t *testing.T) {
	env := newTestEnv(t)

	// httptest requests share one RemoteAddr, so they share a limiter key.
	for i := 0; i < tokenIssueBurst; i++ {
		rec := doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d (body %q)", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/sessions", "", nil)
	wantErrorCode(t, rec, http.StatusTooManyRequests, "TOKEN_ISSUANCE_LIMITED")
}

func TestRecordObservationValidation(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})
	path := "/api/v1/sessions/" + created.SessionID + "/observations"

	// Missing item id.
	rec := doJSON(t, env.router, http.MethodPost, path, created.Token, RecordObservationRequest{
		Outcome: 1.0,
	})
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Outcome outside the unit interval.
	rec = doJSON(t, env.router, http.MethodPost, path, created.Token, map[string]interface{}{
		"item_id": "alg-1",
		"outcome": 1.5,
	})
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Item absent from the catalog.
	rec = doJSON(t, env.router, http.MethodPost, path, created.Token, RecordObservationRequest{
		ItemID:  "ghost-item",
		Outcome: 1.0,
	})
	wantErrorCode(t, rec, http.StatusBadRequest, "UNKNOWN_ITEM")
}

func TestRecordObservationAfterCompleteIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})
	base := "/api/v1/sessions/" + created.SessionID

	rec := doJSON(t, env.router, http.MethodDelete, base, created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", rec.Code)
	}

	// Completion removes the session; later writes see it as gone.
	rec = doJSON(t, env.router, http.MethodPost, base+"/observations", created.Token, RecordObservationRequest{
		ItemID:  "alg-1",
		Outcome: 1.0,
	})
	wantErrorCode(t, rec, http.StatusNotFound, "SESSION_NOT_FOUND")
}

func TestNextQuestionExhaustsDomain(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})
	base := "/api/v1/sessions/" + created.SessionID

	// The algebra domain holds two probes; answer both.
	for i := 0; i < 2; i++ {
		rec := doJSON(t, env.router, http.MethodGet, base+"/next?domain=algebra", created.Token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("next %d: expected 200, got %d", i, rec.Code)
		}
		var next NextResponse
		decodeData(t, rec, &next)
		if next.Exhausted {
			t.Fatalf("next %d: exhausted too early", i)
		}
		if next.Item.DomainTag != "algebra" {
			t.Fatalf("next %d: expected algebra, got %q", i, next.Item.DomainTag)
		}

		rec = doJSON(t, env.router, http.MethodPost, base+"/observations", created.Token, RecordObservationRequest{
			ItemID:  next.Item.ID,
			Outcome: 1.0,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("observe %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := doJSON(t, env.router, http.MethodGet, base+"/next?domain=algebra", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("exhausted next: expected 200, got %d", rec.Code)
	}
	var next NextResponse
	decodeData(t, rec, &next)
	if !next.Exhausted || next.Item != nil {
		t.Fatalf("expected exhaustion marker, got %+v", next)
	}
}

func TestMasteryGridValidation(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})
	base := "/api/v1/sessions/" + created.SessionID + "/mastery-grid"

	for _, res := range []int{1, 101, -3} {
		rec := doJSON(t, env.router, http.MethodGet, fmt.Sprintf("%s?resolution=%d", base, res), created.Token, nil)
		wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	}

	// Default resolution applies when the parameter is absent.
	rec := doJSON(t, env.router, http.MethodGet, base, created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("default grid: expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
}
