// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte("hello"))
	b := generateETag([]byte("hello"))
	c := generateETag([]byte("world"))

	if a != b {
		t.Errorf("same input produced different ETags: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different inputs produced the same ETag: %s", a)
	}
	if a == "" {
		t.Error("empty ETag")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with\nnewline", "with\\x0anewline"},
		{"tab\there", "tab\\x09here"},
		{"carriage\rreturn", "carriage\\x0dreturn"},
		{"del\x7fchar", "del\\x7fchar"},
		{"unicode ok: héllo", "unicode ok: héllo"},
	}
	for _, tc := range tests {
		if got := sanitizeLogValue(tc.in); got != tc.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRespondJSONHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	respondSuccess(rec, http.StatusOK, map[string]string{"ok": "yes"})

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
	if !strings.Contains(rec.Body.String(), `"status":"success"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusNotFound, "THING_NOT_FOUND", "Thing is missing", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"error"`) || !strings.Contains(body, `"code":"THING_NOT_FOUND"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestValidateRequest(t *testing.T) {
	type probe struct {
		Name    string  `validate:"required,min=1"`
		Outcome float64 `validate:"unitinterval"`
	}

	if apiErr := validateRequest(&probe{Name: "ok", Outcome: 0.5}); apiErr != nil {
		t.Errorf("expected pass, got %+v", apiErr)
	}

	apiErr := validateRequest(&probe{Outcome: 2.0})
	if apiErr == nil {
		t.Fatal("expected validation failure")
	}
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", apiErr.Code)
	}
}

func TestGetIntParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=25&bad=abc", nil)

	if got := getIntParam(req, "limit", 50); got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := getIntParam(req, "missing", 50); got != 50 {
		t.Errorf("missing = %d, want default 50", got)
	}
	if got := getIntParam(req, "bad", 50); got != 50 {
		t.Errorf("bad = %d, want default 50", got)
	}
}

func TestGetFloatParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?x=0.25&bad=oops", nil)

	if v, ok := getFloatParam(req, "x"); !ok || v != 0.25 {
		t.Errorf("x = %f, %v; want 0.25, true", v, ok)
	}
	if _, ok := getFloatParam(req, "missing"); ok {
		t.Error("missing parameter reported present")
	}
	if _, ok := getFloatParam(req, "bad"); ok {
		t.Error("unparseable parameter reported present")
	}
}
