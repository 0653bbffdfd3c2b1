// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/mathesis/internal/archive"
)

func TestArchiveEndpointsWithoutArchive(t *testing.T) {
	env := newTestEnv(t)
	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/archive/sessions", created.Token, nil)
	wantErrorCode(t, rec, http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE")

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/archive/domains/accuracy", created.Token, nil)
	wantErrorCode(t, rec, http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE")
}

func TestArchiveEndpoints(t *testing.T) {
	env := newTestEnv(t)

	arch, err := archive.Open(archive.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() { _ = arch.Close() })
	env.handler.SetArchive(arch)

	now := time.Now().UTC().Truncate(time.Second)
	summaries := []archive.SessionSummary{
		{
			SessionID:         "s-1",
			LearnerTag:        "casey",
			Domain:            "algebra",
			Reason:            "completed",
			StartedAt:         now.Add(-10 * time.Minute),
			CompletedAt:       now,
			QuestionsAsked:    6,
			FinalLevel:        2,
			ConfidenceOverall: 0.91,
		},
		{
			SessionID:         "s-2",
			Domain:            "geometry",
			Reason:            "expired",
			StartedAt:         now.Add(-time.Hour),
			CompletedAt:       now.Add(-30 * time.Minute),
			QuestionsAsked:    3,
			FinalLevel:        1,
			ConfidenceOverall: 0.42,
		},
	}
	for _, s := range summaries {
		if err := arch.InsertSummary(context.Background(), s); err != nil {
			t.Fatalf("InsertSummary %s: %v", s.SessionID, err)
		}
	}

	created := createTestSession(t, env, CreateSessionRequest{})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/archive/sessions?limit=10", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions: expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var got []archive.SessionSummary
	decodeData(t, rec, &got)
	if len(got) != 2 {
		t.Fatalf("expected 2 archived sessions, got %d", len(got))
	}
	// Newest completion first.
	if got[0].SessionID != "s-1" {
		t.Errorf("expected s-1 first, got %s", got[0].SessionID)
	}

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/archive/domains/accuracy", created.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accuracy: expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var stats []archive.DomainStats
	decodeData(t, rec, &stats)
	if len(stats) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(stats))
	}

	// Limit validation.
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/archive/sessions?limit=0", created.Token, nil)
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/archive/sessions?limit=501", created.Token, nil)
	wantErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}
