// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept header = %q, want application/json", r.Header.Get("Accept"))
		}
		w.Header().Set("ETag", `"v1"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(validDoc))
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)
	c, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if requests.Load() != 1 {
		t.Errorf("server saw %d requests, want 1", requests.Load())
	}
}

func TestFetcherConditionalRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(validDoc))
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)

	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}

	// Second fetch replays the ETag and gets a 304.
	_, err := f.Fetch(context.Background())
	if !errors.Is(err, ErrNotModified) {
		t.Errorf("second Fetch() error = %v, want ErrNotModified", err)
	}
}

func TestFetcherServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("Fetch() should fail on a 500 response")
	}
}

func TestFetcherCircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)
	ctx := context.Background()

	// Trip the breaker: 60% failure ratio over at least 5 requests.
	sawOpen := false
	for i := 0; i < 10; i++ {
		_, err := f.Fetch(ctx)
		if err == nil {
			t.Fatal("Fetch() against a failing server should not succeed")
		}
		if errors.Is(err, gobreaker.ErrOpenState) {
			sawOpen = true
			break
		}
	}

	if !sawOpen {
		t.Error("circuit breaker never opened after repeated failures")
	}
}

func TestFetcherContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 10*time.Second, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := f.Fetch(ctx); err == nil {
		t.Error("Fetch() should fail when the context expires")
	}
}

func TestRunnerFetchOnce(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(watcherDocV2))
	}))
	defer server.Close()

	initial, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	store := NewStore(initial)

	var hooked atomic.Int32
	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)
	r := NewRunner(f, store, time.Minute, func(*Catalog) { hooked.Add(1) })

	r.fetchOnce(context.Background())

	if got := store.Current().Len(); got != 2 {
		t.Errorf("after fetchOnce, Current().Len() = %d, want 2", got)
	}
	if hooked.Load() != 1 {
		t.Errorf("reload hook ran %d times, want 1", hooked.Load())
	}
}

func TestRunnerKeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	initial, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	store := NewStore(initial)

	f := NewFetcher(server.URL, 5*time.Second, time.Millisecond)
	r := NewRunner(f, store, time.Minute, nil)

	r.fetchOnce(context.Background())

	if store.Current() != initial {
		t.Error("failed fetch should keep the previous catalog")
	}
}
