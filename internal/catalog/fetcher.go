// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// maxCatalogBytes caps remote catalog documents at 32 MiB.
const maxCatalogBytes = 32 << 20

// Fetcher retrieves a catalog document from a remote HTTP source.
//
// Requests are paced by a token-bucket limiter and guarded by a circuit
// breaker so a failing source cannot be hammered. Fetches are conditional:
// the last ETag is replayed via If-None-Match, and a 304 response surfaces
// as ErrNotModified.
//
// Thread safety: safe for concurrent use, though the Runner is the only
// intended caller.
type Fetcher struct {
	url     string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	name    string

	mu   sync.Mutex
	etag string
}

// NewFetcher creates a fetcher for the given catalog URL.
// minInterval paces requests (one per interval, burst 1).
//
// Circuit breaker configuration follows the upstream-client convention:
// opens after 60% failures over at least 5 requests, half-open probe after
// 1 minute.
func NewFetcher(url string, timeout, minInterval time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if minInterval <= 0 {
		minInterval = time.Second
	}

	cbName := "catalog-fetch"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		// A 304 from a conditional request is a healthy source, not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotModified)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Catalog fetch state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Fetcher{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		name:    cbName,
	}
}

// Fetch retrieves and parses the remote catalog. Returns ErrNotModified
// when the source responds 304 to the conditional request.
func (f *Fetcher) Fetch(ctx context.Context) (*Catalog, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := f.cb.Execute(func() ([]byte, error) {
		return f.doFetch(ctx)
	})
	metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, ErrNotModified):
			metrics.CircuitBreakerRequests.WithLabelValues(f.name, "success").Inc()
			return nil, ErrNotModified
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(f.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Catalog fetch rejected")
			return nil, err
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(f.name, "failure").Inc()
			return nil, err
		}
	}

	metrics.CircuitBreakerRequests.WithLabelValues(f.name, "success").Inc()
	return Parse(body)
}

// doFetch performs the conditional HTTP request and returns the raw body.
func (f *Fetcher) doFetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	f.mu.Lock()
	if f.etag != "" {
		req.Header.Set("If-None-Match", f.etag)
	}
	f.mu.Unlock()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to body read
	case http.StatusNotModified:
		return nil, ErrNotModified
	default:
		return nil, fmt.Errorf("catalog fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}
	if len(body) > maxCatalogBytes {
		return nil, fmt.Errorf("catalog document exceeds %d bytes", maxCatalogBytes)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		f.mu.Lock()
		f.etag = etag
		f.mu.Unlock()
	}

	return body, nil
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Runner periodically fetches the remote catalog and swaps successful
// results into the store. Failures keep the last good catalog.
//
// Implements suture.Service.
type Runner struct {
	fetcher  *Fetcher
	store    *Store
	interval time.Duration
	onReload ReloadHook
}

// NewRunner creates a periodic fetch runner. The hook may be nil.
func NewRunner(fetcher *Fetcher, store *Store, interval time.Duration, onReload ReloadHook) *Runner {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Runner{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		onReload: onReload,
	}
}

// Serve implements suture.Service, fetching on a fixed interval until the
// context is canceled.
func (r *Runner) Serve(ctx context.Context) error {
	logging.Info().
		Str("url", r.fetcher.url).
		Dur("interval", r.interval).
		Msg("Catalog fetch runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Catalog fetch runner stopped")
			return ctx.Err()
		case <-ticker.C:
			r.fetchOnce(ctx)
		}
	}
}

func (r *Runner) fetchOnce(ctx context.Context) {
	c, err := r.fetcher.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrNotModified) {
			logging.Debug().Msg("Remote catalog unchanged")
			return
		}
		logging.Error().Err(err).Msg("Catalog fetch failed, keeping previous catalog")
		return
	}

	old := r.store.Swap(c)
	logging.Info().
		Int("items", c.Len()).
		Int("previous_items", old.Len()).
		Msg("Catalog updated from remote source")

	if r.onReload != nil {
		r.onReload(c)
	}
}
