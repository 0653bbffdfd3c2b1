// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IssueLimiter throttles token issuance per identity. Login attempts and
// session creation are keyed by client IP so a single credential-stuffing
// source cannot burn through the admin password or flood the session table.
//
// The general request limits on API routes are handled by httprate in the
// router; this limiter exists because token issuance deserves a much lower
// ceiling than reads.
type IssueLimiter struct {
	mu       sync.Mutex
	limiters map[string]*issueLimiterEntry
	rate     rate.Limit
	burst    int
	stop     chan struct{}
	stopOnce sync.Once
}

type issueLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewIssueLimiter allows burst issuances immediately and then one per
// window/burst thereafter, independently per key. A cleanup goroutine drops
// idle keys so the map does not grow with every client ever seen.
func NewIssueLimiter(burst int, window time.Duration) *IssueLimiter {
	if burst <= 0 {
		burst = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &IssueLimiter{
		limiters: make(map[string]*issueLimiterEntry),
		rate:     rate.Every(window / time.Duration(burst)),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop(5 * time.Minute)
	return l
}

// Allow reports whether the identity may be issued a token now.
func (l *IssueLimiter) Allow(key string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &issueLimiterEntry{
			limiter:    rate.NewLimiter(l.rate, l.burst),
			lastAccess: time.Now(),
		}
		l.limiters[key] = entry
	} else {
		entry.lastAccess = time.Now()
	}
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

func (l *IssueLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup removes keys idle for over an hour.
func (l *IssueLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := time.Now().Add(-1 * time.Hour)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, key)
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *IssueLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
