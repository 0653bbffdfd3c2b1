// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package session

import (
	"sync"
	"time"

	"github.com/tomtom215/mathesis/internal/engine"
)

// Session is one learner's assessment: an engine instance plus lifecycle
// state. The engine is not goroutine-safe; mu serializes every engine call,
// so concurrent requests against the same session observe a single coherent
// ordering.
type Session struct {
	id         string
	learnerTag string
	domain     string
	createdAt  time.Time

	mu         sync.Mutex
	eng        *engine.Engine
	lastActive time.Time
	completed  bool
}

// Info is a session snapshot safe to hand out of the package.
type Info struct {
	ID         string       `json:"id"`
	LearnerTag string       `json:"learner_tag,omitempty"`
	Domain     string       `json:"domain,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	LastActive time.Time    `json:"last_active"`
	State      engine.State `json:"state"`
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Info snapshots the session under its lock.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:         s.id,
		LearnerTag: s.learnerTag,
		Domain:     s.domain,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
		State:      s.eng.State(),
	}
}

// idleSince reports the last activity time, for the janitor.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// effectiveDomain resolves a per-request domain filter against the
// session's own domain. Callers hold s.mu.
func (s *Session) effectiveDomain(requested string) string {
	if requested != "" {
		return requested
	}
	return s.domain
}
