// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package services

import (
	"context"
)

// SessionJanitor matches the session manager's idle-sweep loop.
//
// Satisfied by *session.Manager, whose RunJanitor completes idle
// sessions on a fixed cadence until the context is canceled.
type SessionJanitor interface {
	RunJanitor(ctx context.Context) error
}

// JanitorService wraps the session janitor as a supervised service.
//
// Example usage:
//
//	svc := services.NewJanitorService(manager)
//	tree.AddMessagingService(svc)
type JanitorService struct {
	janitor SessionJanitor
	name    string
}

// NewJanitorService creates a new session janitor service wrapper.
func NewJanitorService(janitor SessionJanitor) *JanitorService {
	return &JanitorService{
		janitor: janitor,
		name:    "session-janitor",
	}
}

// Serve implements suture.Service by delegating to the janitor loop.
// The loop expires idle sessions, publishing their completion events,
// and returns ctx.Err() on shutdown.
func (s *JanitorService) Serve(ctx context.Context) error {
	return s.janitor.RunJanitor(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *JanitorService) String() string {
	return s.name
}
