// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package services

import (
	"context"
	"time"

	"github.com/tomtom215/mathesis/internal/logging"
)

// GCRunner matches the observation journal's garbage collection entry point.
//
// Satisfied by *journal.Journal. RunGC performs one value-log collection
// pass; a pass that found nothing to rewrite returns nil.
type GCRunner interface {
	RunGC(ratio float64) error
}

// JournalGCServiceConfig holds configuration for the journal GC loop.
type JournalGCServiceConfig struct {
	// Interval is how often to run a collection pass.
	// Default: 5m
	Interval time.Duration

	// DiscardRatio is the fraction of a value-log file that must be
	// reclaimable before it is rewritten. Default: 0.5
	DiscardRatio float64
}

// JournalGCService runs periodic value-log garbage collection on the
// observation journal as a supervised service.
//
// BadgerDB does not collect value-log space on its own; expired
// observation entries (TTL) and purged sessions only release disk after
// a GC pass. A failed pass is logged and retried on the next tick
// rather than crashing the service, since a transient I/O error should
// not trigger supervisor backoff for the whole data layer.
//
// Example usage:
//
//	svc := services.NewJournalGCService(jnl, services.JournalGCServiceConfig{})
//	tree.AddDataService(svc)
type JournalGCService struct {
	journal GCRunner
	config  JournalGCServiceConfig
	name    string
}

// NewJournalGCService creates a new journal GC service wrapper.
func NewJournalGCService(journal GCRunner, cfg JournalGCServiceConfig) *JournalGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio > 1 {
		cfg.DiscardRatio = 0.5
	}
	return &JournalGCService{
		journal: journal,
		config:  cfg,
		name:    "journal-gc",
	}
}

// Serve implements suture.Service.
// It runs a collection pass on each tick until the context is canceled.
func (s *JournalGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	logging.Info().
		Dur("interval", s.config.Interval).
		Float64("discard_ratio", s.config.DiscardRatio).
		Msg("Journal GC loop started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := s.journal.RunGC(s.config.DiscardRatio); err != nil {
				logging.Warn().Err(err).Msg("Journal GC pass failed")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *JournalGCService) String() string {
	return s.name
}
