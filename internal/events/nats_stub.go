// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

//go:build !nats

package events

import (
	"context"

	"github.com/tomtom215/mathesis/internal/logging"
)

// NATSConfig is a stub for non-NATS builds.
type NATSConfig struct {
	URL      string
	Host     string
	Port     int
	StoreDir string
}

// Forwarder is a stub for non-NATS builds.
type Forwarder struct{}

// NewForwarder is a no-op stub for non-NATS builds. It returns nil so
// callers skip the forwarder service entirely.
func NewForwarder(_ NATSConfig, _ *Bus) (*Forwarder, error) {
	logging.Warn().Msg("NATS forwarding requested but not compiled (build with -tags nats)")
	return nil, nil
}

// RunWithContext is a no-op stub for non-NATS builds.
func (f *Forwarder) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op stub for non-NATS builds.
func (f *Forwarder) Close() error {
	return nil
}
