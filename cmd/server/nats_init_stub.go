// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

//go:build !nats

// This file provides a no-op stub for NATS event forwarding.
// It is only compiled when the "nats" build tag is NOT enabled.
//
// Build without NATS support (default):
//
//	go build -o mathesis ./cmd/server

package main

import (
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/supervisor"
)

// initEventForwarder is a no-op stub for non-NATS builds. It lets
// main.go call the same function unconditionally regardless of build
// tags. The returned forwarder is always nil.
func initEventForwarder(cfg *config.Config, _ *events.Bus, _ *supervisor.SupervisorTree) (*events.Forwarder, error) {
	if cfg.Events.NATSEnabled {
		logging.Warn().Msg("MATHESIS_EVENTS_NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}
