// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

//go:build nats

// This file wires the embedded NATS JetStream forwarder into the
// supervisor tree. It is only compiled when the "nats" build tag is
// enabled.
//
// Build with NATS support:
//
//	go build -tags nats -o mathesis ./cmd/server

package main

import (
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/supervisor"
	"github.com/tomtom215/mathesis/internal/supervisor/services"
)

// initEventForwarder starts the embedded JetStream server and registers
// the bus-to-NATS forwarder with the supervisor tree's messaging layer.
// The returned forwarder owns the embedded server; the caller closes it
// after the tree has stopped.
//
// A no-op when MATHESIS_EVENTS_NATS_ENABLED is false. A startup error is
// returned to the caller; a broken forwarder configuration is fatal
// rather than silently dropping the event feed downstream consumers
// were promised.
func initEventForwarder(cfg *config.Config, bus *events.Bus, tree *supervisor.SupervisorTree) (*events.Forwarder, error) {
	if !cfg.Events.NATSEnabled {
		logging.Info().Msg("NATS event forwarding disabled")
		return nil, nil
	}

	fwd, err := events.NewForwarder(events.NATSConfig{
		URL:      cfg.Events.NATSURL,
		Host:     cfg.Events.NATSHost,
		Port:     cfg.Events.NATSPort,
		StoreDir: cfg.Events.NATSStoreDir,
	}, bus)
	if err != nil {
		return nil, err
	}

	tree.AddMessagingService(services.NewForwarderService(fwd))
	evt := logging.Info()
	if cfg.Events.NATSURL != "" {
		evt = evt.Str("url", cfg.Events.NATSURL)
	} else {
		evt = evt.Str("host", cfg.Events.NATSHost).Int("port", cfg.Events.NATSPort)
	}
	evt.Msg("NATS event forwarder added to supervisor tree (messaging layer)")
	return fwd, nil
}
