// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package testinfra provides Docker-backed test infrastructure for
// integration tests, built on testcontainers-go.
//
// Everything here compiles only under the "integration" build tag, so
// the regular unit test run never touches Docker:
//
//	go test -tags "nats integration" ./internal/events/
//
// # Available Helpers
//
// NewNATSContainer starts a disposable NATS server with JetStream
// enabled, for exercising the event forwarder against an external
// broker instead of the embedded one:
//
//	testinfra.SkipIfNoDocker(t)
//	nc, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, nc.Container)
//	// connect to nc.URL
//
// SkipIfNoDocker makes the tests degrade to a skip on machines without
// a Docker daemon rather than failing the run.
package testinfra
