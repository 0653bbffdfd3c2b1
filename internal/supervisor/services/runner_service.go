// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package services

import (
	"context"
)

// ContextRunner matches components whose run loop already follows the
// suture.Service pattern: block, process work, return when the context
// is canceled.
//
// Satisfied by:
//   - *websocket.Hub (RunWithContext)
//   - *websocket.Broadcaster (RunWithContext)
//   - *archive.Writer (RunWithContext)
//   - *events.Forwarder (RunWithContext)
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService wraps a ContextRunner as a supervised service.
//
// The wrapped component's RunWithContext already implements the
// suture.Service contract, so this wrapper only delegates and provides
// a stable name for supervisor logs.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewHubService wraps the WebSocket hub for supervision.
// The hub processes client registration and broadcasts until canceled,
// closing all clients on shutdown.
func NewHubService(hub ContextRunner) *RunnerService {
	return &RunnerService{runner: hub, name: "websocket-hub"}
}

// NewBroadcasterService wraps the event broadcaster for supervision.
// The broadcaster subscribes to the event bus and fans session updates
// out to WebSocket clients.
func NewBroadcasterService(broadcaster ContextRunner) *RunnerService {
	return &RunnerService{runner: broadcaster, name: "event-broadcaster"}
}

// NewArchiveWriterService wraps the archive writer for supervision.
// The writer consumes session-completed events and persists summaries
// to the analytics archive.
func NewArchiveWriterService(writer ContextRunner) *RunnerService {
	return &RunnerService{runner: writer, name: "archive-writer"}
}

// NewForwarderService wraps the NATS forwarder for supervision.
// The forwarder republishes bus events to JetStream; it is only wired
// when the application is built with the nats tag.
func NewForwarderService(forwarder ContextRunner) *RunnerService {
	return &RunnerService{runner: forwarder, name: "nats-forwarder"}
}

// Serve implements suture.Service by delegating to the component's run loop.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *RunnerService) String() string {
	return s.name
}
