// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package websocket pushes live session activity to connected dashboards.
//
// # Architecture
//
// Three pieces cooperate:
//
//   - Hub: owns the client set and fans broadcasts out to every client in
//     deterministic id order. Runs as a supervised service via
//     RunWithContext.
//   - Client: one per upgraded connection; a read pump answering
//     application pings and a write pump with protocol keepalives.
//   - Broadcaster: the event-bus subscriber that translates bus topics
//     into websocket message types. The session layer publishes to the
//     bus and never touches the hub.
//
// # Backpressure
//
// Delivery is best effort at two levels. The hub's own broadcast buffer
// drops messages when full so publishers never block, and a client whose
// send buffer is full is disconnected rather than waited on. Dashboards
// are expected to reconnect and refetch authoritative state over the
// HTTP API; the socket only ever carries hints and summaries.
//
// # Message types
//
// observation_recorded and grid_refresh follow every accepted response,
// confidence_update follows every confidence recomputation, and
// session_completed fires once per session. All payloads carry the
// session id; filtering is client-side.
package websocket
