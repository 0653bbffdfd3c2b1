// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

/*
Package services provides suture.Service wrappers for Mathesis components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (RunWithContext, ticker loops,
ListenAndServe) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation into the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Context Runners (HubService, BroadcasterService, ArchiveWriterService,
ForwarderService):
  - Wrap components whose RunWithContext already matches the Serve
    pattern, adding a stable service name for supervisor logs

Session Janitor (JanitorService):
  - Wraps the session manager's idle-sweep loop
  - Completes expired sessions on a fixed cadence

Journal GC (JournalGCService):
  - Runs periodic value-log garbage collection on the observation journal
  - A pass that finds nothing to collect is not a failure

Catalog Refresh (CatalogPollerService, CatalogWatcherService):
  - Name the catalog's remote poller and file watcher for supervision
  - Both components already serve until their context is canceled

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/mathesis/internal/supervisor"
	    "github.com/tomtom215/mathesis/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, hub *websocket.Hub, manager *session.Manager) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 10s shutdown timeout
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	    // WebSocket hub and session janitor
	    tree.AddMessagingService(services.NewHubService(hub))
	    tree.AddMessagingService(services.NewJanitorService(manager))

	    // Start supervision
	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer. Suture uses this for log messages:

	INFO http-server: starting
	INFO http-server: stopped
	ERROR journal-gc: restarting after failure

# Thread Safety

All service wrappers are safe for concurrent use, but multiple concurrent
Serve calls on one wrapper are not supported.

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
