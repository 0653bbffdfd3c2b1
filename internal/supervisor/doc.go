// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

/*
Package supervisor provides process supervision for Mathesis using suture v4.

This package implements a hierarchical supervisor tree that manages the lifecycle
of all long-running services in the application. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("mathesis")
	├── DataSupervisor ("data-layer")
	│   ├── JournalGCService (if journal enabled)
	│   ├── ArchiveWriterService (if archive enabled)
	│   ├── CatalogPollerService (if catalog URL configured)
	│   └── CatalogWatcherService (if catalog watch enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── HubService
	│   ├── BroadcasterService
	│   ├── JanitorService
	│   └── ForwarderService (if NATS_ENABLED, build tag: nats)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A journal GC stall doesn't affect live WebSocket broadcasts
  - A catalog refresh failure doesn't impact API availability
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/tomtom215/mathesis/internal/logging"
	    "github.com/tomtom215/mathesis/internal/supervisor"
	    "github.com/tomtom215/mathesis/internal/supervisor/services"
	)

	func main() {
	    logger := logging.NewSlogLogger()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    // Add services to appropriate layers
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	    tree.AddMessagingService(services.NewHubService(hub))
	    tree.AddMessagingService(services.NewJanitorService(manager))

	    // Start the tree (blocks until context canceled)
	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	    defer stop()
	    if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	        log.Fatal(err)
	    }
	}

# Failure Semantics

Suture restarts a service when its Serve method returns a non-nil error
other than the context's error. Returning ctx.Err() after cancellation is
the normal shutdown path and does not count as a failure. When a layer
exceeds its failure threshold, the layer backs off before restarting its
services, and the root supervisor keeps the other layers running.

# See Also

  - internal/supervisor/services: suture.Service wrappers for app components
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package supervisor
