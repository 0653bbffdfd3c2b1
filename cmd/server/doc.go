// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

/*
Package main is the entry point for the Mathesis server application.

Mathesis is a self-hosted adaptive learning engine. It maps a question
catalog onto a two-dimensional knowledge plane, estimates a learner's
mastery field from observed answers, and selects the next question where
that estimate is least certain. Sessions survive restarts through an
append-only observation journal, and completed sessions feed a SQLite
analytics archive.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("mathesis")
	├── DataSupervisor ("data-layer")
	│   ├── Journal GC (BadgerDB value-log collection)
	│   ├── Archive writer (session summaries)
	│   └── Catalog poller / watcher (source refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (real-time mastery updates)
	│   ├── Event broadcaster (bus -> WebSocket fan-out)
	│   ├── Session janitor (idle expiry)
	│   └── NATS forwarder (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router, REST + WebSocket + Swagger)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Observation journal: BadgerDB append-only store (optional)
 4. Analytics archive: SQLite summary store (optional)
 5. Catalog: load from file or remote URL, spatial index built once
 6. Event bus: Watermill gochannel pub/sub
 7. WebSocket hub, broadcaster, archive writer
 8. Session manager: live sessions over the engine
 9. Authentication: JWT manager, optional OIDC verifier and admin login
 10. Authorization: Casbin RBAC enforcer (embedded or file policy)
 11. Supervisor tree: Suture v4 process supervision
 12. HTTP server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	MATHESIS_SERVER_PORT=8485        # HTTP server port
	MATHESIS_LOGGING_LEVEL=info      # trace, debug, info, warn, error
	MATHESIS_LOGGING_FORMAT=json     # json or console

	# Catalog (one of path or url is required)
	MATHESIS_CATALOG_PATH=catalog.json
	MATHESIS_CATALOG_URL=https://content.example.com/catalog.json
	MATHESIS_CATALOG_WATCH=true      # reload on file change (path mode)

	# Durability (both optional)
	MATHESIS_JOURNAL_PATH=/data/journal
	MATHESIS_ARCHIVE_PATH=/data/archive.db

	# Security
	MATHESIS_SECURITY_JWT_SECRET=<32+ chars, required in production>
	MATHESIS_SECURITY_ADMIN_USERNAME=admin
	MATHESIS_SECURITY_ADMIN_PASSWORD_HASH=<bcrypt hash>
	MATHESIS_SECURITY_CASBIN_ENABLED=true

	# Events (requires a -tags nats build)
	MATHESIS_EVENTS_NATS_ENABLED=true
	MATHESIS_EVENTS_NATS_URL=nats://broker:4222  # Empty embeds a server in-process

# Build Tags

Optional build tags enable additional functionality:

	go build ./cmd/server               # Default build
	go build -tags nats ./cmd/server    # Embedded NATS JetStream event forwarding

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (shutdown timeout)
  - Live sessions remain restorable from the journal after restart
  - Reports services that failed to stop within the timeout

# Example Usage

Development with a local catalog:

	export MATHESIS_CATALOG_PATH=./catalog.json
	export MATHESIS_SERVER_ENVIRONMENT=development
	./mathesis

Production with remote catalog and durability:

	export MATHESIS_CATALOG_URL=https://content.example.com/catalog.json
	export MATHESIS_JOURNAL_PATH=/data/journal
	export MATHESIS_ARCHIVE_PATH=/data/archive.db
	export MATHESIS_SECURITY_JWT_SECRET=$(openssl rand -base64 32)
	./mathesis
*/
package main
