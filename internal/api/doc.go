// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

/*
Package api provides the HTTP REST API layer for Mathesis.

This package exposes the adaptive session lifecycle, the question catalog,
and the session archive over JSON, and serves the WebSocket endpoint used
for live mastery updates. It is the only package that speaks HTTP; all
domain behavior lives in internal/engine, internal/session, and
internal/catalog.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: Request handlers for all API endpoints
  - Response formatting: Standardized JSON responses with metadata
  - Error handling: Consistent error responses with appropriate HTTP status codes
  - Authentication integration: JWT session tokens via internal/auth
  - Authorization: Casbin role checks via internal/authz
  - Rate limiting: Per-route-tier limits to prevent abuse

API Categories:

1. Core Endpoints (/api/v1/):
  - Health checks (health/live, health/ready, health)
  - Admin authentication (auth/login)

2. Session Endpoints (/api/v1/sessions/):
  - Session creation (mints the learner token)
  - Observation recording, next-question selection
  - Confidence, recommendations, and mastery grid reads
  - Explicit completion

3. Catalog Endpoints (/api/v1/catalog/):
  - Catalog statistics and item lookup
  - Spatial nearest-neighbour queries
  - Admin-triggered reload

4. Archive Endpoints (/api/v1/archive/):
  - Recent completed sessions
  - Per-domain accuracy aggregates

5. WebSocket Endpoint (/api/v1/ws):
  - Live observation, confidence, and completion broadcasts

Usage Example:

	import (
	    "github.com/tomtom215/mathesis/internal/api"
	    "github.com/tomtom215/mathesis/internal/auth"
	)

	handler := api.NewHandler(deps)
	router := api.NewRouter(handler, authMW, authzMW, api.DefaultChiMiddlewareConfig())

	http.ListenAndServe(":8080", router.SetupChi())

Thread Safety:

All handlers are thread-safe and designed for concurrent request handling.
Shared resources (session manager, catalog store, archive, WebSocket hub)
are protected by their respective synchronization primitives.

See Also:

  - internal/auth: Token issuance and validation
  - internal/authz: Role-based access control
  - internal/session: Session lifecycle and journaling
  - internal/catalog: Item catalog and spatial index
*/
package api
