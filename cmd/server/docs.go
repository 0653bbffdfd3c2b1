// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package main provides the Mathesis HTTP server
//
// Mathesis API provides adaptive question selection and mastery
// estimation over a spatially indexed question catalog.
//
// @title Mathesis API
// @version 1.0
// @description Adaptive learning engine that estimates a learner's mastery field over a two-dimensional knowledge plane and selects the next question where the estimate is least certain.
// @description
// @description ## Features
// @description
// @description - **Adaptive Selection**: Next-question choice driven by estimator uncertainty and information gain
// @description - **Mastery Grid**: Rasterized mastery field for heatmap rendering at configurable resolution
// @description - **Confidence Reports**: Overall, coverage, and uncertainty scores per session
// @description - **Session Restore**: Sessions survive restarts via an append-only observation journal
// @description - **Real-time Updates**: WebSocket-based confidence and grid refresh notifications
// @description - **Analytics Archive**: Completed-session summaries with per-domain accuracy
// @description
// @description ## Authentication
// @description
// @description Creating a session (`POST /api/v1/sessions`) is public and returns a learner token
// @description scoped to that single session, set as an HTTP-only cookie and echoed in the response body.
// @description Admin endpoints require a token from `/api/v1/auth/login`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address, with stricter
// @description tiers on authentication and write endpoints and a permissive tier on
// @description confidence/grid polling.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-25T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/mathesis/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8485
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in cookie
// @name mathesis_token
// @description JWT stored in an HTTP-only cookie. Learner tokens come from POST /api/v1/sessions; admin tokens from /api/v1/auth/login.
//
// @tag.name Core
// @tag.description Health checks and system status
//
// @tag.name Auth
// @tag.description Administrator authentication
//
// @tag.name Sessions
// @tag.description Adaptive session lifecycle: observations, next-question selection, confidence, recommendations, and the mastery grid
//
// @tag.name Catalog
// @tag.description Question catalog statistics, item lookup, spatial queries, and reload
//
// @tag.name Archive
// @tag.description Completed-session analytics
//
// @tag.name Realtime
// @tag.description Real-time WebSocket connection for live mastery updates
package main
