// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package middleware provides HTTP middleware shared across route trees.
//
// Only instrumentation lives here; authentication, authorization, CORS,
// and rate limiting middleware are owned by the packages that configure
// them (internal/auth, internal/authz, internal/api).
package middleware
