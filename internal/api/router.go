// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/authz"
	"github.com/tomtom215/mathesis/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler        *Handler
	authMiddleware *auth.Middleware
	chiMiddleware  *ChiMiddleware

	// authzMiddleware is optional; when nil, role checks fall back to the
	// token role alone (auth.RequireRole on admin routes).
	authzMiddleware *authz.Middleware
}

// NewRouter creates a router over the given handler and middleware stack.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:        handler,
		authMiddleware: authMW,
		chiMiddleware:  chiMW,
	}
}

// ConfigureAuthz enables Casbin policy enforcement on authenticated routes.
func (router *Router) ConfigureAuthz(mw *authz.Middleware) {
	router.authzMiddleware = mw
}

// authorize returns the policy enforcement middleware, or a pass-through
// when Casbin is disabled.
func (router *Router) authorize() func(http.Handler) http.Handler {
	if router.authzMiddleware == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return router.authzMiddleware.Authorize
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(HTTPDebugLogging())          // Diagnostic logging (enabled via MATHESIS_HTTP_DEBUG=true)
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting; monitoring tools poll these frequently
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting for auth endpoints (brute force prevention)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAuth))
		r.Use(APISecurityHeaders())

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitLogin)).Post("/login", router.handler.Login)
	})

	// ========================
	// Session Endpoints
	// ========================
	// Creation is public and mints the session-scoped token; everything
	// under /{id} requires that token.
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAPI))
		r.Use(APISecurityHeaders())
		r.Use(middleware.HTTPMetrics)

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWrite)).Post("/", router.handler.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(router.authMiddleware.Authenticate)
			r.Use(router.authorize())

			r.Get("/", router.handler.SessionInfo)
			r.Delete("/", router.handler.CompleteSession)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitWrite)).Post("/observations", router.handler.RecordObservation)
			r.Get("/next", router.handler.NextQuestion)

			// Live mastery panels poll these after every answer
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitRead)).Get("/confidence", router.handler.SessionConfidence)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitRead)).Get("/recommendations", router.handler.SessionRecommendations)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitRead)).Get("/mastery-grid", router.handler.MasteryGrid)
		})
	})

	// ========================
	// Catalog Endpoints
	// ========================
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAPI))
		r.Use(APISecurityHeaders())
		r.Use(middleware.HTTPMetrics)
		r.Use(router.authMiddleware.Authenticate)
		r.Use(router.authorize())

		r.Get("/", router.handler.CatalogStats)
		r.Get("/items/{id}", router.handler.CatalogItem)
		r.Get("/near", router.handler.CatalogNear)

		// Reload swaps the catalog for every new session; admins only.
		// RequireRole backs up the Casbin policy when authz is disabled.
		r.With(
			router.chiMiddleware.RateLimitCustom(RateLimitWrite),
			router.authMiddleware.RequireRole(auth.RoleAdmin),
		).Post("/reload", router.handler.ReloadCatalog)
	})

	// ========================
	// Archive Endpoints
	// ========================
	r.Route("/api/v1/archive", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAPI))
		r.Use(APISecurityHeaders())
		r.Use(middleware.HTTPMetrics)
		r.Use(router.authMiddleware.Authenticate)
		r.Use(router.authorize())

		r.Get("/sessions", router.handler.ArchiveSessions)
		r.Get("/domains/accuracy", router.handler.ArchiveDomainAccuracy)
	})

	// ========================
	// WebSocket Endpoint
	// ========================
	// Browser clients authenticate through the session cookie
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket))
		r.Use(router.authMiddleware.Authenticate)
		r.Use(router.authorize())

		r.Get("/", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Unmatched routes answer in the standard envelope
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint does not exist", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
