// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/mathesis/docs" // Import generated swagger docs
	"github.com/tomtom215/mathesis/internal/api"
	"github.com/tomtom215/mathesis/internal/archive"
	"github.com/tomtom215/mathesis/internal/auth"
	"github.com/tomtom215/mathesis/internal/authz"
	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/events"
	"github.com/tomtom215/mathesis/internal/journal"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/session"
	"github.com/tomtom215/mathesis/internal/supervisor"
	"github.com/tomtom215/mathesis/internal/supervisor/services"
	ws "github.com/tomtom215/mathesis/internal/websocket"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Mathesis with supervisor tree")
	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Str("catalog_url", cfg.Catalog.URL).
		Str("journal_path", cfg.Journal.Path).
		Str("archive_path", cfg.Archive.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Observation journal (optional). Without it, sessions do not survive
	// restarts and restore returns not-found.
	var jnl *journal.Journal
	if cfg.Journal.Path != "" {
		jcfg := journal.DefaultConfig(cfg.Journal.Path)
		if cfg.Journal.TTL > 0 {
			jcfg.TTL = cfg.Journal.TTL
		}
		jnl, err = journal.Open(jcfg)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Journal.Path).Msg("Failed to open observation journal")
		}
		defer func() {
			if err := jnl.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing journal")
			}
		}()
	} else {
		logging.Warn().Msg("Observation journal disabled (MATHESIS_JOURNAL_PATH not set) - sessions will not survive restarts")
	}

	// Analytics archive (optional). API endpoints degrade to 503 without it.
	var arch *archive.Archive
	if cfg.Archive.Path != "" {
		arch, err = archive.Open(archive.Config{Path: cfg.Archive.Path})
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Archive.Path).Msg("Failed to open analytics archive - continuing without it")
			arch = nil
		} else {
			defer func() {
				if err := arch.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing archive")
				}
			}()
		}
	} else {
		logging.Info().Msg("Analytics archive disabled (MATHESIS_ARCHIVE_PATH not set)")
	}

	// Load the initial catalog. A local file wins; a remote URL either
	// provides the initial load or refreshes the file-loaded catalog.
	var (
		initial *catalog.Catalog
		fetcher *catalog.Fetcher
	)
	if cfg.Catalog.Path != "" {
		initial, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			if cfg.Catalog.URL == "" {
				logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
			}
			logging.Warn().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog file - trying remote source")
		}
	}
	if cfg.Catalog.URL != "" {
		fetcher = catalog.NewFetcher(cfg.Catalog.URL, cfg.Catalog.FetchTimeout, cfg.Catalog.FetchInterval)
		if initial == nil {
			fetchCtx, fetchCancel := context.WithTimeout(ctx, 2*time.Minute)
			initial, err = fetcher.Fetch(fetchCtx)
			fetchCancel()
			if err != nil {
				// The poller keeps retrying; sessions cannot start until
				// a catalog arrives.
				logging.Warn().Err(err).Str("url", cfg.Catalog.URL).Msg("Initial catalog fetch failed - starting degraded, poller will retry")
			}
		}
	}
	store := catalog.NewStore(initial)
	if initial != nil {
		stats := initial.Stats()
		logging.Info().
			Int("items", stats.Items).
			Int("probes", stats.Probes).
			Int("trajectories", stats.Trajectories).
			Msg("Catalog loaded")
	}

	// Event bus connects the session manager to the broadcaster, the
	// archive writer, and the optional NATS forwarder.
	bus := events.NewBus(cfg.Events.BufferSize)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// WebSocket hub for real-time mastery updates (before the manager so
	// completion events always have a live subscriber chain)
	wsHub := ws.NewHub()
	broadcaster := ws.NewBroadcaster(wsHub, bus)

	var writer *archive.Writer
	if arch != nil {
		writer = archive.NewWriter(arch, bus)
	}

	// Session manager owns live sessions over the estimator engine
	manager := session.NewManager(cfg.Session, cfg.Engine, store, jnl, bus)

	// Authentication: JWT always, OIDC verification when configured
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	var oidcVerifier *auth.OIDCVerifier
	if cfg.Security.OIDC.IssuerURL != "" {
		oidcVerifier, err = auth.NewOIDCVerifier(ctx, &cfg.Security.OIDC)
		if err != nil {
			logging.Warn().Err(err).Str("issuer", cfg.Security.OIDC.IssuerURL).Msg("Failed to initialize OIDC verifier - continuing with JWT only")
			oidcVerifier = nil
		} else {
			logging.Info().Str("issuer", cfg.Security.OIDC.IssuerURL).Msg("OIDC token verification enabled")
		}
	}
	authMiddleware := auth.NewMiddleware(jwtManager, oidcVerifier)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (MATHESIS_SECURITY_RATE_LIMIT_DISABLED=true)")
		logging.Warn().Msg("This should only be used for test environments!")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Any website can make credentialed requests to this API.")
		logging.Warn().Msg("  Set specific origins in production:")
		logging.Warn().Msg("    MATHESIS_SECURITY_CORS_ORIGINS=https://app.example.com")
		logging.Warn().Msg("============================================================")
	}

	// API handler and router
	api.SetVersion(version)
	handler := api.NewHandler(manager, store, cfg, jwtManager, wsHub)
	defer handler.Close()

	if cfg.Security.AdminUsername != "" && cfg.Security.AdminPasswordHash != "" {
		verifier, err := auth.NewAdminVerifier(cfg.Security.AdminUsername, cfg.Security.AdminPasswordHash)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to initialize admin login - /auth/login disabled")
		} else {
			handler.SetAdminVerifier(verifier)
			logging.Info().Msg("Admin login enabled")
		}
	} else {
		logging.Info().Msg("Admin login disabled (no admin credentials configured)")
	}
	if fetcher != nil {
		handler.SetFetcher(fetcher)
	}
	if arch != nil {
		handler.SetArchive(arch)
	}

	router := api.NewRouter(handler, authMiddleware, api.NewChiMiddlewareFromConfig(&cfg.Security))

	// Casbin RBAC. Fail closed: a broken policy is a fatal error, not a
	// silently open API.
	if cfg.Security.Casbin.Enabled {
		enforcer, err := authz.NewEnforcer(cfg.Security.Casbin)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
		}
		router.ConfigureAuthz(authz.NewMiddleware(enforcer))
		logging.Info().Msg("Casbin authorization enabled")
	} else {
		logging.Warn().Msg("Casbin authorization disabled - only authentication and token scoping protect the API")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree. zerolog bridges to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	if jnl != nil {
		tree.AddDataService(services.NewJournalGCService(jnl, services.JournalGCServiceConfig{}))
	}
	if writer != nil {
		tree.AddDataService(services.NewArchiveWriterService(writer))
	}
	onReload := func(c *catalog.Catalog) {
		wsHub.BroadcastJSON("catalog_reloaded", c.Stats())
	}
	if fetcher != nil {
		runner := catalog.NewRunner(fetcher, store, cfg.Catalog.FetchInterval, onReload)
		tree.AddDataService(services.NewCatalogPollerService(runner))
		logging.Info().Dur("interval", cfg.Catalog.FetchInterval).Msg("Catalog poller added to supervisor tree")
	}
	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		watcher := catalog.NewWatcher(cfg.Catalog.Path, store, onReload)
		tree.AddDataService(services.NewCatalogWatcherService(watcher))
		logging.Info().Str("path", cfg.Catalog.Path).Msg("Catalog watcher added to supervisor tree")
	}

	// Messaging layer services
	tree.AddMessagingService(services.NewHubService(wsHub))
	tree.AddMessagingService(services.NewBroadcasterService(broadcaster))
	tree.AddMessagingService(services.NewJanitorService(manager))
	forwarder, err := initEventForwarder(cfg, bus, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS event forwarding")
	}
	if forwarder != nil {
		defer func() {
			if err := forwarder.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing NATS forwarder")
			}
		}()
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
