// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package config provides layered application configuration for Mathesis.
//
// Configuration is loaded with koanf v2 from three sources in order of
// increasing precedence: built-in defaults, an optional YAML file, and
// MATHESIS_-prefixed environment variables. The loaded Config is validated
// before the server starts; engine tunables are validated a second time by
// the engine itself at construction.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Engine   EngineConfig   `koanf:"engine"`
	Session  SessionConfig  `koanf:"session"`
	Journal  JournalConfig  `koanf:"journal"` // Optional: append-only observation journal (BadgerDB)
	Archive  ArchiveConfig  `koanf:"archive"` // Optional: completed-session analytics store (DuckDB)
	Events   EventsConfig   `koanf:"events"`  // Event fan-out (in-process by default, NATS optional)
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is "development" or "production"; production enforces
	// stricter security validation (JWT secret required, no wildcard CORS).
	Environment string `koanf:"environment"`
}

// LoggingConfig holds logging settings (see internal/logging).
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	// Path is the local catalog JSON document.
	Path string `koanf:"path"`
	// URL optionally fetches the catalog over HTTP instead of Path.
	URL string `koanf:"url"`
	// Watch reloads the catalog when the file at Path changes.
	Watch bool `koanf:"watch"`
	// FetchInterval paces remote catalog refreshes (URL mode).
	FetchInterval time.Duration `koanf:"fetch_interval"`
	// FetchTimeout bounds a single remote fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// EngineConfig mirrors the engine tunables as primitives so this package
// stays free of domain imports. The session layer converts it to the
// engine's own Config at session creation.
type EngineConfig struct {
	Field      FieldConfig      `koanf:"field"`
	Weights    WeightsConfig    `koanf:"weights"`
	Selector   SelectorConfig   `koanf:"selector"`
	Confidence ConfidenceConfig `koanf:"confidence"`
	Ranker     RankerConfig     `koanf:"ranker"`
}

// FieldConfig holds knowledge-field estimation tunables.
type FieldConfig struct {
	KNearest        int     `koanf:"k_nearest"`
	LengthScale     float64 `koanf:"length_scale"`
	Calibration     float64 `koanf:"calibration"`
	DifficultySlope float64 `koanf:"difficulty_slope"`
}

// WeightsConfig holds observation evidence weights.
type WeightsConfig struct {
	Answer float64 `koanf:"answer"`
	Skip   float64 `koanf:"skip"`
}

// SelectorConfig holds question-selection tunables.
type SelectorConfig struct {
	ExploreQuestions     int     `koanf:"explore_questions"`
	MinQuestionsPerLevel int     `koanf:"min_questions_per_level"`
	ProgressionThreshold float64 `koanf:"progression_threshold"`
	RegressionThreshold  float64 `koanf:"regression_threshold"`
	MinLevel             int     `koanf:"min_level"`
	MaxLevel             int     `koanf:"max_level"`
	Seed                 int64   `koanf:"seed"`
}

// ConfidenceConfig holds session-confidence tunables.
type ConfidenceConfig struct {
	GridResolution int     `koanf:"grid_resolution"`
	CoverageRadius float64 `koanf:"coverage_radius"`
	ExitThreshold  float64 `koanf:"exit_threshold"`
	MinQuestions   int     `koanf:"min_questions"`
}

// RankerConfig holds recommendation-ranking tunables.
type RankerConfig struct {
	GainPercentile  float64 `koanf:"gain_percentile"`
	MinAnchors      int     `koanf:"min_anchors"`
	SparsityPenalty float64 `koanf:"sparsity_penalty"`
	MaxRecommend    int     `koanf:"max_recommend"`
}

// SessionConfig holds learner-session lifecycle settings.
type SessionConfig struct {
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	JanitorInterval time.Duration `koanf:"janitor_interval"`
	MaxSessions     int           `koanf:"max_sessions"`
}

// JournalConfig holds the append-only observation journal settings.
// The journal is enabled when Path is non-empty.
type JournalConfig struct {
	Path string        `koanf:"path"`
	TTL  time.Duration `koanf:"ttl"`
}

// ArchiveConfig holds the completed-session analytics store settings.
// The archive is enabled when Path is non-empty (":memory:" for tests).
type ArchiveConfig struct {
	Path string `koanf:"path"`
}

// EventsConfig holds event fan-out settings. The in-process bus is always
// on; the NATS transport is build-tag gated and configured here.
type EventsConfig struct {
	BufferSize int `koanf:"buffer_size"`

	NATSEnabled  bool   `koanf:"nats_enabled"`
	NATSURL      string `koanf:"nats_url"`
	NATSHost     string `koanf:"nats_host"`
	NATSPort     int    `koanf:"nats_port"`
	NATSStoreDir string `koanf:"nats_store_dir"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens; required in production.
	JWTSecret string `koanf:"jwt_secret"`
	// TokenTTL bounds session token validity.
	TokenTTL time.Duration `koanf:"token_ttl"`
	// AdminUsername and AdminPasswordHash (bcrypt) guard admin login.
	AdminUsername     string `koanf:"admin_username"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	OIDC   OIDCConfig   `koanf:"oidc"`
	Casbin CasbinConfig `koanf:"casbin"`
}

// OIDCConfig enables optional bearer-token verification against an external
// OpenID Connect provider. Disabled when IssuerURL is empty.
type OIDCConfig struct {
	IssuerURL string `koanf:"issuer_url"`
	ClientID  string `koanf:"client_id"`
}

// CasbinConfig holds RBAC enforcement settings.
type CasbinConfig struct {
	Enabled        bool          `koanf:"enabled"`
	ModelPath      string        `koanf:"model_path"`
	PolicyPath     string        `koanf:"policy_path"`
	DefaultRole    string        `koanf:"default_role"`
	AutoReload     bool          `koanf:"auto_reload"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" && c.Catalog.URL == "" {
		return fmt.Errorf("catalog path or url is required")
	}
	if c.Catalog.URL != "" && !strings.HasPrefix(c.Catalog.URL, "http://") && !strings.HasPrefix(c.Catalog.URL, "https://") {
		return fmt.Errorf("catalog url must be http(s), got %q", c.Catalog.URL)
	}
	if c.Catalog.Watch && c.Catalog.Path == "" {
		return fmt.Errorf("catalog watch requires a local catalog path")
	}
	return nil
}

// validateEngine applies only coarse checks; the engine re-validates every
// tunable at construction and is the authority on their semantics.
func (c *Config) validateEngine() error {
	if c.Engine.Field.LengthScale <= 0 {
		return fmt.Errorf("engine field length_scale must be positive, got %v", c.Engine.Field.LengthScale)
	}
	if c.Engine.Selector.MinQuestionsPerLevel < 1 {
		return fmt.Errorf("engine selector min_questions_per_level must be >= 1, got %d", c.Engine.Selector.MinQuestionsPerLevel)
	}
	if c.Engine.Weights.Skip <= 0 || c.Engine.Weights.Skip >= c.Engine.Weights.Answer {
		return fmt.Errorf("engine weights skip must be in (0, answer), got %v", c.Engine.Weights.Skip)
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session idle_timeout must be positive, got %v", c.Session.IdleTimeout)
	}
	if c.Session.MaxSessions < 1 {
		return fmt.Errorf("session max_sessions must be >= 1, got %d", c.Session.MaxSessions)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Server.Environment == "production" {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("security jwt_secret is required in production")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security jwt_secret must be at least 32 characters in production, got %d", len(c.Security.JWTSecret))
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security cors_origins must not contain a wildcard in production")
			}
		}
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security token_ttl must be positive, got %v", c.Security.TokenTTL)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitRequests < 1 {
			return fmt.Errorf("security rate_limit_requests must be >= 1, got %d", c.Security.RateLimitRequests)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	if c.Security.OIDC.IssuerURL != "" && c.Security.OIDC.ClientID == "" {
		return fmt.Errorf("security oidc client_id is required when issuer_url is set")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether the CORS configuration deserves a
// startup warning. Learner tokens travel in cookies, so a wildcard origin
// exposes credentialed requests to any site. Production rejects the
// wildcard outright in Validate; this covers the other environments.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging level must be a zerolog level, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
