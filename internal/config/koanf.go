// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mathesis/config.yaml",
	"/etc/mathesis/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "MATHESIS_CONFIG"

// envPrefix is stripped from environment variables before mapping.
const envPrefix = "MATHESIS_"

// defaultConfig returns a Config with every default value filled in.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8485,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:          "catalog.json",
			URL:           "",
			Watch:         false,
			FetchInterval: 15 * time.Minute,
			FetchTimeout:  30 * time.Second,
		},
		Engine: EngineConfig{
			Field: FieldConfig{
				KNearest:        8,
				LengthScale:     0.18,
				Calibration:     1.0,
				DifficultySlope: 0.15,
			},
			Weights: WeightsConfig{
				Answer: 1.0,
				Skip:   0.1,
			},
			Selector: SelectorConfig{
				ExploreQuestions:     2,
				MinQuestionsPerLevel: 3,
				ProgressionThreshold: 0.70,
				RegressionThreshold:  0.40,
				MinLevel:             1,
				MaxLevel:             5,
				Seed:                 42,
			},
			Confidence: ConfidenceConfig{
				GridResolution: 10,
				CoverageRadius: 0.15,
				ExitThreshold:  0.85,
				MinQuestions:   3,
			},
			Ranker: RankerConfig{
				GainPercentile:  0.75,
				MinAnchors:      3,
				SparsityPenalty: 0.5,
				MaxRecommend:    20,
			},
		},
		Session: SessionConfig{
			IdleTimeout:     30 * time.Minute,
			JanitorInterval: time.Minute,
			MaxSessions:     1000,
		},
		Journal: JournalConfig{
			Path: "", // Disabled by default - opt-in persistence
			TTL:  7 * 24 * time.Hour,
		},
		Archive: ArchiveConfig{
			Path: "", // Disabled by default - opt-in analytics
		},
		Events: EventsConfig{
			BufferSize:   256,
			NATSEnabled:  false,
			NATSURL:      "", // Empty embeds a server on NATSHost:NATSPort
			NATSHost:     "127.0.0.1",
			NATSPort:     4222,
			NATSStoreDir: "/data/nats/jetstream",
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			AdminUsername:     "",
			AdminPasswordHash: "",
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
			OIDC: OIDCConfig{
				IssuerURL: "",
				ClientID:  "",
			},
			Casbin: CasbinConfig{
				Enabled:        true,
				ModelPath:      "",
				PolicyPath:     "",
				DefaultRole:    "learner",
				AutoReload:     false,
				ReloadInterval: 30 * time.Second,
			},
		},
	}
}

// Load reads configuration using koanf v2 with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (first match in DefaultConfigPaths,
//     or MATHESIS_CONFIG)
//  3. Environment variables: MATHESIS_-prefixed overrides
//
// Precedence: ENV > file > defaults. The result is validated before return.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, honoring MATHESIS_CONFIG first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as env var strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings; the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML): nothing to do
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps MATHESIS_-prefixed environment variable names to
// koanf config paths. Only known variables are mapped; everything else is
// skipped so stray environment variables never pollute the config.
//
// Examples:
//   - MATHESIS_HTTP_PORT -> server.port
//   - MATHESIS_CATALOG_PATH -> catalog.path
//   - MATHESIS_SELECTOR_SEED -> engine.selector.seed
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server
		"http_host":        "server.host",
		"http_port":        "server.port",
		"read_timeout":     "server.read_timeout",
		"write_timeout":    "server.write_timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"environment":      "server.environment",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Catalog
		"catalog_path":           "catalog.path",
		"catalog_url":            "catalog.url",
		"catalog_watch":          "catalog.watch",
		"catalog_fetch_interval": "catalog.fetch_interval",
		"catalog_fetch_timeout":  "catalog.fetch_timeout",

		// Engine: knowledge field
		"field_k_nearest":        "engine.field.k_nearest",
		"field_length_scale":     "engine.field.length_scale",
		"field_calibration":      "engine.field.calibration",
		"field_difficulty_slope": "engine.field.difficulty_slope",

		// Engine: observation weights
		"weight_answer": "engine.weights.answer",
		"weight_skip":   "engine.weights.skip",

		// Engine: selector
		"selector_explore_questions": "engine.selector.explore_questions",
		"selector_min_per_level":     "engine.selector.min_questions_per_level",
		"selector_progression":       "engine.selector.progression_threshold",
		"selector_regression":        "engine.selector.regression_threshold",
		"selector_min_level":         "engine.selector.min_level",
		"selector_max_level":         "engine.selector.max_level",
		"selector_seed":              "engine.selector.seed",

		// Engine: confidence
		"confidence_grid_resolution": "engine.confidence.grid_resolution",
		"confidence_radius":          "engine.confidence.coverage_radius",
		"confidence_exit_threshold":  "engine.confidence.exit_threshold",
		"confidence_min_questions":   "engine.confidence.min_questions",

		// Engine: ranker
		"ranker_percentile":       "engine.ranker.gain_percentile",
		"ranker_min_anchors":      "engine.ranker.min_anchors",
		"ranker_sparsity_penalty": "engine.ranker.sparsity_penalty",
		"ranker_max_recommend":    "engine.ranker.max_recommend",

		// Session
		"session_idle_timeout":     "session.idle_timeout",
		"session_janitor_interval": "session.janitor_interval",
		"session_max":              "session.max_sessions",

		// Journal
		"journal_path": "journal.path",
		"journal_ttl":  "journal.ttl",

		// Archive
		"archive_path": "archive.path",

		// Events
		"events_buffer_size":    "events.buffer_size",
		"events_nats_enabled":   "events.nats_enabled",
		"events_nats_url":       "events.nats_url",
		"events_nats_host":      "events.nats_host",
		"events_nats_port":      "events.nats_port",
		"events_nats_store_dir": "events.nats_store_dir",

		// Security
		"jwt_secret":          "security.jwt_secret",
		"token_ttl":           "security.token_ttl",
		"admin_username":      "security.admin_username",
		"admin_password_hash": "security.admin_password_hash",
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		// OIDC
		"oidc_issuer_url": "security.oidc.issuer_url",
		"oidc_client_id":  "security.oidc.client_id",

		// Casbin
		"casbin_enabled":         "security.casbin.enabled",
		"casbin_model_path":      "security.casbin.model_path",
		"casbin_policy_path":     "security.casbin.policy_path",
		"casbin_default_role":    "security.casbin.default_role",
		"casbin_auto_reload":     "security.casbin.auto_reload",
		"casbin_reload_interval": "security.casbin.reload_interval",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped entirely
	return ""
}
