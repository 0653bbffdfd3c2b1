// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a default config adjusted to pass validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.Path = "catalog.json"
	return cfg
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8485 {
		t.Errorf("expected default port 8485, got %d", cfg.Server.Port)
	}
	if cfg.Engine.Selector.ExploreQuestions != 2 {
		t.Errorf("expected 2 explore questions, got %d", cfg.Engine.Selector.ExploreQuestions)
	}
	if cfg.Engine.Selector.ProgressionThreshold != 0.70 {
		t.Errorf("expected progression threshold 0.70, got %v", cfg.Engine.Selector.ProgressionThreshold)
	}
	if cfg.Engine.Confidence.ExitThreshold != 0.85 {
		t.Errorf("expected exit threshold 0.85, got %v", cfg.Engine.Confidence.ExitThreshold)
	}
	if cfg.Engine.Weights.Skip >= cfg.Engine.Weights.Answer {
		t.Error("skip weight must be well below answer weight")
	}
	if cfg.Journal.Path != "" {
		t.Error("journal should be disabled by default")
	}
	if cfg.Archive.Path != "" {
		t.Error("archive should be disabled by default")
	}
	if cfg.Events.NATSEnabled {
		t.Error("NATS transport should be disabled by default")
	}
}

// --- Test: Validation failures ---

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "environment",
		},
		{
			name: "no catalog source",
			mutate: func(c *Config) {
				c.Catalog.Path = ""
				c.Catalog.URL = ""
			},
			wantErr: "catalog",
		},
		{
			name:    "non-http catalog url",
			mutate:  func(c *Config) { c.Catalog.URL = "ftp://example.com/catalog.json" },
			wantErr: "http",
		},
		{
			name: "watch without path",
			mutate: func(c *Config) {
				c.Catalog.Path = ""
				c.Catalog.URL = "https://example.com/catalog.json"
				c.Catalog.Watch = true
			},
			wantErr: "watch",
		},
		{
			name:    "non-positive length scale",
			mutate:  func(c *Config) { c.Engine.Field.LengthScale = 0 },
			wantErr: "length_scale",
		},
		{
			name:    "min questions below one",
			mutate:  func(c *Config) { c.Engine.Selector.MinQuestionsPerLevel = 0 },
			wantErr: "min_questions_per_level",
		},
		{
			name:    "skip weight above answer weight",
			mutate:  func(c *Config) { c.Engine.Weights.Skip = 1.5 },
			wantErr: "skip",
		},
		{
			name:    "non-positive idle timeout",
			mutate:  func(c *Config) { c.Session.IdleTimeout = 0 },
			wantErr: "idle_timeout",
		},
		{
			name:    "non-positive token ttl",
			mutate:  func(c *Config) { c.Security.TokenTTL = 0 },
			wantErr: "token_ttl",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.Security.RateLimitRequests = 0 },
			wantErr: "rate_limit_requests",
		},
		{
			name:    "oidc issuer without client id",
			mutate:  func(c *Config) { c.Security.OIDC.IssuerURL = "https://idp.example.com" },
			wantErr: "client_id",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateProduction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) {},
			wantErr: "jwt_secret",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "too-short" },
			wantErr: "32 characters",
		},
		{
			name: "wildcard cors",
			mutate: func(c *Config) {
				c.Security.JWTSecret = strings.Repeat("s", 32)
				c.Security.CORSOrigins = []string{"*"}
			},
			wantErr: "wildcard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.Server.Environment = "production"
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

// --- Test: Layered loading ---

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := `
server:
  port: 9000
catalog:
  path: /data/catalog.json
engine:
  selector:
    explore_questions: 4
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/data/catalog.json" {
		t.Errorf("expected catalog path from file, got %q", cfg.Catalog.Path)
	}
	if cfg.Engine.Selector.ExploreQuestions != 4 {
		t.Errorf("expected 4 explore questions from file, got %d", cfg.Engine.Selector.ExploreQuestions)
	}
	// Untouched values keep their defaults
	if cfg.Engine.Confidence.CoverageRadius != 0.15 {
		t.Errorf("expected default coverage radius, got %v", cfg.Engine.Confidence.CoverageRadius)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := `
server:
  port: 9000
catalog:
  path: /data/catalog.json
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MATHESIS_HTTP_PORT", "9100")
	t.Setenv("MATHESIS_SELECTOR_SEED", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected env var to win over file, got port %d", cfg.Server.Port)
	}
	if cfg.Engine.Selector.Seed != 7 {
		t.Errorf("expected seed 7 from env, got %d", cfg.Engine.Selector.Seed)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("catalog:\n  path: catalog.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MATHESIS_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("expected trimmed origin, got %q", cfg.Security.CORSOrigins[1])
	}
}

func TestLoadInvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 0\ncatalog:\n  path: c.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure for port 0")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"MATHESIS_HTTP_PORT", "server.port"},
		{"MATHESIS_CATALOG_PATH", "catalog.path"},
		{"MATHESIS_FIELD_LENGTH_SCALE", "engine.field.length_scale"},
		{"MATHESIS_JWT_SECRET", "security.jwt_secret"},
		{"MATHESIS_UNKNOWN_KEY", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenTTLDefault(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.Security.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token TTL, got %v", cfg.Security.TokenTTL)
	}
}
