// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package archive persists completed-session summaries in DuckDB for
// after-the-fact analytics. Live sessions never touch it: the writer
// consumes sessions.completed events and each summary is immutable once
// inserted.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/mathesis/internal/logging"
)

// Config holds archive settings. The archive is constructed only when a
// path is configured; ":memory:" keeps it process-local (tests).
type Config struct {
	Path string
}

// Archive wraps the DuckDB connection.
type Archive struct {
	conn *sql.DB
}

// Open opens (or creates) the archive database and ensures the schema.
func Open(cfg Config) (*Archive, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create archive directory %s: %w", dir, err)
			}
		}
	}

	// Extension auto-install is disabled so startup cannot hang on a
	// network fetch; the schema only uses built-in types.
	connStr := cfg.Path + "?access_mode=read_write&autoinstall_known_extensions=false&autoload_known_extensions=false"
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.createTables(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("Session archive opened")
	return a, nil
}

func (a *Archive) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS session_summaries (
			session_id TEXT PRIMARY KEY,
			learner_tag TEXT,
			domain TEXT,
			reason TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			questions_asked INTEGER NOT NULL,
			final_level INTEGER NOT NULL,
			confidence_overall DOUBLE NOT NULL,
			confidence_coverage DOUBLE NOT NULL,
			confidence_uncertainty DOUBLE NOT NULL,
			answered_total INTEGER NOT NULL,
			correct_total INTEGER NOT NULL,
			per_level TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_completed_at
			ON session_summaries(completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_domain
			ON session_summaries(domain)`,
	}

	for _, query := range queries {
		if _, err := a.conn.Exec(query); err != nil {
			return fmt.Errorf("initialize archive schema: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (a *Archive) Ping(ctx context.Context) error {
	return a.conn.PingContext(ctx)
}

// Close closes the database.
func (a *Archive) Close() error {
	if err := a.conn.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	logging.Info().Msg("Session archive closed")
	return nil
}
