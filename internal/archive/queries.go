// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mathesis/internal/engine"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// Result set bounds for the recent-sessions listing.
const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// SessionSummary is one archived session.
type SessionSummary struct {
	SessionID             string                    `json:"session_id"`
	LearnerTag            string                    `json:"learner_tag,omitempty"`
	Domain                string                    `json:"domain,omitempty"`
	Reason                string                    `json:"reason"`
	StartedAt             time.Time                 `json:"started_at"`
	CompletedAt           time.Time                 `json:"completed_at"`
	QuestionsAsked        int                       `json:"questions_asked"`
	FinalLevel            int                       `json:"final_level"`
	ConfidenceOverall     float64                   `json:"confidence_overall"`
	ConfidenceCoverage    float64                   `json:"confidence_coverage"`
	ConfidenceUncertainty float64                   `json:"confidence_uncertainty"`
	PerLevel              map[int]engine.LevelStats `json:"per_level,omitempty"`
}

// DomainStats aggregates archived sessions per domain tag.
type DomainStats struct {
	Domain        string  `json:"domain"`
	Sessions      int     `json:"sessions"`
	AvgQuestions  float64 `json:"avg_questions"`
	AvgFinalLevel float64 `json:"avg_final_level"`
	AvgConfidence float64 `json:"avg_confidence"`
	Accuracy      float64 `json:"accuracy"`
}

// InsertSummary stores one completed session. Per-level stats are kept
// twice: as JSON for detail views and as flat answered/correct totals so
// accuracy aggregates stay in SQL.
func (a *Archive) InsertSummary(ctx context.Context, s SessionSummary) error {
	start := time.Now()

	perLevel, err := json.Marshal(s.PerLevel)
	if err != nil {
		return fmt.Errorf("marshal per-level stats: %w", err)
	}

	var answered, correct int
	for _, stats := range s.PerLevel {
		answered += stats.Total
		correct += stats.Correct
	}

	_, err = a.conn.ExecContext(ctx, `
		INSERT INTO session_summaries (
			session_id, learner_tag, domain, reason,
			started_at, completed_at, questions_asked, final_level,
			confidence_overall, confidence_coverage, confidence_uncertainty,
			answered_total, correct_total, per_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.LearnerTag, s.Domain, s.Reason,
		s.StartedAt, s.CompletedAt, s.QuestionsAsked, s.FinalLevel,
		s.ConfidenceOverall, s.ConfidenceCoverage, s.ConfidenceUncertainty,
		answered, correct, string(perLevel),
	)
	metrics.RecordDBQuery("insert", "session_summaries", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert session summary: %w", err)
	}
	return nil
}

// RecentSessions lists archived sessions newest first. limit <= 0 selects
// the default; the cap bounds response size.
func (a *Archive) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	start := time.Now()
	rows, err := a.conn.QueryContext(ctx, `
		SELECT session_id, learner_tag, domain, reason,
			started_at, completed_at, questions_asked, final_level,
			confidence_overall, confidence_coverage, confidence_uncertainty,
			per_level
		FROM session_summaries
		ORDER BY completed_at DESC, session_id
		LIMIT ?`, limit)
	metrics.RecordDBQuery("select", "session_summaries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var learner, domain, perLevel sql.NullString
		err := rows.Scan(
			&s.SessionID, &learner, &domain, &s.Reason,
			&s.StartedAt, &s.CompletedAt, &s.QuestionsAsked, &s.FinalLevel,
			&s.ConfidenceOverall, &s.ConfidenceCoverage, &s.ConfidenceUncertainty,
			&perLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		s.LearnerTag = learner.String
		s.Domain = domain.String
		if perLevel.Valid && perLevel.String != "" {
			if err := json.Unmarshal([]byte(perLevel.String), &s.PerLevel); err != nil {
				return nil, fmt.Errorf("unmarshal per-level stats for %s: %w", s.SessionID, err)
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent sessions: %w", err)
	}
	return out, nil
}

// DomainStatsAll aggregates all archived sessions by domain tag. Sessions
// without a domain group under the empty string.
func (a *Archive) DomainStatsAll(ctx context.Context) ([]DomainStats, error) {
	start := time.Now()
	rows, err := a.conn.QueryContext(ctx, `
		SELECT
			COALESCE(domain, '') AS domain,
			COUNT(*) AS sessions,
			AVG(questions_asked) AS avg_questions,
			AVG(final_level) AS avg_final_level,
			AVG(confidence_overall) AS avg_confidence,
			COALESCE(SUM(correct_total) * 1.0 / NULLIF(SUM(answered_total), 0), 0) AS accuracy
		FROM session_summaries
		GROUP BY domain
		ORDER BY sessions DESC, domain`)
	metrics.RecordDBQuery("select", "session_summaries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query domain stats: %w", err)
	}
	defer rows.Close()

	var out []DomainStats
	for rows.Next() {
		var d DomainStats
		if err := rows.Scan(&d.Domain, &d.Sessions, &d.AvgQuestions, &d.AvgFinalLevel, &d.AvgConfidence, &d.Accuracy); err != nil {
			return nil, fmt.Errorf("scan domain stats: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domain stats: %w", err)
	}
	return out, nil
}

// CountSessions returns the number of archived sessions.
func (a *Archive) CountSessions(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := a.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_summaries`).Scan(&n)
	metrics.RecordDBQuery("select", "session_summaries", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
