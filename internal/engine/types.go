// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"time"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// Phase is the question-selection phase. A session starts in PhaseExplore
// and moves to PhaseExploit once; the transition is one-directional.
type Phase int

const (
	// PhaseExplore spreads the first questions across the concept space
	// with greedy farthest-point sampling.
	PhaseExplore Phase = iota
	// PhaseExploit targets uncertain regions near the learner's current
	// difficulty level.
	PhaseExploit
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseExplore:
		return "explore"
	case PhaseExploit:
		return "exploit"
	default:
		return "unknown"
	}
}

// Observation is a single recorded response. Observations are immutable and
// owned by the ObservationLog; the log is never compacted or rewritten.
type Observation struct {
	// ItemID is the catalog id of the probe that was answered.
	ItemID string `json:"item_id"`

	// Position is the probe's concept-space position, copied from the
	// catalog at record time.
	Position catalog.Position `json:"position"`

	// Outcome is the response quality in [0,1]. 1 is fully correct,
	// 0 is incorrect; skips record 0.
	Outcome float64 `json:"outcome"`

	// Weight is the evidentiary weight in (0,1]: full weight for a
	// definite answer, a small fraction for an explicit skip.
	Weight float64 `json:"weight"`

	// DifficultyLevel is the probe's difficulty level.
	DifficultyLevel int `json:"difficulty_level"`

	// Timestamp is when the response was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// Estimate is the knowledge field evaluated at one point.
type Estimate struct {
	// Mean is the estimated mastery in [0,1]. 0.5 is the neutral prior.
	Mean float64 `json:"mean"`

	// Uncertainty is the data uncertainty in [0,1]: 1 where no evidence
	// exists, approaching 0 as nearby evidence accumulates.
	Uncertainty float64 `json:"uncertainty"`

	// Entropy is the binary outcome entropy of Mean in [0,1]. It stays
	// high for a confidently mediocre estimate (mean near 0.5 backed by
	// plenty of evidence) where Uncertainty is low, so the two are
	// reported separately and never collapsed.
	Entropy float64 `json:"entropy"`
}

// Grid is the knowledge field sampled on a square lattice for heat-map
// rendering. Cells[r][c] is the estimate at the center of the cell in row r
// (sweeping y) and column c (sweeping x): x=(c+0.5)/res, y=(r+0.5)/res.
type Grid struct {
	Resolution int          `json:"resolution"`
	Cells      [][]Estimate `json:"cells"`
}

// LevelStats accumulates per-difficulty-level response counts.
type LevelStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns Correct/Total, or 0 before any response at the level.
func (s LevelStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Confidence is the session confidence report.
type Confidence struct {
	// Overall is the bounded combination of the component confidences,
	// always in [0,1] and non-decreasing as observations accumulate.
	Overall float64 `json:"overall"`

	// Coverage is the fraction of the fixed reference grid within the
	// coverage radius of an asked position.
	Coverage float64 `json:"coverage"`

	// UncertaintyConfidence is one minus the mean field uncertainty over
	// the reference grid.
	UncertaintyConfidence float64 `json:"uncertainty"`

	// PerLevel carries the per-difficulty-level response stats.
	PerLevel map[int]LevelStats `json:"per_level"`

	// QuestionsAsked is the number of answered questions this session.
	QuestionsAsked int `json:"questions_asked"`

	// ShouldStop reports whether the early-exit condition holds: Overall
	// at or above the configured threshold with at least the minimum
	// number of questions answered.
	ShouldStop bool `json:"should_stop"`
}

// Recommendation is one ranked trajectory item.
type Recommendation struct {
	// ItemID is the catalog id of the trajectory item.
	ItemID string `json:"item_id"`

	// Score is the expected learning gain, higher first.
	Score float64 `json:"score"`

	// BestAnchor is the anchor position with the highest individual gain,
	// usable as a suggested entry point into the content.
	BestAnchor catalog.Position `json:"best_anchor"`
}

// State is a point-in-time snapshot of the engine's mutable state, for
// introspection and archiving. All fields are copies.
type State struct {
	Phase          string             `json:"phase"`
	CurrentLevel   int                `json:"current_level"`
	QuestionsAsked int                `json:"questions_asked"`
	Observations   int                `json:"observations"`
	AskedIDs       []string           `json:"asked_ids"`
	PendingIDs     []string           `json:"pending_ids"`
	PerLevel       map[int]LevelStats `json:"per_level"`
}
