// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// ObservationLog is the append-only record of session responses. Entries are
// immutable once appended; the log is never compacted or rewritten in place.
type ObservationLog struct {
	entries []Observation
}

// NewObservationLog creates an empty log.
func NewObservationLog() *ObservationLog {
	return &ObservationLog{}
}

// Append adds an observation to the log.
func (l *ObservationLog) Append(o Observation) {
	l.entries = append(l.entries, o)
}

// Len returns the number of recorded observations. It doubles as the log
// version: the knowledge field memoizes against it.
func (l *ObservationLog) Len() int {
	return len(l.entries)
}

// Snapshot returns an immutable view of the log in insertion order. The
// full slice expression caps capacity so later appends can never write into
// a snapshot's backing array.
func (l *ObservationLog) Snapshot() []Observation {
	return l.entries[:len(l.entries):len(l.entries)]
}

// newObservation derives the evidentiary weight and builds the observation
// for a response to the given probe. A skip stores outcome 0 at the skip
// weight: weak evidence of non-mastery, never discarded.
func newObservation(it *catalog.Item, outcome float64, skipped bool, w WeightsConfig) Observation {
	weight := w.Answer
	if skipped {
		outcome = 0
		weight = w.Skip
	}
	return Observation{
		ItemID:          it.ID,
		Position:        it.Position(),
		Outcome:         outcome,
		Weight:          weight,
		DifficultyLevel: it.DifficultyLevel,
		Timestamp:       time.Now().UTC(),
	}
}

// validateObservation checks a raw observation, as restored from a journal,
// against the invariants Record enforces for live responses.
func validateObservation(o Observation) error {
	if math.IsNaN(o.Outcome) || o.Outcome < 0 || o.Outcome > 1 {
		return fmt.Errorf("%w: outcome %v outside [0, 1]", ErrInvalidObservation, o.Outcome)
	}
	if math.IsNaN(o.Weight) || o.Weight <= 0 || o.Weight > 1 {
		return fmt.Errorf("%w: weight %v outside (0, 1]", ErrInvalidObservation, o.Weight)
	}
	if o.DifficultyLevel < catalog.MinLevel || o.DifficultyLevel > catalog.MaxLevel {
		return fmt.Errorf("%w: difficulty level %d outside [%d, %d]",
			ErrInvalidObservation, o.DifficultyLevel, catalog.MinLevel, catalog.MaxLevel)
	}
	if !o.Position.InBounds() {
		return fmt.Errorf("%w: position (%v, %v) outside the unit square",
			ErrInvalidObservation, o.Position.X, o.Position.Y)
	}
	return nil
}
