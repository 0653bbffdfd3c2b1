// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import "github.com/tomtom215/mathesis/internal/catalog"

// confidenceTracker aggregates spatial coverage and field uncertainty into
// a single bounded confidence score. Both components live in [0, 1], so
// their equal-weight average does too; no component is an unbounded ratio.
type confidenceTracker struct {
	cfg ConfidenceConfig

	// grid holds the probe-point centers of a GridResolution^2 lattice,
	// built once; coverage asks how many lie within CoverageRadius of an
	// asked position.
	grid []catalog.Position

	// best is the high-water mark of the overall score. Reported
	// confidence never decreases within a session even when a new
	// observation transiently redistributes kernel mass.
	best float64
}

func newConfidenceTracker(cfg ConfidenceConfig) *confidenceTracker {
	res := cfg.GridResolution
	grid := make([]catalog.Position, 0, res*res)
	for row := 0; row < res; row++ {
		for col := 0; col < res; col++ {
			grid = append(grid, catalog.Position{
				X: (float64(col) + 0.5) / float64(res),
				Y: (float64(row) + 0.5) / float64(res),
			})
		}
	}
	return &confidenceTracker{cfg: cfg, grid: grid}
}

// report computes the session confidence from the current field and asked
// positions. With nothing asked both components are zero. The caller fills
// in per-level stats.
func (t *confidenceTracker) report(f *Field, asked *catalog.SpatialIndex, questionsAsked int) Confidence {
	coverage := t.coverage(asked)
	uncConf := t.uncertaintyConfidence(f)

	overall := clamp01((coverage + uncConf) / 2)
	if overall > t.best {
		t.best = overall
	}
	overall = t.best

	return Confidence{
		Overall:               overall,
		Coverage:              coverage,
		UncertaintyConfidence: uncConf,
		QuestionsAsked:        questionsAsked,
		ShouldStop:            overall >= t.cfg.Threshold && questionsAsked >= t.cfg.MinQuestions,
	}
}

// coverage is the fraction of grid points within CoverageRadius of at least
// one asked position.
func (t *confidenceTracker) coverage(asked *catalog.SpatialIndex) float64 {
	if asked.Size() == 0 {
		return 0
	}
	covered := 0
	for _, p := range t.grid {
		if asked.AnyWithin(p, t.cfg.CoverageRadius) {
			covered++
		}
	}
	return float64(covered) / float64(len(t.grid))
}

// uncertaintyConfidence is one minus the mean field uncertainty over the
// grid. An empty field has uncertainty one everywhere, so this starts at
// zero and rises as observations accumulate.
func (t *confidenceTracker) uncertaintyConfidence(f *Field) float64 {
	if f.Len() == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range t.grid {
		sum += f.EstimateAt(p).Uncertainty
	}
	return clamp01(1 - sum/float64(len(t.grid)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
