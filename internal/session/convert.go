// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package session

import (
	"github.com/tomtom215/mathesis/internal/config"
	"github.com/tomtom215/mathesis/internal/engine"
)

// engineConfig translates the application's flat koanf configuration into
// the engine's own Config. Zero values defer to engine defaults, so a bare
// config file runs the engine exactly as DefaultConfig would. The annealing
// exponents and the tie-break seed are engine-internal and deliberately not
// exposed through application config.
func engineConfig(cfg config.EngineConfig) *engine.Config {
	out := engine.DefaultConfig()

	if cfg.Field.KNearest > 0 {
		out.Field.KNearest = cfg.Field.KNearest
	}
	if cfg.Field.LengthScale > 0 {
		out.Field.LengthScale = cfg.Field.LengthScale
	}
	if cfg.Field.Calibration > 0 {
		out.Field.CalibrationC0 = cfg.Field.Calibration
	}
	if cfg.Field.DifficultySlope > 0 {
		out.Field.DifficultySlope = cfg.Field.DifficultySlope
	}

	if cfg.Weights.Answer > 0 {
		out.Weights.Answer = cfg.Weights.Answer
	}
	if cfg.Weights.Skip > 0 {
		out.Weights.Skip = cfg.Weights.Skip
	}

	if cfg.Selector.ExploreQuestions > 0 {
		out.Selector.ExploreQuestions = cfg.Selector.ExploreQuestions
	}
	if cfg.Selector.MinQuestionsPerLevel > 0 {
		out.Selector.MinQuestionsPerLevel = cfg.Selector.MinQuestionsPerLevel
	}
	if cfg.Selector.ProgressionThreshold > 0 {
		out.Selector.ProgressionThreshold = cfg.Selector.ProgressionThreshold
	}
	if cfg.Selector.RegressionThreshold > 0 {
		out.Selector.RegressionThreshold = cfg.Selector.RegressionThreshold
	}
	if cfg.Selector.MinLevel > 0 {
		out.Selector.MinLevel = cfg.Selector.MinLevel
	}
	if cfg.Selector.MaxLevel > 0 {
		out.Selector.MaxLevel = cfg.Selector.MaxLevel
	}
	if cfg.Selector.Seed != 0 {
		out.Selector.Seed = cfg.Selector.Seed
	}

	if cfg.Confidence.GridResolution > 0 {
		out.Confidence.GridResolution = cfg.Confidence.GridResolution
	}
	if cfg.Confidence.CoverageRadius > 0 {
		out.Confidence.CoverageRadius = cfg.Confidence.CoverageRadius
	}
	if cfg.Confidence.ExitThreshold > 0 {
		out.Confidence.Threshold = cfg.Confidence.ExitThreshold
	}
	if cfg.Confidence.MinQuestions > 0 {
		out.Confidence.MinQuestions = cfg.Confidence.MinQuestions
	}

	if cfg.Ranker.GainPercentile > 0 {
		out.Ranker.Percentile = cfg.Ranker.GainPercentile
	}
	if cfg.Ranker.MinAnchors > 0 {
		out.Ranker.MinAnchors = cfg.Ranker.MinAnchors
	}
	if cfg.Ranker.SparsityPenalty > 0 {
		out.Ranker.Penalty = cfg.Ranker.SparsityPenalty
	}

	return out
}
