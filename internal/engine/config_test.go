// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"strings"
	"testing"
)

// --- Test: Config validation ---

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "zero k nearest",
			mutate:  func(c *Config) { c.Field.KNearest = 0 },
			wantMsg: "field.k_nearest",
		},
		{
			name:    "negative length scale",
			mutate:  func(c *Config) { c.Field.LengthScale = -0.1 },
			wantMsg: "field.length_scale",
		},
		{
			name:    "zero calibration",
			mutate:  func(c *Config) { c.Field.CalibrationC0 = 0 },
			wantMsg: "field.calibration_c0",
		},
		{
			name:    "negative difficulty slope",
			mutate:  func(c *Config) { c.Field.DifficultySlope = -1 },
			wantMsg: "field.difficulty_slope",
		},
		{
			name:    "answer weight above one",
			mutate:  func(c *Config) { c.Weights.Answer = 1.5 },
			wantMsg: "weights.answer",
		},
		{
			name:    "zero skip weight",
			mutate:  func(c *Config) { c.Weights.Skip = 0 },
			wantMsg: "weights.skip",
		},
		{
			name:    "skip weight above answer weight",
			mutate:  func(c *Config) { c.Weights.Skip = 1.0 },
			wantMsg: "weights.skip must be below",
		},
		{
			name:    "negative explore questions",
			mutate:  func(c *Config) { c.Selector.ExploreQuestions = -1 },
			wantMsg: "selector.explore_questions",
		},
		{
			name:    "zero min questions per level",
			mutate:  func(c *Config) { c.Selector.MinQuestionsPerLevel = 0 },
			wantMsg: "selector.min_questions_per_level",
		},
		{
			name:    "progression threshold above one",
			mutate:  func(c *Config) { c.Selector.ProgressionThreshold = 1.1 },
			wantMsg: "selector.progression_threshold",
		},
		{
			name:    "regression above progression",
			mutate:  func(c *Config) { c.Selector.RegressionThreshold = 0.9 },
			wantMsg: "selector.regression_threshold must be below",
		},
		{
			name:    "zero min level",
			mutate:  func(c *Config) { c.Selector.MinLevel = 0 },
			wantMsg: "selector.min_level",
		},
		{
			name:    "max level below min level",
			mutate:  func(c *Config) { c.Selector.MaxLevel = 0 },
			wantMsg: "selector.max_level",
		},
		{
			name:    "zero alpha",
			mutate:  func(c *Config) { c.Selector.AlphaStart = 0 },
			wantMsg: "alpha bounds",
		},
		{
			name:    "negative beta",
			mutate:  func(c *Config) { c.Selector.BetaEnd = -0.5 },
			wantMsg: "beta bounds",
		},
		{
			name:    "grid resolution below two",
			mutate:  func(c *Config) { c.Confidence.GridResolution = 1 },
			wantMsg: "confidence.grid_resolution",
		},
		{
			name:    "zero coverage radius",
			mutate:  func(c *Config) { c.Confidence.CoverageRadius = 0 },
			wantMsg: "confidence.coverage_radius",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Confidence.Threshold = 2 },
			wantMsg: "confidence.threshold",
		},
		{
			name:    "zero min questions",
			mutate:  func(c *Config) { c.Confidence.MinQuestions = 0 },
			wantMsg: "confidence.min_questions",
		},
		{
			name:    "zero percentile",
			mutate:  func(c *Config) { c.Ranker.Percentile = 0 },
			wantMsg: "ranker.percentile",
		},
		{
			name:    "zero min anchors",
			mutate:  func(c *Config) { c.Ranker.MinAnchors = 0 },
			wantMsg: "ranker.min_anchors",
		},
		{
			name:    "penalty of one",
			mutate:  func(c *Config) { c.Ranker.Penalty = 1 },
			wantMsg: "ranker.penalty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want message containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	clone := orig.Clone()

	clone.Field.LengthScale = 0.99
	clone.Selector.MaxLevel = 9
	clone.Ranker.Penalty = 0.01

	if orig.Field.LengthScale == 0.99 {
		t.Error("mutating clone changed original Field.LengthScale")
	}
	if orig.Selector.MaxLevel == 9 {
		t.Error("mutating clone changed original Selector.MaxLevel")
	}
	if orig.Ranker.Penalty == 0.01 {
		t.Error("mutating clone changed original Ranker.Penalty")
	}
}
