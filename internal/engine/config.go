// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import "fmt"

// Config contains all tunables for one engine instance. Invalid values are
// rejected at construction, never silently corrected at runtime.
type Config struct {
	// Field contains the knowledge field estimator parameters.
	Field FieldConfig `json:"field"`

	// Weights contains the evidentiary weights per response kind.
	Weights WeightsConfig `json:"weights"`

	// Selector contains the question selection and level progression
	// parameters.
	Selector SelectorConfig `json:"selector"`

	// Confidence contains the session confidence parameters.
	Confidence ConfidenceConfig `json:"confidence"`

	// Ranker contains the recommendation ranking parameters.
	Ranker RankerConfig `json:"ranker"`
}

// FieldConfig contains parameters for the kernel-weighted mastery estimator.
type FieldConfig struct {
	// KNearest is the minimum number of observations consulted per query
	// when fewer lie within the kernel support radius.
	// Default: 8.
	KNearest int `json:"k_nearest"`

	// LengthScale is the Gaussian kernel length scale L. Observations
	// within 3L of the query point all contribute.
	// Default: 0.18.
	LengthScale float64 `json:"length_scale"`

	// CalibrationC0 is the pseudo-weight of the neutral prior. Local data
	// confidence is sum(w)/(sum(w)+c0); larger values demand more evidence
	// before uncertainty drops.
	// Default: 1.0.
	CalibrationC0 float64 `json:"calibration_c0"`

	// DifficultySlope scales evidence by difficulty: an observation at
	// level l carries factor 1+slope*(l-1). Zero disables the scaling.
	// Default: 0.25.
	DifficultySlope float64 `json:"difficulty_slope"`
}

// WeightsConfig contains the evidentiary weight per response kind.
type WeightsConfig struct {
	// Answer is the weight of a definite answer.
	// Default: 1.0.
	Answer float64 `json:"answer"`

	// Skip is the weight of an explicit "skip / don't know" response:
	// weak evidence of non-mastery, kept well below Answer so a skip
	// never outweighs a real response but is never free either.
	// Default: 0.1.
	Skip float64 `json:"skip"`
}

// SelectorConfig contains question selection and level progression
// parameters.
type SelectorConfig struct {
	// ExploreQuestions is how many initial selections use farthest-point
	// exploration before the selector switches to exploitation.
	// Default: 2.
	ExploreQuestions int `json:"explore_questions"`

	// MinQuestionsPerLevel is the minimum number of responses at the
	// current level before accuracy can trigger a level change.
	// Default: 3.
	MinQuestionsPerLevel int `json:"min_questions_per_level"`

	// ProgressionThreshold is the accuracy at or above which the level
	// increases. Default: 0.70.
	ProgressionThreshold float64 `json:"progression_threshold"`

	// RegressionThreshold is the accuracy below which the level
	// decreases. Default: 0.40.
	RegressionThreshold float64 `json:"regression_threshold"`

	// MinLevel and MaxLevel bound the difficulty level. Sessions start
	// at MinLevel. Defaults: 1 and 5.
	MinLevel int `json:"min_level"`
	MaxLevel int `json:"max_level"`

	// AlphaStart and AlphaEnd bound the distance exponent in the exploit
	// score. Alpha anneals from Start to End as overall confidence grows,
	// so spatial coverage dominates early selections.
	// Defaults: 2.0 and 0.5.
	AlphaStart float64 `json:"alpha_start"`
	AlphaEnd   float64 `json:"alpha_end"`

	// BetaStart and BetaEnd bound the uncertainty exponent in the exploit
	// score. Beta anneals from Start to End as overall confidence grows,
	// so uncertainty reduction dominates late selections.
	// Defaults: 0.5 and 2.0.
	BetaStart float64 `json:"beta_start"`
	BetaEnd   float64 `json:"beta_end"`

	// Seed seeds the tie-break random source. Zero selects the fixed
	// default seed; selection is deterministic given a seed.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// ConfidenceConfig contains session confidence parameters.
type ConfidenceConfig struct {
	// GridResolution is the side length of the fixed reference grid the
	// confidence components are evaluated on. Independent of catalog
	// size. Default: 10.
	GridResolution int `json:"grid_resolution"`

	// CoverageRadius is the distance within which a reference grid point
	// counts as covered by an asked position.
	// Default: 0.15.
	CoverageRadius float64 `json:"coverage_radius"`

	// Threshold is the overall confidence at or above which the session
	// may stop early. Default: 0.85.
	Threshold float64 `json:"threshold"`

	// MinQuestions is the minimum number of answered questions before
	// early exit is allowed. Default: 3.
	MinQuestions int `json:"min_questions"`
}

// RankerConfig contains recommendation ranking parameters.
type RankerConfig struct {
	// Percentile is the per-item aggregation point over per-anchor gains,
	// in (0,1]. Length-normalized so anchor count alone never wins.
	// Default: 0.75.
	Percentile float64 `json:"percentile"`

	// MinAnchors is the anchor count below which an item's score is
	// penalized. Default: 3.
	MinAnchors int `json:"min_anchors"`

	// Penalty is the multiplicative factor, strictly below 1, applied to
	// items with fewer than MinAnchors anchors.
	// Default: 0.5.
	Penalty float64 `json:"penalty"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			KNearest:        8,
			LengthScale:     0.18,
			CalibrationC0:   1.0,
			DifficultySlope: 0.25,
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
			AlphaStart:           2.0,
			AlphaEnd:             0.5,
			BetaStart:            0.5,
			BetaEnd:              2.0,
			Seed:                 42,
		},
		Confidence: ConfidenceConfig{
			GridResolution: 10,
			CoverageRadius: 0.15,
			Threshold:      0.85,
			MinQuestions:   3,
		},
		Ranker: RankerConfig{
			Percentile: 0.75,
			MinAnchors: 3,
			Penalty:    0.5,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Field.KNearest < 1 {
		return fmt.Errorf("field.k_nearest must be positive, got %d", c.Field.KNearest)
	}
	if c.Field.LengthScale <= 0 {
		return fmt.Errorf("field.length_scale must be positive, got %f", c.Field.LengthScale)
	}
	if c.Field.CalibrationC0 <= 0 {
		return fmt.Errorf("field.calibration_c0 must be positive, got %f", c.Field.CalibrationC0)
	}
	if c.Field.DifficultySlope < 0 {
		return fmt.Errorf("field.difficulty_slope must be non-negative, got %f", c.Field.DifficultySlope)
	}

	if c.Weights.Answer <= 0 || c.Weights.Answer > 1 {
		return fmt.Errorf("weights.answer must be in (0, 1], got %f", c.Weights.Answer)
	}
	if c.Weights.Skip <= 0 {
		return fmt.Errorf("weights.skip must be positive, got %f", c.Weights.Skip)
	}
	if c.Weights.Skip >= c.Weights.Answer {
		return fmt.Errorf("weights.skip must be below weights.answer, got %f >= %f", c.Weights.Skip, c.Weights.Answer)
	}

	if c.Selector.ExploreQuestions < 0 {
		return fmt.Errorf("selector.explore_questions must be non-negative, got %d", c.Selector.ExploreQuestions)
	}
	if c.Selector.MinQuestionsPerLevel < 1 {
		return fmt.Errorf("selector.min_questions_per_level must be positive, got %d", c.Selector.MinQuestionsPerLevel)
	}
	if c.Selector.ProgressionThreshold < 0 || c.Selector.ProgressionThreshold > 1 {
		return fmt.Errorf("selector.progression_threshold must be in [0, 1], got %f", c.Selector.ProgressionThreshold)
	}
	if c.Selector.RegressionThreshold < 0 || c.Selector.RegressionThreshold > 1 {
		return fmt.Errorf("selector.regression_threshold must be in [0, 1], got %f", c.Selector.RegressionThreshold)
	}
	if c.Selector.RegressionThreshold >= c.Selector.ProgressionThreshold {
		return fmt.Errorf("selector.regression_threshold must be below progression_threshold, got %f >= %f",
			c.Selector.RegressionThreshold, c.Selector.ProgressionThreshold)
	}
	if c.Selector.MinLevel < 1 {
		return fmt.Errorf("selector.min_level must be positive, got %d", c.Selector.MinLevel)
	}
	if c.Selector.MaxLevel < c.Selector.MinLevel {
		return fmt.Errorf("selector.max_level must be >= selector.min_level, got %d < %d",
			c.Selector.MaxLevel, c.Selector.MinLevel)
	}
	if c.Selector.AlphaStart <= 0 || c.Selector.AlphaEnd <= 0 {
		return fmt.Errorf("selector alpha bounds must be positive, got %f and %f",
			c.Selector.AlphaStart, c.Selector.AlphaEnd)
	}
	if c.Selector.BetaStart <= 0 || c.Selector.BetaEnd <= 0 {
		return fmt.Errorf("selector beta bounds must be positive, got %f and %f",
			c.Selector.BetaStart, c.Selector.BetaEnd)
	}

	if c.Confidence.GridResolution < 2 {
		return fmt.Errorf("confidence.grid_resolution must be at least 2, got %d", c.Confidence.GridResolution)
	}
	if c.Confidence.CoverageRadius <= 0 {
		return fmt.Errorf("confidence.coverage_radius must be positive, got %f", c.Confidence.CoverageRadius)
	}
	if c.Confidence.Threshold < 0 || c.Confidence.Threshold > 1 {
		return fmt.Errorf("confidence.threshold must be in [0, 1], got %f", c.Confidence.Threshold)
	}
	if c.Confidence.MinQuestions < 1 {
		return fmt.Errorf("confidence.min_questions must be positive, got %d", c.Confidence.MinQuestions)
	}

	if c.Ranker.Percentile <= 0 || c.Ranker.Percentile > 1 {
		return fmt.Errorf("ranker.percentile must be in (0, 1], got %f", c.Ranker.Percentile)
	}
	if c.Ranker.MinAnchors < 1 {
		return fmt.Errorf("ranker.min_anchors must be positive, got %d", c.Ranker.MinAnchors)
	}
	if c.Ranker.Penalty <= 0 || c.Ranker.Penalty >= 1 {
		return fmt.Errorf("ranker.penalty must be in (0, 1), got %f", c.Ranker.Penalty)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested sections contain only value types
	return &Config{
		Field:      c.Field,
		Weights:    c.Weights,
		Selector:   c.Selector,
		Confidence: c.Confidence,
		Ranker:     c.Ranker,
	}
}
