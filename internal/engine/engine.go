// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mathesis/internal/catalog"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// defaultSeed replaces a zero seed so a zero-value config still selects
// deterministically.
const defaultSeed = 42

// gridResolution bounds for EstimateGrid requests.
const (
	defaultGridResolution = 20
	maxGridResolution     = 100
)

// Engine estimates a learner's mastery over the knowledge plane and drives
// question selection for one assessment session. It owns the observation
// log, the derived knowledge field, the explore/exploit selector, the
// confidence tracker and the trajectory ranker.
//
// An Engine is not safe for concurrent use. Callers serialize access; the
// session manager does so with one lock per session.
type Engine struct {
	cfg     *Config
	logger  zerolog.Logger
	catalog *catalog.Catalog

	log     *ObservationLog
	sel     *selector
	tracker *confidenceTracker
	ranker  *ranker

	// field is the cached derivation of the log, rebuilt lazily when the
	// log has grown since fieldLen.
	field    *Field
	fieldLen int
}

// NewEngine creates an engine over a catalog snapshot. A nil config uses
// DefaultConfig. The catalog pointer is retained for the engine's lifetime;
// hot reloads swap catalogs for new sessions, never under a running one.
func NewEngine(cat *catalog.Catalog, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Selector.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic selection, not cryptographic

	return &Engine{
		cfg:     cfg,
		logger:  logger.With().Str("component", "engine").Logger(),
		catalog: cat,
		log:     NewObservationLog(),
		sel:     newSelector(cfg.Selector, rng),
		tracker: newConfidenceTracker(cfg.Confidence),
		ranker:  newRanker(cfg.Ranker),
	}, nil
}

// Record stores the learner's response to a probe and updates the level
// state. Invalid input is rejected whole: nothing is stored, nothing is
// clamped. The returned observation is what was appended, suitable for
// journaling and replay.
func (e *Engine) Record(itemID string, outcome float64, skipped bool) (Observation, error) {
	it, ok := e.catalog.Item(itemID)
	if !ok {
		metrics.RecordObservationRejected("unknown_item")
		return Observation{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if it.Kind != catalog.KindProbe {
		metrics.RecordObservationRejected("not_probe")
		return Observation{}, fmt.Errorf("%w: item %q is a %s, not a probe", ErrInvalidObservation, itemID, it.Kind)
	}

	o := newObservation(it, outcome, skipped, e.cfg.Weights)
	if err := validateObservation(o); err != nil {
		metrics.RecordObservationRejected("invalid")
		return Observation{}, err
	}

	e.log.Append(o)
	delta := e.sel.markAnswered(it.ID, it.Position(), o.Outcome, it.DifficultyLevel)

	metrics.RecordObservation(skipped)
	if delta != 0 {
		metrics.RecordLevelChange(delta > 0)
		e.logger.Info().
			Str("item_id", itemID).
			Int("level", e.sel.level).
			Int("delta", delta).
			Msg("Difficulty level changed")
	}
	e.logger.Debug().
		Str("item_id", itemID).
		Float64("outcome", o.Outcome).
		Bool("skipped", skipped).
		Int("observations", e.log.Len()).
		Msg("Observation recorded")

	return o, nil
}

// Restore replays a journaled observation through the same bookkeeping as
// a live answer, without re-deriving weights or timestamps. Replaying a
// session's observations in order reproduces its phase, level and stats.
func (e *Engine) Restore(o Observation) error {
	if err := validateObservation(o); err != nil {
		return err
	}
	e.log.Append(o)
	e.sel.restore(o)
	return nil
}

// SelectNext picks the next probe to offer, optionally restricted to one
// domain. Returns nil when no suitable probe remains; an exhausted catalog
// is an outcome, not an error.
func (e *Engine) SelectNext(domain string) *catalog.Item {
	start := time.Now()

	f := e.currentField()
	overall := e.tracker.report(f, e.sel.askedIndex, e.sel.answered()).Overall

	phaseBefore := e.sel.currentPhase()
	it := e.sel.selectNext(e.catalog, f, overall, domain)
	if phase := e.sel.currentPhase(); phase != phaseBefore {
		metrics.RecordPhaseTransition()
		e.logger.Info().
			Str("from", phaseBefore.String()).
			Str("to", phase.String()).
			Int("selections", e.sel.selections).
			Msg("Selection phase advanced")
	}

	if it == nil {
		metrics.RecordCatalogExhausted()
		e.logger.Debug().Str("domain", domain).Msg("No offerable probe remains")
		return nil
	}

	metrics.RecordSelection(phaseBefore.String(), time.Since(start))
	return it
}

// Confidence reports the current session confidence.
func (e *Engine) Confidence() Confidence {
	c := e.tracker.report(e.currentField(), e.sel.askedIndex, e.sel.answered())
	c.PerLevel = e.sel.perLevelCopy()
	return c
}

// Rank scores all trajectories in the catalog against the current field,
// best first.
func (e *Engine) Rank() []Recommendation {
	start := time.Now()
	recs := e.ranker.rank(e.currentField(), e.catalog.Trajectories())
	metrics.RecordRecommendation(time.Since(start))
	return recs
}

// EstimateAt evaluates the knowledge field at one point.
func (e *Engine) EstimateAt(p catalog.Position) Estimate {
	start := time.Now()
	est := e.currentField().EstimateAt(p)
	metrics.RecordFieldEstimate(time.Since(start))
	return est
}

// EstimateGrid evaluates the field over a res x res lattice for heat maps.
// Out-of-range resolutions are clamped, not rejected.
func (e *Engine) EstimateGrid(res int) *Grid {
	if res <= 0 {
		res = defaultGridResolution
	}
	if res > maxGridResolution {
		res = maxGridResolution
	}
	start := time.Now()
	g := e.currentField().EstimateGrid(res)
	metrics.RecordFieldEstimate(time.Since(start))
	return g
}

// State snapshots the session-visible engine state.
func (e *Engine) State() State {
	asked := make([]string, len(e.sel.asked))
	for i, a := range e.sel.asked {
		asked[i] = a.id
	}
	pending := make([]string, 0, len(e.sel.pending))
	for id := range e.sel.pending {
		pending = append(pending, id)
	}
	sort.Strings(pending)

	return State{
		Phase:          e.sel.currentPhase().String(),
		CurrentLevel:   e.sel.level,
		QuestionsAsked: e.sel.answered(),
		Observations:   e.log.Len(),
		AskedIDs:       asked,
		PendingIDs:     pending,
		PerLevel:       e.sel.perLevelCopy(),
	}
}

// Observations returns the append-only observation history, oldest first.
func (e *Engine) Observations() []Observation {
	return e.log.Snapshot()
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// currentField returns the field derived from the current log, rebuilding
// only when the log has grown.
func (e *Engine) currentField() *Field {
	if e.field == nil || e.fieldLen != e.log.Len() {
		e.field = newField(e.log.Snapshot(), e.cfg.Field)
		e.fieldLen = e.log.Len()
	}
	return e.field
}
