// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"math"
	"math/rand"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// correctThreshold splits an outcome into correct/incorrect for level
// accuracy. Partial credit at or above half counts as correct; skips
// (outcome 0) count as incorrect.
const correctThreshold = 0.5

// maxDistance is the unit-square diameter, used as the nearest-asked
// distance before anything has been asked.
var maxDistance = math.Sqrt2

type askedEntry struct {
	id  string
	pos catalog.Position
}

// selector owns the question selection state machine: the explore/exploit
// phase, the current difficulty level with per-level accuracy, and the
// asked/pending bookkeeping. It is exclusively owned by one engine and
// reset at session start.
type selector struct {
	cfg SelectorConfig
	rng *rand.Rand

	level      int
	stats      map[int]*LevelStats
	asked      []askedEntry
	askedSet   map[string]struct{}
	pending    map[string]struct{}
	selections int

	// askedIndex mirrors asked positions for the confidence tracker's
	// coverage queries. Candidate scoring scans the asked slice directly.
	askedIndex *catalog.SpatialIndex
}

func newSelector(cfg SelectorConfig, rng *rand.Rand) *selector {
	return &selector{
		cfg:        cfg,
		rng:        rng,
		level:      cfg.MinLevel,
		stats:      make(map[int]*LevelStats),
		askedSet:   make(map[string]struct{}),
		pending:    make(map[string]struct{}),
		askedIndex: catalog.NewSpatialIndex(0),
	}
}

// currentPhase derives the phase from the selection count. The count never
// decreases, so the explore-to-exploit transition cannot reverse, and a
// restored session lands in the same phase as the live one it replays.
func (s *selector) currentPhase() Phase {
	if s.selections >= s.cfg.ExploreQuestions {
		return PhaseExploit
	}
	return PhaseExplore
}

// selectNext picks the next probe, or nil when no suitable probe remains.
// The chosen id is marked pending so a pre-fetched round is never offered
// twice; markAnswered moves it to asked.
func (s *selector) selectNext(cat *catalog.Catalog, f *Field, overall float64, domain string) *catalog.Item {
	var it *catalog.Item
	if s.currentPhase() == PhaseExplore {
		it = s.selectExplore(cat, domain)
	} else {
		it = s.selectExploit(cat, f, overall, domain)
	}

	if it != nil {
		s.pending[it.ID] = struct{}{}
		s.selections++
	}
	return it
}

// selectExplore implements greedy farthest-point sampling: the unasked
// probe maximizing the minimum distance to any asked position, ties broken
// uniformly at random.
func (s *selector) selectExplore(cat *catalog.Catalog, domain string) *catalog.Item {
	var (
		best = math.Inf(-1)
		ties []*catalog.Item
	)
	for _, it := range cat.Probes() {
		if !s.offerable(it, domain) {
			continue
		}
		d := s.minDistToAsked(it.Position())
		switch {
		case d > best:
			best = d
			ties = ties[:0]
			ties = append(ties, it)
		case d == best:
			ties = append(ties, it)
		}
	}
	return s.pickTie(ties)
}

// selectExploit scores candidates at the current level (falling back to the
// adjacent levels when the current level is exhausted) by
// distance^alpha * uncertainty^beta * levelBonus, with alpha and beta
// annealed by overall confidence: coverage dominates early, uncertainty
// reduction late. Argmax with uniform random tie-break.
func (s *selector) selectExploit(cat *catalog.Catalog, f *Field, overall float64, domain string) *catalog.Item {
	cands := s.exploitCandidates(cat, domain)
	if len(cands) == 0 {
		return nil
	}

	alpha := anneal(s.cfg.AlphaStart, s.cfg.AlphaEnd, overall)
	beta := anneal(s.cfg.BetaStart, s.cfg.BetaEnd, overall)

	var (
		best = math.Inf(-1)
		ties []*catalog.Item
	)
	for _, it := range cands {
		pos := it.Position()
		d := s.minDistToAsked(pos)
		score := math.Pow(d, alpha) *
			math.Pow(f.EstimateAt(pos).Uncertainty, beta) *
			s.levelBonus(it.DifficultyLevel)
		switch {
		case score > best:
			best = score
			ties = ties[:0]
			ties = append(ties, it)
		case score == best:
			ties = append(ties, it)
		}
	}
	return s.pickTie(ties)
}

// exploitCandidates returns the offerable probes at the current level, or
// the union of the two adjacent levels when the current level has none
// left. An empty result means no suitable probe remains at this position
// in the difficulty hierarchy; remaining probes further away are not
// offered.
func (s *selector) exploitCandidates(cat *catalog.Catalog, domain string) []*catalog.Item {
	atLevel := s.offerableAtLevel(cat, s.level, domain)
	if len(atLevel) > 0 {
		return atLevel
	}
	adjacent := s.offerableAtLevel(cat, s.level-1, domain)
	return append(adjacent, s.offerableAtLevel(cat, s.level+1, domain)...)
}

func (s *selector) offerableAtLevel(cat *catalog.Catalog, level int, domain string) []*catalog.Item {
	if level < s.cfg.MinLevel || level > s.cfg.MaxLevel {
		return nil
	}
	var out []*catalog.Item
	for _, it := range cat.ProbesAtLevel(level) {
		if s.offerable(it, domain) {
			out = append(out, it)
		}
	}
	return out
}

// offerable reports whether a probe can still be offered: neither asked nor
// pending, and matching the domain filter when one is set.
func (s *selector) offerable(it *catalog.Item, domain string) bool {
	if _, asked := s.askedSet[it.ID]; asked {
		return false
	}
	if _, pending := s.pending[it.ID]; pending {
		return false
	}
	return domain == "" || it.DomainTag == domain
}

// minDistToAsked is the distance from p to the nearest asked position, a
// plain scan over the session's asked set.
func (s *selector) minDistToAsked(p catalog.Position) float64 {
	if len(s.asked) == 0 {
		return maxDistance
	}
	best := math.Inf(1)
	for i := range s.asked {
		if d := p.DistanceTo(s.asked[i].pos); d < best {
			best = d
		}
	}
	return best
}

// levelBonus weights exploit candidates by level distance: full at the
// current level, half adjacent, zero further away.
func (s *selector) levelBonus(level int) float64 {
	switch delta := abs(level - s.level); delta {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0
	}
}

// pickTie picks uniformly at random among the tied best candidates.
func (s *selector) pickTie(ties []*catalog.Item) *catalog.Item {
	switch len(ties) {
	case 0:
		return nil
	case 1:
		return ties[0]
	default:
		return ties[s.rng.Intn(len(ties))]
	}
}

// markAnswered moves an item from pending to asked and updates the level
// stats and current level. Returns the level delta (-1, 0 or +1).
// Re-recording an already-asked item updates stats without duplicating the
// asked set.
func (s *selector) markAnswered(id string, pos catalog.Position, outcome float64, level int) int {
	delete(s.pending, id)
	if _, seen := s.askedSet[id]; !seen {
		s.askedSet[id] = struct{}{}
		s.asked = append(s.asked, askedEntry{id: id, pos: pos})
		s.askedIndex.Insert(id, pos)
	}

	st := s.stats[level]
	if st == nil {
		st = &LevelStats{}
		s.stats[level] = st
	}
	st.Total++
	if outcome >= correctThreshold {
		st.Correct++
	}

	return s.progressLevel()
}

// restore replays a journaled observation through the same bookkeeping as a
// live answer, counting it as a past selection so the explore/exploit phase
// resumes where the session left off.
func (s *selector) restore(o Observation) {
	s.selections++
	s.markAnswered(o.ItemID, o.Position, o.Outcome, o.DifficultyLevel)
}

// progressLevel applies the level progression rule at the current level:
// with enough responses, accuracy at or above the progression threshold
// moves up one level, accuracy below the regression threshold moves down
// one, both clamped to the configured range.
func (s *selector) progressLevel() int {
	st := s.stats[s.level]
	if st == nil || st.Total < s.cfg.MinQuestionsPerLevel {
		return 0
	}
	acc := st.Accuracy()
	switch {
	case acc >= s.cfg.ProgressionThreshold && s.level < s.cfg.MaxLevel:
		s.level++
		return 1
	case acc < s.cfg.RegressionThreshold && s.level > s.cfg.MinLevel:
		s.level--
		return -1
	default:
		return 0
	}
}

// answered is the number of distinct questions answered this session.
func (s *selector) answered() int {
	return len(s.asked)
}

// perLevelCopy returns a value copy of the per-level stats.
func (s *selector) perLevelCopy() map[int]LevelStats {
	out := make(map[int]LevelStats, len(s.stats))
	for level, st := range s.stats {
		out[level] = *st
	}
	return out
}

// anneal interpolates linearly from start to end as confidence goes 0 to 1.
func anneal(start, end, confidence float64) float64 {
	c := confidence
	if c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}
	return start + (end-start)*c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
