// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomtom215/mathesis/internal/catalog"
)

func probeItem(id string, x, y float64, level int, domain string) *catalog.Item {
	return &catalog.Item{
		ID:              id,
		Kind:            catalog.KindProbe,
		Positions:       []catalog.Position{{X: x, Y: y}},
		DifficultyLevel: level,
		DomainTag:       domain,
	}
}

func trajectoryItem(id string, anchors ...catalog.Position) *catalog.Item {
	return &catalog.Item{ID: id, Kind: catalog.KindTrajectory, Positions: anchors}
}

func mustCatalog(t *testing.T, items ...*catalog.Item) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func newTestSelector(cfg SelectorConfig) *selector {
	return newSelector(cfg, rand.New(rand.NewSource(7)))
}

// --- Test: phase machine ---

func TestSelectorStartsExploringAtMinLevel(t *testing.T) {
	t.Parallel()

	s := newTestSelector(DefaultConfig().Selector)

	if s.currentPhase() != PhaseExplore {
		t.Errorf("phase = %v, want %v", s.currentPhase(), PhaseExplore)
	}
	if s.level != DefaultConfig().Selector.MinLevel {
		t.Errorf("level = %d, want %d", s.level, DefaultConfig().Selector.MinLevel)
	}
}

func TestSelectorPhaseTransitionIsOneWay(t *testing.T) {
	t.Parallel()

	var items []*catalog.Item
	for i := 0; i < 9; i++ {
		x := 0.17 + 0.33*float64(i%3)
		y := 0.17 + 0.33*float64(i/3)
		items = append(items, probeItem(itemID(i), x, y, 1, ""))
	}
	cat := mustCatalog(t, items...)

	s := newTestSelector(DefaultConfig().Selector)
	f := fieldWith()

	for i := 0; i < 9; i++ {
		it := s.selectNext(cat, f, 0, "")
		if it == nil {
			t.Fatalf("selection %d: got nil with probes remaining", i)
		}

		// selections is i+1 after the pick, so the phase reads exploit
		// from the second pick onward.
		wantPhase := PhaseExplore
		if i+1 >= DefaultConfig().Selector.ExploreQuestions {
			wantPhase = PhaseExploit
		}
		if s.currentPhase() != wantPhase {
			t.Fatalf("selection %d: phase = %v, want %v", i, s.currentPhase(), wantPhase)
		}

		// Failing everything keeps pressure on the phase machine: the
		// transition must never reverse.
		s.markAnswered(it.ID, it.Position(), 0, it.DifficultyLevel)
	}

	if it := s.selectNext(cat, f, 0, ""); it != nil {
		t.Errorf("exhausted selectNext = %v, want nil", it.ID)
	}
	if s.currentPhase() != PhaseExploit {
		t.Errorf("phase after exhaustion = %v, want %v", s.currentPhase(), PhaseExploit)
	}
}

func itemID(i int) string {
	return string(rune('a'+i)) + "-probe"
}

// --- Test: explore selection ---

func TestSelectorExplorePicksFarthestPoint(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("p00", 0, 0, 1, ""),
		probeItem("p10", 1, 0, 1, ""),
		probeItem("p01", 0, 1, 1, ""),
		probeItem("p11", 1, 1, 1, ""),
		probeItem("pc", 0.5, 0.5, 1, ""),
	)

	s := newTestSelector(DefaultConfig().Selector)
	s.markAnswered("p00", catalog.Position{X: 0, Y: 0}, 1, 1)

	it := s.selectExplore(cat, "")
	if it == nil || it.ID != "p11" {
		t.Fatalf("selectExplore = %v, want p11 (the opposite corner)", it)
	}
}

func TestSelectorExploreIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	var items []*catalog.Item
	for i := 0; i < 6; i++ {
		items = append(items, probeItem(itemID(i), 0.15*float64(i)+0.1, 0.5, 1, ""))
	}
	cat := mustCatalog(t, items...)

	run := func() []string {
		s := newSelector(DefaultConfig().Selector, rand.New(rand.NewSource(99)))
		var picks []string
		for {
			it := s.selectNext(cat, fieldWith(), 0, "")
			if it == nil {
				return picks
			}
			picks = append(picks, it.ID)
			s.markAnswered(it.ID, it.Position(), 1, it.DifficultyLevel)
		}
	}

	first := run()
	second := run()
	if len(first) != len(items) {
		t.Fatalf("picked %d items, want %d", len(first), len(items))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pick %d differs between identical runs: %q vs %q", i, first[i], second[i])
		}
	}
}

// --- Test: level progression ---

func TestSelectorLevelProgression(t *testing.T) {
	t.Parallel()

	s := newTestSelector(DefaultConfig().Selector)
	pos := catalog.Position{X: 0.5, Y: 0.5}

	steps := []struct {
		outcome   float64
		level     int // the answered item's level
		wantDelta int
		wantLevel int
	}{
		{1, 1, 0, 1}, // too few responses to judge
		{1, 1, 0, 1},
		{1, 1, 1, 2}, // 3/3 at level 1: move up
		{0, 2, 0, 2},
		{0, 2, 0, 2},
		{0, 2, -1, 1}, // 0/3 at level 2: move back down
	}

	for i, st := range steps {
		delta := s.markAnswered(itemID(i), pos, st.outcome, st.level)
		if delta != st.wantDelta {
			t.Fatalf("step %d: delta = %d, want %d", i, delta, st.wantDelta)
		}
		if s.level != st.wantLevel {
			t.Fatalf("step %d: level = %d, want %d", i, s.level, st.wantLevel)
		}
	}

	stats := s.perLevelCopy()
	if stats[1] != (LevelStats{Correct: 3, Total: 3}) {
		t.Errorf("level 1 stats = %+v, want 3/3", stats[1])
	}
	if stats[2] != (LevelStats{Correct: 0, Total: 3}) {
		t.Errorf("level 2 stats = %+v, want 0/3", stats[2])
	}
}

func TestSelectorLevelClampedAtBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Selector
	cfg.MaxLevel = 1
	s := newTestSelector(cfg)
	pos := catalog.Position{X: 0.5, Y: 0.5}

	for i := 0; i < 5; i++ {
		if delta := s.markAnswered(itemID(i), pos, 1, 1); delta != 0 {
			t.Fatalf("answer %d: delta = %d, want 0 (clamped at max)", i, delta)
		}
	}
	if s.level != 1 {
		t.Errorf("level = %d, want 1", s.level)
	}

	s2 := newTestSelector(DefaultConfig().Selector)
	for i := 0; i < 5; i++ {
		if delta := s2.markAnswered(itemID(i), pos, 0, 1); delta != 0 {
			t.Fatalf("answer %d: delta = %d, want 0 (clamped at min)", i, delta)
		}
	}
	if s2.level != 1 {
		t.Errorf("level = %d, want 1", s2.level)
	}
}

func TestSelectorSkipsCountAgainstAccuracy(t *testing.T) {
	t.Parallel()

	s := newTestSelector(DefaultConfig().Selector)
	pos := catalog.Position{X: 0.5, Y: 0.5}

	// Two correct answers plus a skip: 2/3 is below the progression
	// threshold, so the skip holds the learner at level 1.
	s.markAnswered("a", pos, 1, 1)
	s.markAnswered("b", pos, 1, 1)
	if delta := s.markAnswered("c", pos, 0, 1); delta != 0 {
		t.Fatalf("delta after skip = %d, want 0", delta)
	}
	if s.level != 1 {
		t.Fatalf("level = %d, want 1", s.level)
	}

	// A third correct answer lifts accuracy to 3/4 and unlocks the move.
	if delta := s.markAnswered("d", pos, 1, 1); delta != 1 {
		t.Fatalf("delta = %d, want 1", delta)
	}
	if s.level != 2 {
		t.Errorf("level = %d, want 2", s.level)
	}
}

// --- Test: exploit selection ---

func TestSelectorExploitTargetsUncertainDistantRegions(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("asked", 0.1, 0.1, 1, ""),
		probeItem("near", 0.2, 0.1, 1, ""),
		probeItem("far", 0.9, 0.9, 1, ""),
	)

	s := newTestSelector(DefaultConfig().Selector)
	s.markAnswered("asked", catalog.Position{X: 0.1, Y: 0.1}, 1, 1)
	f := fieldWith(obsAt(0.1, 0.1, 1.0))

	it := s.selectExploit(cat, f, 0, "")
	if it == nil || it.ID != "far" {
		t.Fatalf("selectExploit = %v, want far (distant and uncertain)", it)
	}
}

func TestSelectorExploitAnnealsFromCoverageToUncertainty(t *testing.T) {
	t.Parallel()

	// "near" sits next to the asked position in unexplored space: small
	// distance, high uncertainty. "far" sits across the plane in a
	// well-observed cluster: large distance, low uncertainty. Early
	// weighting (low confidence) favors distance; late weighting favors
	// uncertainty.
	cat := mustCatalog(t,
		probeItem("asked", 0.2, 0.2, 1, ""),
		probeItem("near", 0.3, 0.2, 1, ""),
		probeItem("far", 0.85, 0.9, 1, ""),
	)

	var obs []Observation
	for i := 0; i < 10; i++ {
		obs = append(obs, obsAt(0.9, 0.9, 1.0))
	}
	f := fieldWith(obs...)

	s := newTestSelector(DefaultConfig().Selector)
	s.markAnswered("asked", catalog.Position{X: 0.2, Y: 0.2}, 1, 1)

	if it := s.selectExploit(cat, f, 0, ""); it == nil || it.ID != "far" {
		t.Errorf("at zero confidence: selectExploit = %v, want far", it)
	}
	if it := s.selectExploit(cat, f, 1, ""); it == nil || it.ID != "near" {
		t.Errorf("at full confidence: selectExploit = %v, want near", it)
	}
}

func TestSelectorExploitFallsBackOneLevelOnly(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("l1", 0.2, 0.2, 1, ""),
		probeItem("l2", 0.5, 0.5, 2, ""),
		probeItem("l3", 0.8, 0.8, 3, ""),
	)

	s := newTestSelector(DefaultConfig().Selector)
	s.markAnswered("l1", catalog.Position{X: 0.2, Y: 0.2}, 1, 1)

	// Level 1 is exhausted; the adjacent level 2 probe is next.
	it := s.selectExploit(cat, fieldWith(), 0, "")
	if it == nil || it.ID != "l2" {
		t.Fatalf("selectExploit = %v, want l2", it)
	}
	s.markAnswered("l2", catalog.Position{X: 0.5, Y: 0.5}, 1, 2)

	// Levels 1 and 2 are exhausted and level 3 is two steps from the
	// current level: nothing suitable remains.
	if it := s.selectExploit(cat, fieldWith(), 0, ""); it != nil {
		t.Errorf("selectExploit = %v, want nil (level 3 is out of reach)", it.ID)
	}
}

func TestSelectorLevelBonus(t *testing.T) {
	t.Parallel()

	s := newTestSelector(DefaultConfig().Selector)
	s.level = 3

	tests := []struct {
		level int
		want  float64
	}{
		{3, 1.0},
		{2, 0.5},
		{4, 0.5},
		{1, 0},
		{5, 0},
	}
	for _, tt := range tests {
		if got := s.levelBonus(tt.level); got != tt.want {
			t.Errorf("levelBonus(%d) at level 3 = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// --- Test: bookkeeping ---

func TestSelectorPendingIsNeverReoffered(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("a", 0.1, 0.1, 1, ""),
		probeItem("b", 0.5, 0.5, 1, ""),
		probeItem("c", 0.9, 0.9, 1, ""),
	)

	s := newTestSelector(DefaultConfig().Selector)
	f := fieldWith()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		it := s.selectNext(cat, f, 0, "")
		if it == nil {
			t.Fatalf("selection %d: got nil", i)
		}
		if seen[it.ID] {
			t.Fatalf("selection %d: %q offered twice", i, it.ID)
		}
		seen[it.ID] = true
	}
	if it := s.selectNext(cat, f, 0, ""); it != nil {
		t.Fatalf("all pending, selectNext = %v, want nil", it.ID)
	}

	// Answering moves an item from pending to asked; the two sets stay
	// disjoint.
	s.markAnswered("a", catalog.Position{X: 0.1, Y: 0.1}, 1, 1)
	if _, ok := s.pending["a"]; ok {
		t.Error("answered item still pending")
	}
	for id := range s.pending {
		if _, ok := s.askedSet[id]; ok {
			t.Errorf("%q is both pending and asked", id)
		}
	}
}

func TestSelectorRepeatAnswerDoesNotDuplicateAsked(t *testing.T) {
	t.Parallel()

	s := newTestSelector(DefaultConfig().Selector)
	pos := catalog.Position{X: 0.4, Y: 0.6}

	s.markAnswered("a", pos, 1, 1)
	s.markAnswered("a", pos, 0, 1)

	if got := s.answered(); got != 1 {
		t.Errorf("answered() = %d, want 1 (same item twice)", got)
	}
	if got := s.perLevelCopy()[1]; got != (LevelStats{Correct: 1, Total: 2}) {
		t.Errorf("level 1 stats = %+v, want 1/2 (both responses count)", got)
	}
	if got := s.askedIndex.Size(); got != 1 {
		t.Errorf("asked index size = %d, want 1", got)
	}
}

func TestSelectorDomainFilter(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("a1", 0.1, 0.1, 1, "algebra"),
		probeItem("a2", 0.9, 0.9, 1, "algebra"),
		probeItem("g1", 0.5, 0.5, 1, "geometry"),
	)

	s := newTestSelector(DefaultConfig().Selector)
	f := fieldWith()

	for i := 0; i < 2; i++ {
		it := s.selectNext(cat, f, 0, "algebra")
		if it == nil {
			t.Fatalf("selection %d: got nil with algebra probes remaining", i)
		}
		if it.DomainTag != "algebra" {
			t.Fatalf("selection %d: domain = %q, want algebra", i, it.DomainTag)
		}
	}

	if it := s.selectNext(cat, f, 0, "algebra"); it != nil {
		t.Errorf("algebra exhausted, selectNext = %v, want nil", it.ID)
	}
	if it := s.selectNext(cat, f, 0, ""); it == nil || it.DomainTag != "geometry" {
		t.Errorf("unfiltered selectNext = %v, want the geometry probe", it)
	}
}

// --- Test: sparse corners ---

// Four answered probes at the corners leave the interior unobserved; the
// estimate there must stay near the prior with high uncertainty, and
// selection must keep producing the remaining interior probe rather than
// failing.
func TestSelectorFourCornersThenInterior(t *testing.T) {
	t.Parallel()

	cat := mustCatalog(t,
		probeItem("c00", 0, 0, 1, ""),
		probeItem("c10", 1, 0, 1, ""),
		probeItem("c01", 0, 1, 1, ""),
		probeItem("c11", 1, 1, 1, ""),
		probeItem("mid", 0.5, 0.5, 2, ""),
	)

	s := newTestSelector(DefaultConfig().Selector)
	corners := []Observation{
		{ItemID: "c00", Position: catalog.Position{X: 0, Y: 0}, Outcome: 1, Weight: 1, DifficultyLevel: 1},
		{ItemID: "c10", Position: catalog.Position{X: 1, Y: 0}, Outcome: 1, Weight: 1, DifficultyLevel: 1},
		{ItemID: "c01", Position: catalog.Position{X: 0, Y: 1}, Outcome: 1, Weight: 1, DifficultyLevel: 1},
		{ItemID: "c11", Position: catalog.Position{X: 1, Y: 1}, Outcome: 1, Weight: 1, DifficultyLevel: 1},
	}
	for _, o := range corners {
		s.restore(o)
	}

	if s.level != 2 {
		t.Fatalf("level after four correct corner answers = %d, want 2", s.level)
	}

	f := fieldWith(corners...)
	est := f.EstimateAt(catalog.Position{X: 0.5, Y: 0.5})
	if math.Abs(est.Mean-0.5) > 2e-3 {
		t.Errorf("interior Mean = %v, want within 2e-3 of the prior", est.Mean)
	}
	if est.Uncertainty < 0.99 {
		t.Errorf("interior Uncertainty = %v, want > 0.99", est.Uncertainty)
	}

	it := s.selectNext(cat, f, 0, "")
	if it == nil || it.ID != "mid" {
		t.Fatalf("selectNext = %v, want mid (the only remaining probe)", it)
	}
	s.markAnswered("mid", catalog.Position{X: 0.5, Y: 0.5}, 1, 2)

	if it := s.selectNext(cat, f, 0, ""); it != nil {
		t.Errorf("exhausted selectNext = %v, want nil", it.ID)
	}
}

// --- Test: annealing ---

func TestAnneal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, end, conf float64
		want             float64
	}{
		{2.0, 0.5, 0, 2.0},
		{2.0, 0.5, 1, 0.5},
		{2.0, 0.5, 0.5, 1.25},
		{2.0, 0.5, -3, 2.0},
		{2.0, 0.5, 7, 0.5},
		{0.5, 2.0, 0.5, 1.25},
	}

	for _, tt := range tests {
		if got := anneal(tt.start, tt.end, tt.conf); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("anneal(%v, %v, %v) = %v, want %v", tt.start, tt.end, tt.conf, got, tt.want)
		}
	}
}
