// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"math"
	"sort"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// ranker scores trajectories by expected learning gain. Per anchor the
// gain is uncertainty * (1 - mean): high where the field knows little and
// mastery looks low, near zero where mastery is established. An item's
// score is an upper percentile of its anchor gains, so one hot anchor among
// many cold ones does not carry the item.
type ranker struct {
	cfg RankerConfig
}

func newRanker(cfg RankerConfig) *ranker {
	return &ranker{cfg: cfg}
}

// rank scores every item and returns them sorted by descending score, ties
// by ascending item id. The ordering is deterministic for a given field.
func (r *ranker) rank(f *Field, items []*catalog.Item) []Recommendation {
	recs := make([]Recommendation, 0, len(items))
	for _, it := range items {
		recs = append(recs, r.score(f, it))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
	return recs
}

// score computes one item's recommendation. Items with fewer anchors than
// MinAnchors are still scored but penalized: sparse anchoring means the
// percentile is a weak summary of where the item actually operates.
func (r *ranker) score(f *Field, it *catalog.Item) Recommendation {
	gains := make([]float64, len(it.Positions))
	bestGain := math.Inf(-1)
	bestAnchor := 0
	for i, p := range it.Positions {
		est := f.EstimateAt(p)
		gains[i] = est.Uncertainty * (1 - est.Mean)
		if gains[i] > bestGain {
			bestGain = gains[i]
			bestAnchor = i
		}
	}

	score := percentile(gains, r.cfg.Percentile)
	if len(it.Positions) < r.cfg.MinAnchors {
		score *= r.cfg.Penalty
	}

	return Recommendation{ItemID: it.ID, Score: score, BestAnchor: it.Positions[bestAnchor]}
}

// percentile is the p-th percentile of vs with linear interpolation between
// ranks, the same convention numpy's default uses.
func percentile(vs []float64, p float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
