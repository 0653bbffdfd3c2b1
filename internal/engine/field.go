// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import (
	"math"

	"github.com/tomtom215/mathesis/internal/catalog"
)

// neutralPrior is the mastery assumed where no evidence exists.
const neutralPrior = 0.5

// kernelSupportScales truncates the kernel: observations beyond this many
// length scales contribute only through the k-nearest top-up, so a cluster
// of answers in one corner cannot move the estimate in the opposite corner.
const kernelSupportScales = 3.0

// Field is the knowledge field derived from an observation snapshot:
// a Nadaraya-Watson kernel estimate of mastery plus a local data
// uncertainty, both queryable anywhere in the unit square.
//
// A Field is immutable. The engine rebuilds it whenever the log has grown
// and shares it across selector, confidence and ranker queries.
type Field struct {
	obs []Observation
	cfg FieldConfig
}

// newField derives a field from an observation snapshot.
func newField(obs []Observation, cfg FieldConfig) *Field {
	return &Field{obs: obs, cfg: cfg}
}

// Len is the number of observations backing the field.
func (f *Field) Len() int {
	return len(f.obs)
}

// EstimateAt evaluates the field at one point.
//
// All observations within 3L of the query contribute, topped up to the
// KNearest closest when the neighborhood is sparse; ties break by insertion
// order. Each contributes kernel(d) * weight * difficultyFactor(level). The
// neutral prior enters the weighted mean as a pseudo-observation of weight
// CalibrationC0, so sparse far-away evidence shades the estimate instead of
// owning it. A single pass over the snapshot per query.
func (f *Field) EstimateAt(p catalog.Position) Estimate {
	if len(f.obs) == 0 {
		return Estimate{Mean: neutralPrior, Uncertainty: 1, Entropy: binaryEntropy(neutralPrior)}
	}

	cutoff := kernelSupportScales * f.cfg.LengthScale

	var sumW, sumWO float64
	within := 0
	for i := range f.obs {
		d := p.DistanceTo(f.obs[i].Position)
		if d > cutoff {
			continue
		}
		w := f.contribution(d, &f.obs[i])
		sumW += w
		sumWO += w * f.obs[i].Outcome
		within++
	}

	// Sparse neighborhood: top up to the KNearest closest observations so
	// the far field keeps a gradient for heat maps and exploit scoring.
	if within < f.cfg.KNearest {
		for _, c := range f.nearestBeyond(p, cutoff, f.cfg.KNearest-within) {
			w := f.contribution(c.dist, &f.obs[c.idx])
			sumW += w
			sumWO += w * f.obs[c.idx].Outcome
		}
	}

	c0 := f.cfg.CalibrationC0
	mean := (sumWO + neutralPrior*c0) / (sumW + c0)
	uncertainty := 1 - sumW/(sumW+c0)

	return Estimate{Mean: mean, Uncertainty: uncertainty, Entropy: binaryEntropy(mean)}
}

// EstimateGrid evaluates the field at every cell center of a res x res
// lattice. Cells[r][c] corresponds to x=(c+0.5)/res, y=(r+0.5)/res.
func (f *Field) EstimateGrid(res int) *Grid {
	cells := make([][]Estimate, res)
	for r := 0; r < res; r++ {
		row := make([]Estimate, res)
		y := (float64(r) + 0.5) / float64(res)
		for c := 0; c < res; c++ {
			x := (float64(c) + 0.5) / float64(res)
			row[c] = f.EstimateAt(catalog.Position{X: x, Y: y})
		}
		cells[r] = row
	}
	return &Grid{Resolution: res, Cells: cells}
}

// contribution is one observation's weight at distance d from the query.
func (f *Field) contribution(d float64, o *Observation) float64 {
	return f.kernel(d) * o.Weight * difficultyFactor(f.cfg.DifficultySlope, o.DifficultyLevel)
}

// kernel is the Gaussian kernel exp(-d^2 / 2L^2).
func (f *Field) kernel(d float64) float64 {
	l := f.cfg.LengthScale
	return math.Exp(-(d * d) / (2 * l * l))
}

type farCandidate struct {
	idx  int
	dist float64
}

// nearestBeyond returns up to n observations beyond the cutoff, nearest
// first, ties by insertion order. A bounded insertion scan keeps the whole
// estimate linear in the snapshot size.
func (f *Field) nearestBeyond(p catalog.Position, cutoff float64, n int) []farCandidate {
	buf := make([]farCandidate, 0, n)
	for i := range f.obs {
		d := p.DistanceTo(f.obs[i].Position)
		if d <= cutoff {
			continue
		}
		// Insert position: strictly-greater shifts right, so equal
		// distances keep the earlier observation first.
		pos := len(buf)
		for pos > 0 && buf[pos-1].dist > d {
			pos--
		}
		if pos >= n {
			continue
		}
		if len(buf) < n {
			buf = append(buf, farCandidate{})
		}
		copy(buf[pos+1:], buf[pos:])
		buf[pos] = farCandidate{idx: i, dist: d}
	}
	return buf
}

// difficultyFactor scales evidence by the probe's difficulty level:
// 1 + slope*(level-1), monotonically non-decreasing and bounded.
func difficultyFactor(slope float64, level int) float64 {
	return 1 + slope*float64(level-catalog.MinLevel)
}

// binaryEntropy is H(m) in bits, 0 at m in {0,1} and 1 at m=0.5.
func binaryEntropy(m float64) float64 {
	if m <= 0 || m >= 1 {
		return 0
	}
	return -m*math.Log2(m) - (1-m)*math.Log2(1-m)
}
