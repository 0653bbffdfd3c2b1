// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"fmt"
	"math"
	"sort"
	"testing"
)

// --- Test: SpatialIndex basics ---

func TestSpatialIndexBasicOperations(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)

	if idx.Size() != 0 {
		t.Errorf("empty index Size() = %d, want 0", idx.Size())
	}

	idx.Insert("a", Position{0.05, 0.05})
	idx.Insert("b", Position{0.06, 0.06})
	idx.Insert("c", Position{0.95, 0.95})

	if idx.Size() != 3 {
		t.Errorf("Size() = %d, want 3", idx.Size())
	}
	// a and b share a cell, c is alone
	if idx.NumCells() != 2 {
		t.Errorf("NumCells() = %d, want 2", idx.NumCells())
	}
}

func TestSpatialIndexDefaultCellSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cellSize float64
	}{
		{"zero", 0},
		{"negative", -0.5},
		{"above one", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx := NewSpatialIndex(tt.cellSize)
			// Two points 0.05 apart land in the same default-size cell.
			idx.Insert("a", Position{0.01, 0.01})
			idx.Insert("b", Position{0.06, 0.06})
			if idx.NumCells() != 1 {
				t.Errorf("NumCells() = %d, want 1 with default cell size", idx.NumCells())
			}
		})
	}
}

// --- Test: QueryRadius ---

func TestSpatialIndexQueryRadius(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	idx.Insert("center", Position{0.5, 0.5})
	idx.Insert("near", Position{0.55, 0.5})
	idx.Insert("edge", Position{0.6, 0.5})
	idx.Insert("far", Position{0.9, 0.9})

	got := idx.QueryRadius(Position{0.5, 0.5}, 0.1)

	// Boundary is inclusive: "edge" sits at exactly r.
	wantIDs := []string{"center", "near", "edge"}
	if len(got) != len(wantIDs) {
		t.Fatalf("QueryRadius returned %d neighbors, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("neighbor[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}

	// Sorted ascending by distance
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("neighbors not sorted: %v before %v", got[i-1].Distance, got[i].Distance)
		}
	}
}

func TestSpatialIndexQueryRadiusEmpty(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	if got := idx.QueryRadius(Position{0.5, 0.5}, 0.2); len(got) != 0 {
		t.Errorf("QueryRadius on empty index = %v, want empty", got)
	}
}

// --- Test: AnyWithin ---

func TestSpatialIndexAnyWithin(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	idx.Insert("a", Position{0.25, 0.25})

	tests := []struct {
		name string
		p    Position
		r    float64
		want bool
	}{
		{"at the point", Position{0.25, 0.25}, 0.01, true},
		{"inside radius", Position{0.3, 0.25}, 0.1, true},
		// Exact binary fractions so the boundary comparison is not at
		// the mercy of decimal rounding.
		{"exactly at radius", Position{0.5, 0.25}, 0.25, true},
		{"outside radius", Position{0.5, 0.25}, 0.2, false},
		{"far away", Position{0.9, 0.9}, 0.15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := idx.AnyWithin(tt.p, tt.r); got != tt.want {
				t.Errorf("AnyWithin(%v, %v) = %v, want %v", tt.p, tt.r, got, tt.want)
			}
		})
	}
}

// --- Test: NearestK ---

// bruteForceNearest is the reference implementation NearestK is checked against.
func bruteForceNearest(points map[string]Position, q Position, k int) []Neighbor {
	all := make([]Neighbor, 0, len(points))
	for id, p := range points {
		all = append(all, Neighbor{ID: id, Pos: p, Distance: q.DistanceTo(p)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})
	if k < len(all) {
		all = all[:k]
	}
	return all
}

func TestSpatialIndexNearestK(t *testing.T) {
	t.Parallel()

	// Deterministic scattered point set, enough to span many cells.
	points := make(map[string]Position)
	idx := NewSpatialIndex(0.1)
	for i := 0; i < 60; i++ {
		p := Position{
			X: math.Mod(0.137*float64(i)+0.05, 1.0),
			Y: math.Mod(0.211*float64(i)+0.03, 1.0),
		}
		id := fmt.Sprintf("pt%02d", i)
		points[id] = p
		idx.Insert(id, p)
	}

	queries := []Position{
		{0.0, 0.0},
		{0.5, 0.5},
		{1.0, 1.0},
		{0.25, 0.75},
		{0.99, 0.01},
	}

	for _, q := range queries {
		for _, k := range []int{1, 3, 8, 20} {
			got := idx.NearestK(q, k)
			want := bruteForceNearest(points, q, k)

			if len(got) != len(want) {
				t.Fatalf("NearestK(%v, %d) returned %d, want %d", q, k, len(got), len(want))
			}
			for i := range want {
				if got[i].ID != want[i].ID {
					t.Errorf("NearestK(%v, %d)[%d].ID = %q, want %q (dist %v vs %v)",
						q, k, i, got[i].ID, want[i].ID, got[i].Distance, want[i].Distance)
				}
			}
		}
	}
}

func TestSpatialIndexNearestKEdgeCases(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	idx.Insert("a", Position{0.2, 0.2})
	idx.Insert("b", Position{0.8, 0.8})

	if got := idx.NearestK(Position{0.5, 0.5}, 0); got != nil {
		t.Errorf("NearestK(k=0) = %v, want nil", got)
	}
	if got := idx.NearestK(Position{0.5, 0.5}, -1); got != nil {
		t.Errorf("NearestK(k=-1) = %v, want nil", got)
	}
	if got := idx.NearestK(Position{0.5, 0.5}, 10); len(got) != 2 {
		t.Errorf("NearestK(k>size) returned %d, want all 2", len(got))
	}

	empty := NewSpatialIndex(0.1)
	if got := empty.NearestK(Position{0.5, 0.5}, 3); len(got) != 0 {
		t.Errorf("NearestK on empty index = %v, want empty", got)
	}
}

func TestSpatialIndexNearestKTieBreak(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	// Four points equidistant from the query center.
	idx.Insert("d", Position{0.5, 0.6})
	idx.Insert("b", Position{0.5, 0.4})
	idx.Insert("c", Position{0.6, 0.5})
	idx.Insert("a", Position{0.4, 0.5})

	got := idx.NearestK(Position{0.5, 0.5}, 4)
	if len(got) != 4 {
		t.Fatalf("NearestK returned %d, want 4", len(got))
	}
	// Equal distances break ties by id for deterministic ordering.
	wantIDs := []string{"a", "b", "c", "d"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("neighbor[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSpatialIndexConcurrentAccess(t *testing.T) {
	t.Parallel()

	idx := NewSpatialIndex(0.1)
	for i := 0; i < 20; i++ {
		idx.Insert(fmt.Sprintf("seed%d", i), Position{float64(i) / 20, float64(i) / 20})
	}

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				switch i % 3 {
				case 0:
					idx.NearestK(Position{0.5, 0.5}, 5)
				case 1:
					idx.QueryRadius(Position{0.3, 0.3}, 0.2)
				case 2:
					idx.Insert(fmt.Sprintf("g%d-%d", g, i), Position{0.5, 0.5})
				}
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
