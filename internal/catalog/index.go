// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/mathesis/internal/metrics"
)

// defaultCellSize divides the unit square into a 10x10 grid, which keeps
// radius queries at the default coverage radius (0.15) within two rings.
const defaultCellSize = 0.1

// SpatialIndex divides the unit square into cells for fast proximity
// queries. Instead of O(n) comparisons to find nearby positions, only the
// cells around the query point are checked.
//
// Two kinds of instances exist: the catalog builds one over its probe
// positions at load time, and each engine maintains one over the positions
// it has already asked (coverage and farthest-point queries).
//
// Time Complexity:
//   - Insert: O(1)
//   - QueryRadius: O(k) where k = entries in nearby cells
//   - NearestK: O(k log k) over the visited rings
type SpatialIndex struct {
	mu       sync.RWMutex
	cells    map[cellKey][]indexEntry
	cellSize float64
	size     int
}

type cellKey struct {
	x, y int
}

type indexEntry struct {
	id  string
	pos Position
}

// Neighbor is a query result: an indexed position with its exact distance
// to the query point.
type Neighbor struct {
	ID       string
	Pos      Position
	Distance float64
}

// NewSpatialIndex creates an index with the given cell size. A cell size
// outside (0, 1] falls back to the default 0.1.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 || cellSize > 1 {
		cellSize = defaultCellSize
	}
	return &SpatialIndex{
		cells:    make(map[cellKey][]indexEntry),
		cellSize: cellSize,
	}
}

func (ix *SpatialIndex) keyFor(p Position) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / ix.cellSize)),
		y: int(math.Floor(p.Y / ix.cellSize)),
	}
}

// Insert adds a position under the given id. Duplicate ids are not
// deduplicated; callers own id uniqueness.
func (ix *SpatialIndex) Insert(id string, p Position) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	key := ix.keyFor(p)
	ix.cells[key] = append(ix.cells[key], indexEntry{id: id, pos: p})
	ix.size++
}

// Size returns the number of indexed positions.
func (ix *SpatialIndex) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.size
}

// NumCells returns the number of non-empty cells.
func (ix *SpatialIndex) NumCells() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.cells)
}

// QueryRadius returns all entries within radius r of p, sorted by distance
// then id. The exact Euclidean distance filters candidates from the cell
// bounding box.
func (ix *SpatialIndex) QueryRadius(p Position, r float64) []Neighbor {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	metrics.RecordSpatialQuery("radius")

	if r < 0 {
		return nil
	}

	rings := int(math.Ceil(r/ix.cellSize)) + 1
	center := ix.keyFor(p)

	var results []Neighbor
	for dx := -rings; dx <= rings; dx++ {
		for dy := -rings; dy <= rings; dy++ {
			entries, ok := ix.cells[cellKey{x: center.x + dx, y: center.y + dy}]
			if !ok {
				continue
			}
			for _, e := range entries {
				dist := p.DistanceTo(e.pos)
				if dist <= r {
					results = append(results, Neighbor{ID: e.id, Pos: e.pos, Distance: dist})
				}
			}
		}
	}

	sortNeighbors(results)
	return results
}

// AnyWithin reports whether at least one entry lies within radius r of p.
// Cheaper than QueryRadius when only existence matters (coverage checks).
func (ix *SpatialIndex) AnyWithin(p Position, r float64) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if r < 0 {
		return false
	}

	rings := int(math.Ceil(r/ix.cellSize)) + 1
	center := ix.keyFor(p)

	for dx := -rings; dx <= rings; dx++ {
		for dy := -rings; dy <= rings; dy++ {
			entries, ok := ix.cells[cellKey{x: center.x + dx, y: center.y + dy}]
			if !ok {
				continue
			}
			for _, e := range entries {
				if p.DistanceTo(e.pos) <= r {
					return true
				}
			}
		}
	}

	return false
}

// NearestK returns the k entries nearest to p, sorted by distance then id.
// Rings expand outward until the k-th best distance cannot be beaten by any
// unvisited ring. Returns all entries when k >= Size().
func (ix *SpatialIndex) NearestK(p Position, k int) []Neighbor {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	metrics.RecordSpatialQuery("nearest")

	if k <= 0 || ix.size == 0 {
		return nil
	}

	center := ix.keyFor(p)
	// The whole unit square is at most this many rings away from any cell.
	maxRings := int(math.Ceil(1/ix.cellSize)) + 1

	var candidates []Neighbor
	for ring := 0; ring <= maxRings; ring++ {
		// A point in a cell at Chebyshev ring distance ring is at least
		// (ring-1)*cellSize away from p. Once that bound exceeds the k-th
		// best distance, no further ring can improve the result.
		if len(candidates) >= k {
			sortNeighbors(candidates)
			if float64(ring-1)*ix.cellSize > candidates[k-1].Distance {
				break
			}
		}

		ix.collectRing(center, ring, p, &candidates)
	}

	sortNeighbors(candidates)
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// collectRing appends entries from all cells at exactly Chebyshev distance
// ring from the center cell.
func (ix *SpatialIndex) collectRing(center cellKey, ring int, p Position, out *[]Neighbor) {
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if maxAbs(dx, dy) != ring {
				continue
			}
			entries, ok := ix.cells[cellKey{x: center.x + dx, y: center.y + dy}]
			if !ok {
				continue
			}
			for _, e := range entries {
				*out = append(*out, Neighbor{ID: e.id, Pos: e.pos, Distance: p.DistanceTo(e.pos)})
			}
		}
	}
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

// sortNeighbors orders by distance, breaking ties by id so results are
// deterministic regardless of map iteration order.
func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Distance != ns[j].Distance {
			return ns[i].Distance < ns[j].Distance
		}
		return ns[i].ID < ns[j].ID
	})
}
