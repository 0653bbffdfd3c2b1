// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package catalog provides the positioned content catalog: item types, the
// JSON loader, a cell-grid spatial index over the unit square, hot reload
// via file watching, and an optional remote fetcher.
//
// The catalog is immutable once built. Reloads construct a fresh Catalog and
// swap it atomically through a Store; sessions keep the catalog they started
// with.
package catalog

import (
	"fmt"
	"math"
	"time"
)

// Kind classifies a catalog item.
type Kind string

const (
	// KindProbe is an askable question positioned at a single point.
	KindProbe Kind = "probe"

	// KindTrajectory is supplementary content anchored at one or more
	// points along a learning path.
	KindTrajectory Kind = "trajectory"
)

// MinLevel and MaxLevel bound probe difficulty.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Position is a point in the [0,1]x[0,1] concept space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InBounds reports whether the position lies in the closed unit square.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// DistanceTo returns the Euclidean distance to another position.
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Item is a single positioned catalog entry. Items are immutable and owned
// by the external corpus pipeline; the engine only reads them.
type Item struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	Positions       []Position `json:"positions"`
	DomainTag       string     `json:"domain_tag,omitempty"`
	DifficultyLevel int        `json:"difficulty_level,omitempty"`
	ContentRef      string     `json:"content_ref,omitempty"`
}

// Position returns the item's primary position (the single point for a
// probe, the first anchor for a trajectory).
func (it *Item) Position() Position {
	return it.Positions[0]
}

// Validate checks the structural invariants of a single item. Positional
// bounds violations are reported as ErrOutOfBounds so the loader can skip
// the item rather than fail the whole load.
func (it *Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item id is required")
	}

	switch it.Kind {
	case KindProbe:
		if len(it.Positions) != 1 {
			return fmt.Errorf("probe %q must have exactly one position, got %d", it.ID, len(it.Positions))
		}
		if it.DifficultyLevel < MinLevel || it.DifficultyLevel > MaxLevel {
			return fmt.Errorf("probe %q difficulty_level must be in [%d, %d], got %d",
				it.ID, MinLevel, MaxLevel, it.DifficultyLevel)
		}
	case KindTrajectory:
		if len(it.Positions) < 1 {
			return fmt.Errorf("trajectory %q must have at least one anchor", it.ID)
		}
	default:
		return fmt.Errorf("item %q has unknown kind %q", it.ID, it.Kind)
	}

	for i, p := range it.Positions {
		if !p.InBounds() {
			return fmt.Errorf("%w: item %q position %d at (%v, %v)", ErrOutOfBounds, it.ID, i, p.X, p.Y)
		}
	}

	return nil
}

// Catalog is an immutable indexed collection of items. All lookup methods
// are safe for concurrent use.
type Catalog struct {
	items         []*Item
	byID          map[string]*Item
	probes        []*Item
	trajectories  []*Item
	probesByLevel map[int][]*Item
	byDomain      map[string][]*Item
	index         *SpatialIndex
	loadedAt      time.Time
	rejected      int
}

// Stats summarizes a loaded catalog.
type Stats struct {
	Items        int            `json:"items"`
	Probes       int            `json:"probes"`
	Trajectories int            `json:"trajectories"`
	Rejected     int            `json:"rejected"`
	ByLevel      map[int]int    `json:"by_level"`
	ByDomain     map[string]int `json:"by_domain"`
	LoadedAt     time.Time      `json:"loaded_at"`
}

// New builds a catalog from pre-validated items. Duplicate ids are a hard
// error: they indicate a corrupt corpus, not a single bad item.
func New(items []*Item) (*Catalog, error) {
	c := &Catalog{
		items:         make([]*Item, 0, len(items)),
		byID:          make(map[string]*Item, len(items)),
		probesByLevel: make(map[int][]*Item),
		byDomain:      make(map[string][]*Item),
		index:         NewSpatialIndex(0),
		loadedAt:      time.Now().UTC(),
	}

	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}

		c.items = append(c.items, it)
		c.byID[it.ID] = it

		switch it.Kind {
		case KindProbe:
			c.probes = append(c.probes, it)
			c.probesByLevel[it.DifficultyLevel] = append(c.probesByLevel[it.DifficultyLevel], it)
			c.index.Insert(it.ID, it.Position())
		case KindTrajectory:
			c.trajectories = append(c.trajectories, it)
		}

		if it.DomainTag != "" {
			c.byDomain[it.DomainTag] = append(c.byDomain[it.DomainTag], it)
		}
	}

	return c, nil
}

// Item returns the item with the given id.
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Items returns all items in insertion order. The returned slice must not
// be modified.
func (c *Catalog) Items() []*Item {
	return c.items
}

// Probes returns all probe items in insertion order.
func (c *Catalog) Probes() []*Item {
	return c.probes
}

// Trajectories returns all trajectory items in insertion order.
func (c *Catalog) Trajectories() []*Item {
	return c.trajectories
}

// ProbesAtLevel returns the probes at a difficulty level, insertion order.
func (c *Catalog) ProbesAtLevel(level int) []*Item {
	return c.probesByLevel[level]
}

// ItemsInDomain returns items carrying the given domain tag.
func (c *Catalog) ItemsInDomain(domain string) []*Item {
	return c.byDomain[domain]
}

// Index returns the spatial index over probe positions.
func (c *Catalog) Index() *SpatialIndex {
	return c.index
}

// Len returns the total number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Stats returns summary statistics for the catalog.
func (c *Catalog) Stats() Stats {
	byLevel := make(map[int]int, len(c.probesByLevel))
	for level, probes := range c.probesByLevel {
		byLevel[level] = len(probes)
	}
	byDomain := make(map[string]int, len(c.byDomain))
	for domain, items := range c.byDomain {
		byDomain[domain] = len(items)
	}

	return Stats{
		Items:        len(c.items),
		Probes:       len(c.probes),
		Trajectories: len(c.trajectories),
		Rejected:     c.rejected,
		ByLevel:      byLevel,
		ByDomain:     byDomain,
		LoadedAt:     c.loadedAt,
	}
}
