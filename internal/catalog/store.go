// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import "sync/atomic"

// Store holds the current catalog behind an atomic pointer. Reloads swap in
// a fresh catalog; readers always see a complete, immutable snapshot.
// Sessions capture the catalog at creation time and are unaffected by
// later swaps.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding the given initial catalog.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the catalog for new sessions. Never nil once constructed.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap replaces the current catalog and returns the previous one.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
