// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// Document is the on-disk catalog format: a version string and a flat item
// list produced by the corpus construction pipeline.
type Document struct {
	Version string  `json:"version,omitempty"`
	Items   []*Item `json:"items"`
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordCatalogReload(0, 0, err)
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document and builds the indexed catalog.
//
// Items failing validation are skipped with a logged warning; positions are
// never renormalized into bounds. Duplicate ids and an all-invalid document
// fail the whole load.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		metrics.RecordCatalogReload(0, 0, err)
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}

	valid := make([]*Item, 0, len(doc.Items))
	rejected := 0

	for i, it := range doc.Items {
		if it == nil {
			rejected++
			logging.Warn().Int("index", i).Msg("Skipping null catalog item")
			continue
		}

		if err := it.Validate(); err != nil {
			rejected++
			logging.Warn().
				Err(err).
				Str("item_id", it.ID).
				Int("index", i).
				Msg("Skipping invalid catalog item")
			continue
		}

		valid = append(valid, it)
	}

	if len(valid) == 0 {
		err := ErrEmptyCatalog
		if len(doc.Items) > 0 {
			err = fmt.Errorf("%w (%d items rejected)", ErrEmptyCatalog, rejected)
		}
		metrics.RecordCatalogReload(0, rejected, err)
		return nil, err
	}

	c, err := New(valid)
	if err != nil {
		metrics.RecordCatalogReload(0, rejected, err)
		return nil, err
	}
	c.rejected = rejected

	stats := c.Stats()
	metrics.RecordCatalogReload(stats.Items, stats.Rejected, nil)
	logging.Info().
		Str("version", doc.Version).
		Int("items", stats.Items).
		Int("probes", stats.Probes).
		Int("trajectories", stats.Trajectories).
		Int("rejected", stats.Rejected).
		Int("index_cells", c.index.NumCells()).
		Msg("Catalog loaded")

	return c, nil
}
