// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package catalog

import "errors"

var (
	// ErrOutOfBounds marks an item position outside the unit square.
	// The loader skips such items; positions are never renormalized.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrDuplicateID marks a catalog document containing the same id twice.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrEmptyCatalog marks a document with no valid items after filtering.
	ErrEmptyCatalog = errors.New("catalog contains no valid items")

	// ErrNotModified indicates a conditional fetch returned HTTP 304.
	ErrNotModified = errors.New("catalog not modified")
)
