// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package engine

import "errors"

var (
	// ErrInvalidObservation marks a response rejected at Record time:
	// outcome outside [0,1], out-of-range difficulty, or out-of-bounds
	// position. Invalid observations are never stored and never clamped.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrUnknownItem marks a Record call against an item id the session's
	// catalog does not contain.
	ErrUnknownItem = errors.New("unknown catalog item")
)
