// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package session

import "errors"

var (
	// ErrNotFound is returned for unknown session ids, including sessions
	// already completed or expired.
	ErrNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when creating a session would exceed
	// the configured cap.
	ErrTooManySessions = errors.New("session limit reached")

	// ErrCompleted is returned for operations on a session that completed
	// between lookup and use.
	ErrCompleted = errors.New("session already completed")
)
