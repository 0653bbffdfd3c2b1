// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

// Package engine implements the adaptive assessment core: mastery
// estimation over the two-dimensional knowledge plane, explore/exploit
// question selection, session confidence, and trajectory recommendation.
//
// # Architecture
//
// The engine is a facade over five small parts:
//
//   - ObservationLog: append-only history of scored responses
//   - Field: Nadaraya-Watson kernel estimate derived from a log snapshot,
//     reporting mean mastery, data uncertainty and outcome entropy
//   - selector: explore/exploit phase machine with difficulty levels
//   - confidenceTracker: bounded, non-decreasing session confidence
//   - ranker: percentile-based trajectory scoring
//
// Observations flow in through Record, the field is re-derived lazily when
// the log grows, and every read path (selection, confidence, heat maps,
// recommendations) queries the same cached field.
//
// # Design Principles
//
//   - Reject, never repair: invalid observations are refused whole at the
//     boundary; no clamping, no partial writes.
//   - Absence of evidence is not failure: unobserved regions estimate at
//     the neutral prior with full uncertainty, and outcome entropy is
//     reported separately so "confidently mediocre" stays distinguishable
//     from "unknown".
//   - Exhaustion is an outcome: selection returns nil when no suitable
//     probe remains, never an error.
//   - Determinism: a fixed seed and an observation history reproduce the
//     same selections, levels and recommendations.
//
// # Usage
//
//	eng, err := engine.NewEngine(cat, nil, logger)
//	if err != nil {
//		return err
//	}
//	for {
//		item := eng.SelectNext("")
//		if item == nil || eng.Confidence().ShouldStop {
//			break
//		}
//		outcome, skipped := ask(item)
//		if _, err := eng.Record(item.ID, outcome, skipped); err != nil {
//			return err
//		}
//	}
//	recs := eng.Rank()
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. The session manager serializes
// access with one lock per session; nothing inside the package locks.
package engine
