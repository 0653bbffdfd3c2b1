// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package authz

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts authorization decisions by role, resource
	// pattern, action and outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathesis_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "resource_pattern", "action", "decision"},
	)

	// DeniedTotal tracks denials separately for alerting.
	DeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathesis_authz_denied_total",
			Help: "Total number of authorization denials",
		},
		[]string{"role", "resource_pattern", "action"},
	)

	// DecisionDuration tracks enforcement latency.
	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mathesis_authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"role"},
	)
)

// RecordDecision records one enforcement outcome.
func RecordDecision(role, resource, action string, allowed bool, duration time.Duration) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}

	pattern := normalizeResourcePattern(resource)
	DecisionsTotal.WithLabelValues(role, pattern, action, decision).Inc()
	if !allowed {
		DeniedTotal.WithLabelValues(role, pattern, action).Inc()
	}
	DecisionDuration.WithLabelValues(role).Observe(duration.Seconds())
}

// normalizeResourcePattern collapses identifier-bearing path segments so the
// resource label stays low-cardinality. Session and item ids are UUIDs or
// hyphenated slugs with digits; short route words like "v1" must survive.
func normalizeResourcePattern(resource string) string {
	segments := strings.Split(resource, "/")
	for i, seg := range segments {
		if segmentLooksLikeID(seg) {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}

func segmentLooksLikeID(seg string) bool {
	if len(seg) < 3 {
		return false
	}
	hasDigit := false
	for i := 0; i < len(seg); i++ {
		if seg[i] >= '0' && seg[i] <= '9' {
			hasDigit = true
			break
		}
	}
	return hasDigit && (strings.Contains(seg, "-") || len(seg) >= 8)
}
