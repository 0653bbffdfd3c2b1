// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Engine operations (observations, selections, confidence)
// - Session lifecycle
// - Catalog loading and spatial index queries
// - Archive query performance (DuckDB)
// - API endpoint latency and throughput
// - Event bus and WebSocket throughput

var (
	// Engine Metrics
	ObservationsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_observations_recorded_total",
			Help: "Total number of observations recorded",
		},
		[]string{"kind"}, // "answer", "skip"
	)

	ObservationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_observations_rejected_total",
			Help: "Total number of observations rejected as invalid",
		},
		[]string{"reason"}, // "unknown_item", "outcome_range", "weight_range", "not_pending"
	)

	QuestionSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_question_selections_total",
			Help: "Total number of question selections",
		},
		[]string{"phase"}, // "explore", "exploit"
	)

	SelectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_selection_duration_seconds",
			Help:    "Duration of question selection in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"phase"},
	)

	PhaseTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_phase_transitions_total",
			Help: "Total number of explore-to-exploit phase transitions",
		},
	)

	LevelChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_level_changes_total",
			Help: "Total number of difficulty level changes",
		},
		[]string{"direction"}, // "up", "down"
	)

	CatalogExhaustions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_catalog_exhausted_total",
			Help: "Total number of selections that found no remaining candidates",
		},
	)

	FieldEstimateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_field_estimate_duration_seconds",
			Help:    "Duration of knowledge field estimates in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
	)

	ConfidenceAtCompletion = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_confidence_at_completion",
			Help:    "Overall confidence when sessions complete",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)

	RecommendationsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_recommendations_computed_total",
			Help: "Total number of recommendation rankings computed",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_recommendation_duration_seconds",
			Help:    "Duration of recommendation ranking in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
	)

	// Session Metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of active assessment sessions",
		},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of assessment sessions created",
		},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_completed_total",
			Help: "Total number of assessment sessions completed",
		},
		[]string{"reason"}, // "confidence", "exhausted", "manual", "expired"
	)

	SessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_duration_seconds",
			Help:    "Duration of completed sessions in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 3600},
		},
	)

	SessionQuestionsAsked = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_questions_asked",
			Help:    "Number of questions asked in completed sessions",
			Buckets: []float64{1, 3, 5, 10, 15, 20, 30, 50, 100},
		},
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Current number of items in the loaded catalog",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	CatalogRejectedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rejected_items_total",
			Help: "Total number of catalog items rejected during load",
		},
	)

	CatalogFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Duration of remote catalog fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SpatialIndexQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spatial_index_queries_total",
			Help: "Total number of spatial index queries",
		},
		[]string{"kind"}, // "nearest", "radius"
	)

	// Archive Metrics (DuckDB)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// Journal Metrics (Badger)
	JournalAppends = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_appends_total",
			Help: "Total number of observations appended to the journal",
		},
	)

	JournalAppendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_append_errors_total",
			Help: "Total number of failed journal appends",
		},
	)

	JournalReplayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "journal_replay_duration_seconds",
			Help:    "Duration of journal replay on startup in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	JournalReplayedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_replayed_entries_total",
			Help: "Total number of journal entries replayed",
		},
	)

	JournalGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_gc_runs_total",
			Help: "Total number of journal value-log GC runs",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic"},
	)

	EventsPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of failed event publishes",
		},
		[]string{"topic"},
	)

	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
	)

	NATSMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped (slow consumer)",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordObservation records an observation metric.
func RecordObservation(skipped bool) {
	kind := "answer"
	if skipped {
		kind = "skip"
	}
	ObservationsRecorded.WithLabelValues(kind).Inc()
}

// RecordObservationRejected records a rejected observation by reason.
func RecordObservationRejected(reason string) {
	ObservationsRejected.WithLabelValues(reason).Inc()
}

// RecordSelection records a question selection metric.
func RecordSelection(phase string, duration time.Duration) {
	QuestionSelections.WithLabelValues(phase).Inc()
	SelectionDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordPhaseTransition records an explore-to-exploit transition.
func RecordPhaseTransition() {
	PhaseTransitions.Inc()
}

// RecordLevelChange records a difficulty level progression or regression.
func RecordLevelChange(up bool) {
	direction := "down"
	if up {
		direction = "up"
	}
	LevelChanges.WithLabelValues(direction).Inc()
}

// RecordCatalogExhausted records a selection with no remaining candidates.
func RecordCatalogExhausted() {
	CatalogExhaustions.Inc()
}

// RecordFieldEstimate records the duration of a knowledge field estimate.
func RecordFieldEstimate(duration time.Duration) {
	FieldEstimateDuration.Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation ranking computation.
func RecordRecommendation(duration time.Duration) {
	RecommendationsComputed.Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordSessionCreated records a new session.
func RecordSessionCreated() {
	SessionsCreated.Inc()
	SessionsActive.Inc()
}

// RecordSessionCompleted records a completed session with its final stats.
func RecordSessionCompleted(reason string, duration time.Duration, questionsAsked int, confidence float64) {
	SessionsCompleted.WithLabelValues(reason).Inc()
	SessionsActive.Dec()
	SessionDuration.Observe(duration.Seconds())
	SessionQuestionsAsked.Observe(float64(questionsAsked))
	ConfidenceAtCompletion.Observe(confidence)
}

// RecordCatalogReload records a catalog reload attempt.
func RecordCatalogReload(itemCount, rejected int, err error) {
	if err != nil {
		CatalogReloads.WithLabelValues("failure").Inc()
		return
	}
	CatalogReloads.WithLabelValues("success").Inc()
	CatalogItems.Set(float64(itemCount))
	if rejected > 0 {
		CatalogRejectedItems.Add(float64(rejected))
	}
}

// RecordSpatialQuery records a spatial index query.
func RecordSpatialQuery(kind string) {
	SpatialIndexQueries.WithLabelValues(kind).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordJournalAppend records a journal append and its outcome.
func RecordJournalAppend(err error) {
	if err != nil {
		JournalAppendErrors.Inc()
		return
	}
	JournalAppends.Inc()
}

// RecordJournalReplay records a journal replay operation.
func RecordJournalReplay(duration time.Duration, entries int) {
	JournalReplayDuration.Observe(duration.Seconds())
	JournalReplayedEntries.Add(float64(entries))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished records an event published to the bus.
func RecordEventPublished(topic string, err error) {
	if err != nil {
		EventsPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}
