// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto at
// package init, so importing the package is enough to expose them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
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

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to score, re-rank and deduplicate one recommendation request",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"result"}, // "ok", "not_found", "error"
	)

	RecommendResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_size",
			Help:    "Number of items returned per recommendation",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Snapshot Metrics
	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_items",
			Help: "Number of catalog items in the live snapshot",
		},
	)

	SnapshotDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_embedding_dimension",
			Help: "Embedding dimension of the live snapshot",
		},
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Time to load catalog and embeddings into a new snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_reloads_total",
			Help: "Snapshot reload attempts by outcome",
		},
		[]string{"result"}, // "success", "failure", "rejected"
	)

	SnapshotLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful snapshot swap",
		},
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

	// Trainer Metrics
	TrainerEpochLoss = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trainer_epoch_loss",
			Help: "Mean weighted BPR loss of the last completed epoch",
		},
		[]string{"epoch"},
	)

	TrainerEpochDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trainer_epoch_duration_seconds",
			Help:    "Wall time per training epoch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	TrainerSkippedInteractions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainer_skipped_interactions_total",
			Help: "Interactions dropped because their item is not in the catalog",
		},
	)
)

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

// RecordRecommendation records one engine call.
func RecordRecommendation(result string, size int, duration time.Duration) {
	RecommendRequests.WithLabelValues(result).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if result == "ok" {
		RecommendResultSize.Observe(float64(size))
	}
}

// RecordCacheLookup records a recommendation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordSnapshot publishes the shape of a freshly loaded snapshot.
func RecordSnapshot(items, dim int, loadDuration time.Duration) {
	SnapshotItems.Set(float64(items))
	SnapshotDimension.Set(float64(dim))
	SnapshotLoadDuration.Observe(loadDuration.Seconds())
}

// RecordReload records a reload attempt outcome.
func RecordReload(result string) {
	SnapshotReloads.WithLabelValues(result).Inc()
	if result == "success" {
		SnapshotLastReload.SetToCurrentTime()
	}
}
