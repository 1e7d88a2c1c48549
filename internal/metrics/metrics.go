// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package metrics exposes Prometheus instrumentation for the API surface,
// the recommendation pipeline, and the embedded store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
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
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Recommendation Pipeline Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation computations",
		},
		[]string{"method"}, // "content", "collaborative", "hybrid", "affinity"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_results_count",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"method"},
	)

	RecommendationDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_degradations_total",
			Help: "Total number of scoring paths that degraded to empty results",
		},
		[]string{"path"},
	)

	// Store Metrics
	StoreGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Total number of value-log garbage collection rounds",
		},
	)

	StoreGCErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_gc_errors_total",
			Help: "Total number of failed garbage collection rounds",
		},
	)

	// Gamification Metrics
	BadgesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge"},
	)

	XPGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_xp_granted_total",
			Help: "Total XP granted to users",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation computation.
func RecordRecommendation(method string, duration time.Duration, results int) {
	RecommendationRequests.WithLabelValues(method).Inc()
	RecommendationDuration.WithLabelValues(method).Observe(duration.Seconds())
	RecommendationResults.WithLabelValues(method).Observe(float64(results))
}

// RecordDegradation records a scoring path falling back to empty results.
func RecordDegradation(path string) {
	RecommendationDegradations.WithLabelValues(path).Inc()
}

// RecordGCRun records a garbage collection round.
func RecordGCRun(err error) {
	StoreGCRuns.Inc()
	if err != nil {
		StoreGCErrors.Inc()
	}
}

// RecordBadge records a badge award.
func RecordBadge(badge string) {
	BadgesAwarded.WithLabelValues(badge).Inc()
}

// RecordXP records granted XP.
func RecordXP(amount int) {
	XPGranted.Add(float64(amount))
}
