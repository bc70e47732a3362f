// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - YouTube Data API call volume and quota pressure
// - Pipeline stage durations and report generation
// - Circuit breaker state

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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// YouTube Data API Metrics
	YouTubeAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_requests_total",
			Help: "Total number of YouTube Data API calls",
		},
		[]string{"result"}, // "success", "failure", "rate_limited"
	)

	YouTubeAPIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "youtube_api_request_duration_seconds",
			Help:    "YouTube Data API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	YouTubeVideosResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "youtube_videos_resolved_total",
			Help: "Total number of video ids resolved to metadata",
		},
	)

	YouTubeVideosUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "youtube_videos_unresolved_total",
			Help: "Total number of video ids the API returned no item for",
		},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "normalize", "enrich", "analytics", "session", "binge"
	)

	PipelineEventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_events_processed_total",
			Help: "Total number of watch events processed by the pipeline",
		},
		[]string{"kind"}, // "content", "ad"
	)

	// RewindReportsGenerated tracks report generations per requested year.
	RewindReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewind_reports_generated_total",
			Help: "Total number of rewind reports generated",
		},
		[]string{"year"},
	)

	RewindReportGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rewind_report_generation_duration_seconds",
			Help:    "End-to-end rewind report generation duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"year"},
	)

	RewindReportGenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewind_report_generation_errors_total",
			Help: "Total number of failed rewind report generations",
		},
		[]string{"year", "error_type"},
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

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
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

// RecordYouTubeRequest records one YouTube Data API call
func RecordYouTubeRequest(result string, duration time.Duration) {
	YouTubeAPIRequests.WithLabelValues(result).Inc()
	YouTubeAPIRequestDuration.Observe(duration.Seconds())
}

// RecordPipelineStage records one pipeline stage run
func RecordPipelineStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRewindGeneration records a rewind report generation
func RecordRewindGeneration(year int, duration time.Duration, err error) {
	yearStr := strconv.Itoa(year)
	RewindReportGenerationDuration.WithLabelValues(yearStr).Observe(duration.Seconds())
	if err != nil {
		errorType := "unknown"
		errorMsg := err.Error()
		switch {
		case contains(errorMsg, "no watch events"):
			errorType = "no_data"
		case contains(errorMsg, "youtube"), contains(errorMsg, "metadata provider"):
			errorType = "provider_failed"
		case contains(errorMsg, "decode"):
			errorType = "bad_input"
		}
		RewindReportGenerationErrors.WithLabelValues(yearStr, errorType).Inc()
	} else {
		RewindReportsGenerated.WithLabelValues(yearStr).Inc()
	}
}

// Helper function to check if string contains substring
func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
