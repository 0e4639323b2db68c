// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Package metrics provides Prometheus instrumentation for Bestskrellerz.
//
// Instrumented concerns:
//   - DuckDB/MotherDuck query performance
//   - API endpoint latency and throughput
//   - Response cache efficiency
//   - Image proxy fetches
//   - Wikidata enrichment batches
//   - Circuit breaker state
//
// All collectors are registered with the default registry via promauto
// and exposed at /metrics by the HTTP router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DBConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_connect_attempts_total",
			Help: "Total number of database connection attempts",
		},
		[]string{"outcome"}, // "success", "error", "config_error"
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
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

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "rankings", "lists", "search"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Image Proxy Metrics
	ImageProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_proxy_requests_total",
			Help: "Total number of image proxy requests",
		},
		[]string{"outcome"}, // "success", "rejected_host", "bad_url", "upstream_error"
	)

	ImageProxyFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_proxy_fetch_duration_seconds",
			Help:    "Duration of upstream image fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Wikidata Enrichment Metrics
	WikidataQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wikidata_query_duration_seconds",
			Help:    "Duration of Wikidata SPARQL queries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	WikidataBatchesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wikidata_batches_processed_total",
			Help: "Total number of Wikidata enrichment batches processed",
		},
	)

	WikidataSeriesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wikidata_series_found_total",
			Help: "Total number of books resolved to a series",
		},
	)

	// CSV Import Metrics
	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csv_import_duration_seconds",
			Help:    "Duration of historical CSV imports",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	ImportRecordsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csv_import_records_added_total",
			Help: "Total number of historical records added by CSV imports",
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
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordImport records a historical CSV import.
func RecordImport(duration time.Duration, newRecords int) {
	ImportDuration.Observe(duration.Seconds())
	ImportRecordsAdded.Add(float64(newRecords))
}
