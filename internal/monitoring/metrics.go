// Package monitoring exposes Prometheus collectors for the trip cost service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const ServiceName = "tripcost"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripcost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"method", "route"},
	)

	ExternalServiceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_external_service_requests_total",
			Help: "Total number of requests to Google Maps Platform",
		},
		[]string{"service", "operation", "status"},
	)

	ExternalServiceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripcost_external_service_request_duration_seconds",
			Help:    "Google Maps Platform request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"service", "operation"},
	)

	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_calculations_total",
			Help: "Trip calculations by outcome",
		},
		[]string{"result"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_rate_limit_exceeded_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)

	SavedTripOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcost_saved_trip_operations_total",
			Help: "Saved trip list operations by kind and outcome",
		},
		[]string{"operation", "status"},
	)
)

// ObserveExternal records one call to an external service.
func ObserveExternal(service, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ExternalServiceRequestsTotal.WithLabelValues(service, operation, status).Inc()
	ExternalServiceRequestDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}
