package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ClaimsTotal counts claim attempts by path and outcome
	// (success, duplicate, out_of_stock, not_eligible).
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodies_claims_total",
			Help: "Claim attempts by via tag and outcome",
		},
		[]string{"via", "outcome"},
	)

	// BulkImportRowsTotal counts processed bulk import rows by outcome.
	BulkImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_import_rows_total",
			Help: "Bulk import rows by outcome (success, failed)",
		},
		[]string{"outcome"},
	)
)
