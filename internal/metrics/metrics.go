package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation engine metrics
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by outcome.",
		},
		[]string{"status"},
	)

	// DataQualityExclusionsTotal counts titles silently excluded by the
	// eligibility filter because of unparseable data. These are fail-closed
	// exclusions, never request errors.
	DataQualityExclusionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "data_quality_exclusions_total",
			Help: "Total number of titles excluded due to unrecognized age data.",
		},
		[]string{"reason"},
	)

	CatalogReloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog ingest reloads.",
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsTotal,
		DataQualityExclusionsTotal,
		CatalogReloadsTotal,
		HTTPRequestDuration,
	)
}
