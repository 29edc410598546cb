// Package metrics exposes Prometheus collectors for content loading and search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry holds every collector of this process. Tests may read it
	// directly; the HTTP layer serves it on /metrics.
	Registry = prometheus.NewRegistry()

	ContentLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hundred_minds",
			Name:      "content_loads_total",
			Help:      "Content collection loads by collection and cache outcome.",
		},
		[]string{"collection", "cache"},
	)

	SearchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hundred_minds",
			Name:      "search_queries_total",
			Help:      "Search queries by outcome (hit, empty, skipped).",
		},
		[]string{"outcome"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hundred_minds",
			Name:      "search_duration_seconds",
			Help:      "Time spent matching a query against the index.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

func init() {
	Registry.MustRegister(ContentLoads, SearchQueries, SearchDuration)
}
