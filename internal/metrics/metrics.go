// Package metrics exposes Prometheus instrumentation for provider traffic,
// cache behavior, and prop resolution outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts calls to the stats provider by endpoint.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_provider_requests_total",
		Help: "Stats provider requests by endpoint",
	}, []string{"endpoint"})

	// ProviderErrors counts failed provider calls by endpoint.
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_provider_errors_total",
		Help: "Stats provider request failures by endpoint",
	}, []string{"endpoint"})

	// CacheHits counts in-process cache hits by cache name.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_cache_hits_total",
		Help: "In-process cache hits by cache",
	}, []string{"cache"})

	// CacheMisses counts in-process cache misses by cache name.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_cache_misses_total",
		Help: "In-process cache misses by cache",
	}, []string{"cache"})

	// PropsResolved counts prop resolutions by outcome (hit, miss, not_found).
	PropsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_props_resolved_total",
		Help: "Prop resolutions by outcome",
	}, []string{"outcome"})

	// Captures counts miss-context capture attempts by status (ok, skipped, failed).
	Captures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proptracker_miss_captures_total",
		Help: "Miss-context capture attempts by status",
	}, []string{"status"})
)
