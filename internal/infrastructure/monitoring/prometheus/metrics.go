// Package prometheus exposes the engine's operational metrics.  The engine
// only increments collectors; serving them (promhttp or push) is the embedding
// application's concern, keeping the analysis core free of transport code.
package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric emitted by the engine.
const namespace = "brandlens"

// EngineMetrics holds all collectors the visibility engine emits.
type EngineMetrics struct {
	// AnalysesTotal counts completed top-level operations, labelled by
	// operation ("analyze" | "compute_metrics" | "analyze_queries") and
	// method ("real" | "simulated").
	AnalysesTotal *prometheus.CounterVec

	// AnalysisDuration observes wall-clock seconds per top-level operation.
	AnalysisDuration *prometheus.HistogramVec

	// ProviderRequestsTotal counts chat-completion and embedding backend
	// calls, labelled by provider name and outcome ("ok" | "error").
	ProviderRequestsTotal *prometheus.CounterVec

	// MetricFallbacksTotal counts per-metric fallback activations, labelled
	// by metric name.  A spike means the embedding backend or providers are
	// degraded.
	MetricFallbacksTotal *prometheus.CounterVec

	// QueryCacheHitsTotal counts memoized query-generation lookups,
	// labelled by outcome ("hit" | "miss").
	QueryCacheHitsTotal *prometheus.CounterVec
}

// NewEngineMetrics constructs the collector set and registers it on the given
// registerer.  Pass prometheus.DefaultRegisterer for normal operation or a
// fresh registry in tests.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed engine operations by operation and analysis method.",
		}, []string{"operation", "method"}),
		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall-clock duration of engine operations.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"operation"}),
		ProviderRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Chat-completion and embedding backend calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		MetricFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metric_fallbacks_total",
			Help:      "Deterministic fallback activations by metric name.",
		}, []string{"metric"}),
		QueryCacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_lookups_total",
			Help:      "Query-generation memoization lookups by outcome.",
		}, []string{"outcome"}),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *EngineMetrics
)

// Default returns the process-wide EngineMetrics registered on the default
// prometheus registry.  Construction happens once; subsequent calls return
// the same instance.
func Default() *EngineMetrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewEngineMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}
