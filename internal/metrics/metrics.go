// Package metrics exposes Prometheus counters for the adapter's hot
// path: cache effectiveness and provider failures. All methods are safe
// on a nil receiver, so components that don't care about metrics can
// simply pass nil.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the adapter's counters.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	providerErrors  prometheus.Counter
	requestOutcomes *prometheus.CounterVec
}

// New creates a Metrics with its own registry, so multiple adapters in
// one process never fight over metric names.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "geminibridge_cache_hits_total",
			Help: "Requests answered from the cache without a provider call.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "geminibridge_cache_misses_total",
			Help: "Requests that required a provider call.",
		}),
		providerErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "geminibridge_provider_errors_total",
			Help: "Provider calls that failed (network, auth, quota, malformed response).",
		}),
		requestOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "geminibridge_requests_total",
			Help: "Completed requests by path and outcome.",
		}, []string{"path", "outcome"}),
	}
}

// Handler serves the registry for scraping at /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheHit records a request answered from the cache.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

// CacheMiss records a request that went to the provider.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

// ProviderError records a failed provider call.
func (m *Metrics) ProviderError() {
	if m != nil {
		m.providerErrors.Inc()
	}
}

// Request records a completed request. path is "generate" or
// "embedding"; outcome is "success" or "failure".
func (m *Metrics) Request(path, outcome string) {
	if m != nil {
		m.requestOutcomes.WithLabelValues(path, outcome).Inc()
	}
}
