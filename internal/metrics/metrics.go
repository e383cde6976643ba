// Package metrics exposes prometheus instrumentation for the validation
// engine and the lookup cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"biovalid/pkg/domain"
)

// Metrics holds every collector the service registers. Construct one per
// registry; it satisfies the lookup cache's Observer interface.
type Metrics struct {
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	lookupTotal    *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec

	validationRuns     prometheus.Counter
	samplesValidated   *prometheus.CounterVec
	validationFailures prometheus.Counter
}

// New registers all collectors on reg and returns the handle.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biovalid_lookup_cache_hits_total",
			Help: "Lookup cache hits by entry kind",
		}, []string{"kind"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biovalid_lookup_cache_misses_total",
			Help: "Lookup cache misses by entry kind",
		}, []string{"kind"}),
		lookupTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biovalid_lookup_requests_total",
			Help: "Outbound lookup calls by service and outcome",
		}, []string{"service", "outcome"}),
		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biovalid_lookup_duration_seconds",
			Help:    "Outbound lookup latency by service",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"service"}),
		validationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "biovalid_validation_runs_total",
			Help: "Completed validation runs",
		}),
		samplesValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biovalid_samples_validated_total",
			Help: "Validated samples by sample type and outcome",
		}, []string{"sample_type", "outcome"}),
		validationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "biovalid_validation_failures_total",
			Help: "Validation runs aborted by a fatal error",
		}),
	}
}

// CacheHit implements lookup.Observer.
func (m *Metrics) CacheHit(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

// CacheMiss implements lookup.Observer.
func (m *Metrics) CacheMiss(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

// LookupOutcome implements lookup.Observer.
func (m *Metrics) LookupOutcome(service, outcome string, seconds float64) {
	m.lookupTotal.WithLabelValues(service, outcome).Inc()
	m.lookupDuration.WithLabelValues(service).Observe(seconds)
}

// RunCompleted records one finished validation run and its per-type
// valid/invalid sample counts.
func (m *Metrics) RunCompleted(result *domain.BatchResult) {
	m.validationRuns.Inc()
	for _, sampleType := range result.Processed {
		summary := result.Types[sampleType].Summary
		m.samplesValidated.WithLabelValues(sampleType, "valid").Add(float64(summary.Valid))
		m.samplesValidated.WithLabelValues(sampleType, "invalid").Add(float64(summary.Invalid))
	}
}

// RunFailed records a validation run aborted by a fatal error.
func (m *Metrics) RunFailed() {
	m.validationFailures.Inc()
}
