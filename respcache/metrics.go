/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package respcache

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector represents a collector of metrics to analyze how (effectively or not) cache is used.
type MetricsCollector interface {
	// SetAmount sets the total number of entries in the cache.
	SetAmount(int)

	// IncHits increments the total number of successfully found keys in the cache.
	IncHits()

	// IncMisses increments the total number of not found (or expired) keys in the cache.
	IncMisses()

	// AddEvictions increments the total number of entries evicted because of the size limit.
	AddEvictions(int)

	// AddExpirations increments the total number of entries removed because of expiration.
	AddExpirations(int)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents a Prometheus metrics for the response cache.
type PrometheusMetrics struct {
	EntriesAmount    prometheus.Gauge
	HitsTotal        prometheus.Counter
	MissesTotal      prometheus.Counter
	EvictionsTotal   prometheus.Counter
	ExpirationsTotal prometheus.Counter
}

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	makeCounter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		})
	}
	return &PrometheusMetrics{
		EntriesAmount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "response_cache_entries_amount",
			Help:        "Total number of entries in the response cache.",
			ConstLabels: opts.ConstLabels,
		}),
		HitsTotal:        makeCounter("response_cache_hits_total", "Number of successfully found keys in the response cache."),
		MissesTotal:      makeCounter("response_cache_misses_total", "Number of not found or expired keys in the response cache."),
		EvictionsTotal:   makeCounter("response_cache_evictions_total", "Number of entries evicted because of the size limit."),
		ExpirationsTotal: makeCounter("response_cache_expirations_total", "Number of entries removed because of expiration."),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.EntriesAmount, pm.HitsTotal, pm.MissesTotal, pm.EvictionsTotal, pm.ExpirationsTotal)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.EntriesAmount)
	prometheus.Unregister(pm.HitsTotal)
	prometheus.Unregister(pm.MissesTotal)
	prometheus.Unregister(pm.EvictionsTotal)
	prometheus.Unregister(pm.ExpirationsTotal)
}

// SetAmount sets the total number of entries in the cache.
func (pm *PrometheusMetrics) SetAmount(amount int) {
	pm.EntriesAmount.Set(float64(amount))
}

// IncHits increments the total number of successfully found keys in the cache.
func (pm *PrometheusMetrics) IncHits() {
	pm.HitsTotal.Inc()
}

// IncMisses increments the total number of not found keys in the cache.
func (pm *PrometheusMetrics) IncMisses() {
	pm.MissesTotal.Inc()
}

// AddEvictions increments the total number of evicted entries.
func (pm *PrometheusMetrics) AddEvictions(n int) {
	pm.EvictionsTotal.Add(float64(n))
}

// AddExpirations increments the total number of expired entries.
func (pm *PrometheusMetrics) AddExpirations(n int) {
	pm.ExpirationsTotal.Add(float64(n))
}

type disabledMetrics struct{}

func (disabledMetrics) SetAmount(int)      {}
func (disabledMetrics) IncHits()           {}
func (disabledMetrics) IncMisses()         {}
func (disabledMetrics) AddEvictions(int)   {}
func (disabledMetrics) AddExpirations(int) {}
