/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import "github.com/prometheus/client_golang/prometheus"

// RequestSource tells where the result of a call came from.
type RequestSource string

// Request sources.
const (
	RequestSourceCache   RequestSource = "cache"
	RequestSourceJoined  RequestSource = "joined"
	RequestSourceNetwork RequestSource = "network"
)

// MetricsCollector collects statistics about API calls.
type MetricsCollector interface {
	// IncRequests counts a call by its method and the source of its result.
	IncRequests(method string, source RequestSource)

	// IncFailures counts calls of the network source that finally failed.
	IncFailures(method string, kind ErrorKind)

	// IncRetries counts retries (attempts after the first one).
	IncRetries(method string)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// PrometheusMetrics represents Prometheus metrics for the API client.
type PrometheusMetrics struct {
	RequestsTotal *prometheus.CounterVec
	FailuresTotal *prometheus.CounterVec
	RetriesTotal  *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	makeCounterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		}, labels)
	}
	return &PrometheusMetrics{
		RequestsTotal: makeCounterVec("api_client_requests_total",
			"Number of API calls by method and result source.", "method", "source"),
		FailuresTotal: makeCounterVec("api_client_failures_total",
			"Number of failed API calls by method and error kind.", "method", "kind"),
		RetriesTotal: makeCounterVec("api_client_retries_total",
			"Number of retried API call attempts.", "method"),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.RequestsTotal, pm.FailuresTotal, pm.RetriesTotal)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.RequestsTotal)
	prometheus.Unregister(pm.FailuresTotal)
	prometheus.Unregister(pm.RetriesTotal)
}

// IncRequests increments the number of calls.
func (pm *PrometheusMetrics) IncRequests(method string, source RequestSource) {
	pm.RequestsTotal.WithLabelValues(method, string(source)).Inc()
}

// IncFailures increments the number of failed calls.
func (pm *PrometheusMetrics) IncFailures(method string, kind ErrorKind) {
	pm.FailuresTotal.WithLabelValues(method, string(kind)).Inc()
}

// IncRetries increments the number of retries.
func (pm *PrometheusMetrics) IncRetries(method string) {
	pm.RetriesTotal.WithLabelValues(method).Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) IncRequests(string, RequestSource) {}
func (disabledMetrics) IncFailures(string, ErrorKind)     {}
func (disabledMetrics) IncRetries(string)                 {}
