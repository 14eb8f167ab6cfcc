// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "squadstats"

// Metrics groups every collector so tests can use a private registry.
type Metrics struct {
	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	Mutations          *prometheus.CounterVec
	Refreshes          *prometheus.CounterVec
	Groups             prometheus.Gauge
	CommentaryFailures prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_mutations_total",
			Help:      "Group mutations by operation and outcome.",
		}, []string{"operation", "result"}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_refreshes_total",
			Help:      "Background refreshes by outcome.",
		}, []string{"result"}),
		Groups: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups in the latest synced snapshot.",
		}),
		CommentaryFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commentary_failures_total",
			Help:      "Commentary requests answered with fallback text after an error.",
		}),
		gatherer: reg,
	}
}

// Mutation records the outcome of a group mutation.
func (m *Metrics) Mutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Mutations.WithLabelValues(operation, result).Inc()
}

// Refreshed records a successful refresh that saw groups groups.
func (m *Metrics) Refreshed(groups int) {
	m.Refreshes.WithLabelValues("ok").Inc()
	m.Groups.Set(float64(groups))
}

// RefreshFailed records a failed background refresh.
func (m *Metrics) RefreshFailed(error) {
	m.Refreshes.WithLabelValues("error").Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
