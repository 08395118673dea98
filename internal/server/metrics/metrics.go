// Package metrics exposes Prometheus counters for the auth endpoints.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Guard decisions.
const (
	GuardAllowed      = "allowed"
	GuardMissingToken = "missing_token"
	GuardInvalidToken = "invalid_token"
)

// Metrics holds the collectors registered for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthOutcomes    *prometheus.CounterVec
	GuardDecisions  *prometheus.CounterVec
}

// New creates a private registry with the runtime collectors and the auth
// metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthkeeper_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "healthkeeper_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthkeeper_auth_operations_total",
				Help: "Total number of account operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthkeeper_auth_guard_decisions_total",
				Help: "Total number of authorization guard decisions",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.AuthOutcomes, m.GuardDecisions)

	return m
}

// RecordRequest counts a finished HTTP request.
func (m *Metrics) RecordRequest(route, code string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, code).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordOutcome counts an account operation result, e.g. ("login", "unauthorized").
func (m *Metrics) RecordOutcome(operation, outcome string) {
	m.AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordGuard(result string) {
	m.GuardDecisions.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
