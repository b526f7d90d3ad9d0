// Package observability bundles Prometheus collectors for the assistant.
// Collectors live on a private registry; an HTTP listener is optional and
// only started when configured.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the dispatcher and toolkit.
type Metrics struct {
	registry        *prometheus.Registry
	IntentsResolved *prometheus.CounterVec
	ToolRuns        *prometheus.CounterVec
	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
	SearchRequests  *prometheus.CounterVec
	SessionTurns    prometheus.Counter
}

// NewMetrics constructs a metrics registry with assistant collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_intents_resolved_total",
		Help: "Resolved intents by name",
	}, []string{"intent"})

	toolRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_tool_runs_total",
		Help: "Toolkit operations by tool and outcome",
	}, []string{"tool", "outcome"})

	gatewayReqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_gateway_requests_total",
		Help: "Completion gateway requests by route and status",
	}, []string{"route", "status"})

	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nova_gateway_latency_seconds",
		Help:    "Completion gateway round-trip latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	searchReqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nova_search_requests_total",
		Help: "Web search requests by outcome",
	}, []string{"outcome"})

	turns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nova_session_turns_total",
		Help: "Processed conversation turns",
	})

	reg.MustRegister(intents, toolRuns, gatewayReqs, gatewayLatency, searchReqs, turns)

	return &Metrics{
		registry:        reg,
		IntentsResolved: intents,
		ToolRuns:        toolRuns,
		GatewayRequests: gatewayReqs,
		GatewayLatency:  gatewayLatency,
		SearchRequests:  searchReqs,
		SessionTurns:    turns,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordIntent counts a resolved intent.
func (m *Metrics) RecordIntent(intent string) {
	if m == nil {
		return
	}
	if intent == "" {
		intent = "unknown"
	}
	m.IntentsResolved.WithLabelValues(intent).Inc()
}

// RecordToolRun counts a toolkit operation outcome.
func (m *Metrics) RecordToolRun(tool string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.ToolRuns.WithLabelValues(tool, outcome).Inc()
}

// RecordGatewayRequest counts a gateway round trip and its latency.
func (m *Metrics) RecordGatewayRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "default"
	}
	if status == "" {
		status = "unknown"
	}
	m.GatewayRequests.WithLabelValues(route, status).Inc()
	m.GatewayLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordSearch counts a web search outcome.
func (m *Metrics) RecordSearch(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.SearchRequests.WithLabelValues(outcome).Inc()
}

// RecordTurn counts one processed conversation turn.
func (m *Metrics) RecordTurn() {
	if m == nil {
		return
	}
	m.SessionTurns.Inc()
}
