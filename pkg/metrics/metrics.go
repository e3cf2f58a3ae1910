// Package metrics exposes Prometheus collectors for query runs and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

const namespace = "agent_eval"

// Metrics owns a private registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	queries      *prometheus.CounterVec
	queryLatency prometheus.Histogram
	toolCalls    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries sent to the agent endpoint, by outcome.",
		}, []string{"outcome"}),
		queryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent waiting for one agent turn.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls made by the agent, by tool name.",
		}, []string{"tool"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.queries, m.queryLatency, m.toolCalls, m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveQuery records one finished query.
func (m *Metrics) ObserveQuery(result models.NormalizedResult, duration time.Duration) {
	outcome := "success"
	if !result.Succeeded {
		outcome = "error"
	}
	m.queries.WithLabelValues(outcome).Inc()
	m.queryLatency.Observe(duration.Seconds())

	for _, call := range result.ToolCalls {
		name := "unknown"
		if call.Name != nil {
			name = *call.Name
		}
		m.toolCalls.WithLabelValues(name).Inc()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
