// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	actionsLogged       *prometheus.CounterVec
	toggleFailures      prometheus.Counter
	bulkItemsAffected   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	m.actionsLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actions_logged_total",
			Help: "Action log entries written, by action type",
		},
		[]string{"action_type"},
	)
	m.toggleFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopping_toggle_failures_total",
		Help: "Optimistic taken toggles that failed and were reverted",
	})
	m.bulkItemsAffected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_items_affected_total",
			Help: "Items changed by bulk operations",
		},
		[]string{"operation"}, // move, delete, pack
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.actionsLogged,
		m.toggleFailures,
		m.bulkItemsAffected,
	)
	return m
}

func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) ActionLogged(actionType string) {
	m.actionsLogged.WithLabelValues(actionType).Inc()
}

func (m *Metrics) ToggleFailed() {
	m.toggleFailures.Inc()
}

func (m *Metrics) BulkAffected(operation string, n int64) {
	if n > 0 {
		m.bulkItemsAffected.WithLabelValues(operation).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
