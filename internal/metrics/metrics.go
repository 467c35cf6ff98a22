// Package metrics holds the Prometheus collectors of the dashboard on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labdesk/internal/core"
)

const namespace = "labdesk"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	gridRenders  *prometheus.CounterVec
	visibleRows  *prometheus.GaugeVec
	anomalies    *prometheus.CounterVec
	ledgerEvents *prometheus.CounterVec
	rateLimited  prometheus.Counter
	cacheEvicted prometheus.Counter
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		gridRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "renders_total",
			Help:      "Grid views rendered by table.",
		}, []string{"table"}),
		visibleRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "grid",
			Name:      "visible_rows",
			Help:      "Rows visible in the last rendered view by table.",
		}, []string{"table"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Flagged records by anomaly kind.",
		}, []string{"kind"}),
		ledgerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "events_total",
			Help:      "Ledger events by type and publish outcome.",
		}, []string{"type", "outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		cacheEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "expired_entries_total",
			Help:      "Grid state entries removed by the cleanup sweep.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.gridRenders,
		m.visibleRows,
		m.anomalies,
		m.ledgerEvents,
		m.rateLimited,
		m.cacheEvicted,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) GridRendered(table string, visibleRows int) {
	m.gridRenders.WithLabelValues(table).Inc()
	m.visibleRows.WithLabelValues(table).Set(float64(visibleRows))
}

func (m *Metrics) RecordAnomaly(kind core.AnomalyKind) {
	m.anomalies.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) LedgerEventPublished(eventType string) {
	m.ledgerEvents.WithLabelValues(eventType, "published").Inc()
}

func (m *Metrics) LedgerEventFailed(eventType string) {
	m.ledgerEvents.WithLabelValues(eventType, "failed").Inc()
}

func (m *Metrics) RateLimited() { m.rateLimited.Inc() }

func (m *Metrics) CacheExpired(n int) { m.cacheEvicted.Add(float64(n)) }
