// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "jellybrowse"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	EngineRequests *prometheus.CounterVec
	EngineDuration *prometheus.HistogramVec

	CatalogRequests *prometheus.CounterVec
	CatalogDuration *prometheus.HistogramVec

	SearchFanoutFailures *prometheus.CounterVec

	TasksInFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg, or with the
// default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		EngineRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Browsing engine operations by result code.",
		}, []string{"operation", "result"}),
		EngineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "request_duration_seconds",
			Help:      "Browsing engine operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"operation"}),
		CatalogRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "catalog",
			Name:      "requests_total",
			Help:      "HTTP attempts against the catalog server by status code (0 = network error).",
		}, []string{"label", "status"}),
		CatalogDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "catalog",
			Name:      "request_duration_seconds",
			Help:      "Catalog server round-trip time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"label"}),
		SearchFanoutFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "search",
			Name:      "fanout_failures_total",
			Help:      "Failed search sub-queries by result group.",
		}, []string{"group"}),
		TasksInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "tasks_in_flight",
			Help:      "Host requests currently being served.",
		}),
	}
}

// ObserveEngine records one engine operation.
func (m *Metrics) ObserveEngine(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.EngineRequests.WithLabelValues(operation, result).Inc()
	m.EngineDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveCatalog records one catalog HTTP attempt. Its signature matches
// api.Observer.
func (m *Metrics) ObserveCatalog(label string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.CatalogRequests.WithLabelValues(label, strconv.Itoa(status)).Inc()
	m.CatalogDuration.WithLabelValues(label).Observe(d.Seconds())
}

// SearchFailed counts a failed search sub-query.
func (m *Metrics) SearchFailed(group string) {
	if m == nil {
		return
	}
	m.SearchFanoutFailures.WithLabelValues(group).Inc()
}

// TaskStarted marks a host request as in flight and returns the func that
// ends it.
func (m *Metrics) TaskStarted() (done func()) {
	if m == nil {
		return func() {}
	}
	m.TasksInFlight.Inc()
	return m.TasksInFlight.Dec
}
