package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vitals-service/internal/models"
)

// Metrics owns every collector of the service on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	activeRooms       prometheus.Gauge
	refreshDuration   prometheus.Histogram
	refreshFailures   prometheus.Counter
	snapshotsTotal    *prometheus.CounterVec
	alertsTotal       *prometheus.CounterVec
	eventsDropped     prometheus.Counter
	sinkErrors        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vitals_active_rooms",
			Help: "Number of rooms currently monitored.",
		}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vitals_refresh_duration_seconds",
			Help:    "Duration of one background refresh pass over all rooms.",
			Buckets: prometheus.DefBuckets,
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitals_refresh_failures_total",
			Help: "Rooms that failed to refresh.",
		}),
		snapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_snapshots_total",
			Help: "Snapshots stored by status tier.",
		}, []string{"status"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_alerts_total",
			Help: "Status transition alerts by type and status.",
		}, []string{"type", "status"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitals_events_dropped_total",
			Help: "Events dropped because the dispatch queue was full.",
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_sink_errors_total",
			Help: "Delivery failures by sink.",
		}, []string{"sink"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.activeRooms,
		m.refreshDuration,
		m.refreshFailures,
		m.snapshotsTotal,
		m.alertsTotal,
		m.eventsDropped,
		m.sinkErrors,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) SetActiveRooms(n int) {
	if m == nil {
		return
	}
	m.activeRooms.Set(float64(n))
}

func (m *Metrics) ObserveRefresh(d time.Duration, failures int) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(d.Seconds())
	m.refreshFailures.Add(float64(failures))
}

func (m *Metrics) SnapshotStored(status models.Status) {
	if m == nil {
		return
	}
	m.snapshotsTotal.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) AlertRaised(a models.Alert) {
	if m == nil {
		return
	}
	m.alertsTotal.WithLabelValues(a.Type, string(a.Status)).Inc()
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

func (m *Metrics) SinkFailed(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}
