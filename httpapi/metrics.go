package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mitra-credit/shared"
)

// Metrics holds the gateway's Prometheus collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	sessionsStarted prometheus.Counter
	events          *prometheus.CounterVec
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	cors            prometheus.Counter
}

// NewMetrics registers the gateway collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mitra",
			Name:      "sessions_started_total",
			Help:      "Sessions opened through the gateway.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mitra",
			Name:      "session_events_total",
			Help:      "Session events by action and result.",
		}, []string{"action", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mitra",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mitra",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mitra",
			Name:      "cors_rejected_total",
			Help:      "Cross-origin requests from origins outside the allow list.",
		}),
	}
	m.registry.MustRegister(m.sessionsStarted, m.events, m.requests, m.latency, m.cors)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

// observeEvent counts a dispatched event. Actions outside the known set
// share one label value so clients cannot mint series.
func (m *Metrics) observeEvent(action shared.Action, result string) {
	if m == nil {
		return
	}
	label := string(action)
	if !action.Known() {
		label = "unknown"
	}
	m.events.WithLabelValues(label, result).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) corsRejected() {
	if m == nil {
		return
	}
	m.cors.Inc()
}
