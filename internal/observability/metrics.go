package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	InferenceCalls   *prometheus.CounterVec
	InferenceLatency prometheus.Histogram
	ChatTurnsStored  prometheus.Counter
}

// NewMetrics registers the instruments on reg. Tests pass a fresh registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		InferenceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_calls_total",
			Help:      "Inference gateway calls by outcome.",
		}, []string{"outcome"}),
		InferenceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_latency_seconds",
			Help:      "Latency of inference gateway calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		ChatTurnsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_stored_total",
			Help:      "Chat turns persisted to the history store.",
		}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.InferenceCalls, m.InferenceLatency, m.ChatTurnsStored)
	return m
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveInference records one gateway call. outcome is "ok" or an error class.
func (m *Metrics) ObserveInference(outcome string, d time.Duration) {
	m.InferenceCalls.WithLabelValues(outcome).Inc()
	m.InferenceLatency.Observe(d.Seconds())
}

func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
