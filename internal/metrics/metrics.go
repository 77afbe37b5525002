package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the analytics service.
type Metrics struct {
	EventsIngested    *prometheus.CounterVec
	EventsRejected    prometheus.Counter
	AnalyticsRequests *prometheus.CounterVec
	AnalyticsLatency  *prometheus.HistogramVec
	ABVerdicts        *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_events_ingested_total",
			Help: "Total email events accepted from webhooks by status",
		}, []string{"status"}),

		EventsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "marketing_events_rejected_total",
			Help: "Total webhook events dropped as unrecognized or invalid",
		}),

		AnalyticsRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_analytics_requests_total",
			Help: "Total analytics operations by operation and result",
		}, []string{"operation", "result"}),

		AnalyticsLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketing_analytics_latency_seconds",
			Help:    "Analytics operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),

		ABVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_ab_verdicts_total",
			Help: "A/B test comparisons by winning variant",
		}, []string{"winner"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "marketing_cache_hits_total",
			Help: "Metric cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "marketing_cache_misses_total",
			Help: "Metric cache misses",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketing_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),

		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEventIngested increments the ingested-event counter for a status.
func (m *Metrics) RecordEventIngested(status string) {
	m.EventsIngested.WithLabelValues(status).Inc()
}

// RecordEventRejected increments the rejected-event counter.
func (m *Metrics) RecordEventRejected() {
	m.EventsRejected.Inc()
}

// RecordAnalytics records an analytics operation outcome and latency.
func (m *Metrics) RecordAnalytics(operation, result string, seconds float64) {
	m.AnalyticsRequests.WithLabelValues(operation, result).Inc()
	m.AnalyticsLatency.WithLabelValues(operation).Observe(seconds)
}

// RecordABVerdict increments the verdict counter for a winner label.
func (m *Metrics) RecordABVerdict(winner string) {
	m.ABVerdicts.WithLabelValues(winner).Inc()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Metrics) RecordHTTPRequest(method, path, status string, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(seconds)
}
