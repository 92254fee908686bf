package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ga_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges of the dashboard server.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec   // labels: route, code
	HTTPRequestDuration *prometheus.HistogramVec // labels: route

	Cache *prometheus.CounterVec // labels: result={hit,miss,error}

	DatasetReloads *prometheus.CounterVec // labels: outcome={success,error}
	DatasetMaxDay  prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status code.",
		}, []string{"route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route template.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
		DatasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset loads by outcome.",
		}, []string{"outcome"}),
		DatasetMaxDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_max_day",
			Help:      "Last day number of the published dataset, 0 before the first load.",
		}),
	}
}

// NewMetrics creates and registers all server metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.Cache,
		m.DatasetReloads,
		m.DatasetMaxDay,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// CacheHit, CacheMiss and CacheError count cache lookups.
func (m *Metrics) CacheHit()   { m.Cache.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss()  { m.Cache.WithLabelValues("miss").Inc() }
func (m *Metrics) CacheError() { m.Cache.WithLabelValues("error").Inc() }

// DatasetLoaded records a successful load of a dataset ending at maxDay.
func (m *Metrics) DatasetLoaded(maxDay int) {
	m.DatasetReloads.WithLabelValues("success").Inc()
	m.DatasetMaxDay.Set(float64(maxDay))
}

// DatasetLoadFailed records a failed load; the published dataset is unchanged.
func (m *Metrics) DatasetLoadFailed() {
	m.DatasetReloads.WithLabelValues("error").Inc()
}
