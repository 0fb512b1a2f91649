package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mockapi"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	notFound        *prometheus.CounterVec
	performanceLoop prometheus.Histogram
	inFlight        prometheus.Gauge
}

var (
	defaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// NewMetrics creates a new Metrics instance. uptime is sampled on every
// scrape; server is attached to all series as a constant label so
// instances behind the same load balancer can be told apart.
func NewMetrics(server string, uptime func() time.Duration) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"server": server}

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency in seconds",
				Buckets:     defaultBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "http_response_size_bytes",
				Help:        "HTTP response size in bytes",
				Buckets:     prometheus.ExponentialBuckets(100, 10, 6),
				ConstLabels: constLabels,
			},
			[]string{"method", "route"},
		),
		notFound: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "resource_not_found_total",
				Help:        "Lookups by id that matched no record",
				ConstLabels: constLabels,
			},
			[]string{"resource"},
		),
		performanceLoop: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "performance_loop_seconds",
				Help:        "Time spent in the /performance summation loop",
				Buckets:     prometheus.ExponentialBuckets(0.00001, 4, 8),
				ConstLabels: constLabels,
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "http_requests_in_flight",
				Help:        "Number of requests currently being served",
				ConstLabels: constLabels,
			},
		),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.responseSize,
		m.notFound,
		m.performanceLoop,
		m.inFlight,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "uptime_seconds",
				Help:        "Seconds since the server started",
				ConstLabels: constLabels,
			},
			func() float64 { return uptime().Seconds() },
		),
		collectors.NewGoCollector(),
	)

	return m
}

// RecordRequest records request metrics. route is the matched route
// template, not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration, responseSize int64) {
	statusStr := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, route, statusStr).Inc()
	m.requestDuration.WithLabelValues(method, route, statusStr).Observe(duration.Seconds())
	m.responseSize.WithLabelValues(method, route).Observe(float64(responseSize))
}

// RecordNotFound counts a lookup for a missing resource ("post", "user")
func (m *Metrics) RecordNotFound(resource string) {
	m.notFound.WithLabelValues(resource).Inc()
}

// ObservePerformanceLoop records one run of the performance workload
func (m *Metrics) ObservePerformanceLoop(d time.Duration) {
	m.performanceLoop.Observe(d.Seconds())
}

// IncInFlight increments in-flight requests
func (m *Metrics) IncInFlight() {
	m.inFlight.Inc()
}

// DecInFlight decrements in-flight requests
func (m *Metrics) DecInFlight() {
	m.inFlight.Dec()
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
