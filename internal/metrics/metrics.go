// Package metrics exposes Prometheus instrumentation for the dashboard
// service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "insights"

// Metrics holds all dashboard Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Retrieval
	FetchDuration     prometheus.Histogram
	RetrievalFailures *prometheus.CounterVec
	SummaryCache      *prometheus.CounterVec

	// Import
	ImportRecords *prometheus.CounterVec
}

// New registers every metric on a fresh registry
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers every metric on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{registry: reg}
	factory := promauto.With(reg)
	initHTTPMetrics(m, factory)
	initRetrievalMetrics(m, factory)
	initImportMetrics(m, factory)
	return m
}

func initHTTPMetrics(m *Metrics, f promauto.Factory) {
	m.Requests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	m.RequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func initRetrievalMetrics(m *Metrics, f promauto.Factory) {
	m.FetchDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time to retrieve filtered records from the store",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	})

	m.RetrievalFailures = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retrieval_failures_total",
		Help:      "Failed store retrievals by kind",
	}, []string{"kind"})

	m.SummaryCache = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_cache_total",
		Help:      "Summary cache lookups by result (hit, miss, error)",
	}, []string{"result"})
}

func initImportMetrics(m *Metrics, f promauto.Factory) {
	m.ImportRecords = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_records_total",
		Help:      "Imported records by outcome (stored, rejected)",
	}, []string{"outcome"})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveFetch records a store retrieval; kind is empty on success
func (m *Metrics) ObserveFetch(d time.Duration, kind string) {
	m.FetchDuration.Observe(d.Seconds())
	if kind != "" {
		m.RetrievalFailures.WithLabelValues(kind).Inc()
	}
}

// CacheResult counts a summary cache lookup
func (m *Metrics) CacheResult(result string) {
	m.SummaryCache.WithLabelValues(result).Inc()
}

// Imported counts records stored and rejected by an import run
func (m *Metrics) Imported(stored, rejected int) {
	m.ImportRecords.WithLabelValues("stored").Add(float64(stored))
	m.ImportRecords.WithLabelValues("rejected").Add(float64(rejected))
}

// Handler returns the Prometheus HTTP handler for /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
