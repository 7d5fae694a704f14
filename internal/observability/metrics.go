package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "laus_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a fetch run.
type Metrics struct {
	CountiesRequested prometheus.Counter
	CountyOutcomes    *prometheus.CounterVec // labels: outcome={found,missing,malformed,transport_error,normalize_error}
	RecordsPersisted  prometheus.Counter
	FetchRunning      prometheus.Gauge

	// BLS API metrics.
	APIRequests  *prometheus.CounterVec // labels: outcome={success,transport,status,body}
	APIDuration  prometheus.Histogram
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,error}

	// Sink metrics.
	SinkErrors      *prometheus.CounterVec   // labels: sink={file,kafka,postgres}
	PersistDuration *prometheus.HistogramVec // labels: sink
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CountiesRequested,
		m.CountyOutcomes,
		m.RecordsPersisted,
		m.FetchRunning,
		m.APIRequests,
		m.APIDuration,
		m.CacheLookups,
		m.SinkErrors,
		m.PersistDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CountiesRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "counties_requested_total",
			Help:      "Counties for which a series was requested.",
		}),
		CountyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "county_outcomes_total",
			Help:      "Per-county fetch outcomes.",
		}, []string{"outcome"}),
		RecordsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "Normalized records added to the aggregate.",
		}),
		FetchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_running",
			Help:      "1 while a fetch run is in progress.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bls_requests_total",
			Help:      "BLS API requests by outcome.",
		}, []string{"outcome"}),
		APIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bls_request_duration_seconds",
			Help:      "BLS API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed series writes by sink.",
		}, []string{"sink"}),
		PersistDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Time to write one county's series to a sink.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"sink"}),
	}
}
