package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "interconnect"

// Metrics holds the Prometheus counters, histograms, and gauges for the pipeline stages.
type Metrics struct {
	// Stage throughput. labels: stage.
	RowsRead     *prometheus.CounterVec
	RowsWritten  *prometheus.CounterVec
	RowsDropped  *prometheus.CounterVec // labels: stage, reason
	StageErrors  *prometheus.CounterVec
	StageRunning *prometheus.GaugeVec

	StageDuration *prometheus.HistogramVec

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider

	// Mapbox Uploads API and S3 staging. labels: endpoint={credentials,s3,publish}, outcome={success,error}
	UploadRequests *prometheus.CounterVec

	// Records published to the optional Kafka sink.
	RecordsProduced prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from a stage's input files.",
		}, []string{"stage"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to a stage's output files.",
		}, []string{"stage"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped by a stage, by reason.",
		}, []string{"stage", "reason"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Stage runs that ended in an error.",
		}, []string{"stage"}),
		StageRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_running",
			Help:      "1 while a stage is running, 0 otherwise.",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of a complete stage run.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 1800},
		}, []string{"stage"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		UploadRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_requests_total",
			Help:      "Tileset upload calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		RecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_produced_total",
			Help:      "Merged records written to the Kafka sink.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsWritten,
		m.RowsDropped,
		m.StageErrors,
		m.StageRunning,
		m.StageDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.UploadRequests,
		m.RecordsProduced,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m, _ := NewMetricsWithRegistry()
	return m
}

// NewMetricsWithRegistry creates Metrics registered with a new private
// registry, which is returned for gathering.
func NewMetricsWithRegistry() (*Metrics, *prometheus.Registry) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	return m, reg
}

// WriteTextfile dumps every metric in the default registry to path in the
// node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
