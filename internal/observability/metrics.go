package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline and its HTTP surface.
type Metrics struct {
	RecordsRead    prometheus.Counter
	RecordsCleaned prometheus.Counter
	RecordsDropped prometheus.Counter
	UnitFallbacks  prometheus.Counter
	UndatedRecords prometheus.Counter

	RunDuration   prometheus.Histogram
	PipelineReady prometheus.Gauge

	RecordsExported prometheus.Counter

	ReportRequests *prometheus.CounterVec // labels: endpoint, status
	ReportCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_read_total",
			Help:      "Total raw records read from the dataset.",
		}),
		RecordsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_cleaned_total",
			Help:      "Total records that passed normalization.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_dropped_total",
			Help:      "Total records dropped because no vocabulary entry matched.",
		}),
		UnitFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "unit_fallbacks_total",
			Help:      "Total damage fields carrying an unrecognized unit code.",
		}),
		UndatedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "undated_records_total",
			Help:      "Total cleaned records whose begin date could not be parsed.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-normalize-aggregate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "pipeline_ready",
			Help:      "1 once a cleaned snapshot is available, 0 before.",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_exported_total",
			Help:      "Total cleaned records published to the export topic.",
		}),
		ReportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "report_requests_total",
			Help:      "Report API requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "report_cache_total",
			Help:      "Report response cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RecordsRead,
		m.RecordsCleaned,
		m.RecordsDropped,
		m.UnitFallbacks,
		m.UndatedRecords,
		m.RunDuration,
		m.PipelineReady,
		m.RecordsExported,
		m.ReportRequests,
		m.ReportCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsRead:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_read_total"}),
		RecordsCleaned:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_cleaned_total"}),
		RecordsDropped:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_dropped_total"}),
		UnitFallbacks:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "unit_fallbacks_total"}),
		UndatedRecords:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "undated_records_total"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_report", Name: "run_duration_seconds"}),
		PipelineReady:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "pipeline_ready"}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_exported_total"}),
		ReportRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "report_requests_total"}, []string{"endpoint", "status"}),
		ReportCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "report_cache_total"}, []string{"result"}),
	}
}
