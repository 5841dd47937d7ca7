// Package metrics exposes Prometheus metrics for ingestion runs.
package metrics

import (
	"context"
	"net/http"

	"newsnotes/ingest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsnotes"

// Recorder turns run reports into metrics. It satisfies ingest.Publisher.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	recordsTotal  *prometheus.CounterVec
	fieldMisses   prometheus.Counter
	runDuration   prometheus.Histogram
	candidates    prometheus.Histogram
	lastSuccessAt prometheus.Gauge
}

// NewRecorder registers the ingestion metrics plus Go and process collectors
// on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingestion runs by outcome and failed stage",
		}, []string{"mode", "outcome", "stage"}),
		recordsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_records_total",
			Help:      "Candidate records by processing status",
		}, []string{"status"}),
		fieldMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_field_misses_total",
			Help:      "Fields whose selector chain did not resolve",
		}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_run_duration_seconds",
			Help:      "Wall time of ingestion runs",
			Buckets:   prometheus.DefBuckets,
		}),
		candidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_candidates",
			Help:      "Candidate records seen per run",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		lastSuccessAt: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
}

// PublishReport records one finished run
func (r *Recorder) PublishReport(ctx context.Context, report *ingest.Report) error {
	outcome := "success"
	if !report.Succeeded {
		outcome = "failure"
	}
	r.runsTotal.WithLabelValues(string(report.Mode), outcome, string(report.Stage)).Inc()
	r.runDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	if !report.Succeeded {
		return nil
	}
	r.candidates.Observe(float64(report.CandidatesSeen))
	r.fieldMisses.Add(float64(report.FieldMisses))
	r.recordsTotal.WithLabelValues(string(ingest.StatusCreated)).Add(float64(report.Created))
	r.recordsTotal.WithLabelValues(string(ingest.StatusUpdated)).Add(float64(report.Updated))
	r.recordsTotal.WithLabelValues(string(ingest.StatusFailed)).Add(float64(report.Failed))
	r.recordsTotal.WithLabelValues("removed").Add(float64(report.Removed))
	r.lastSuccessAt.Set(float64(report.FinishedAt.Unix()))
	return nil
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
