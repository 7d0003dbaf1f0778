// Package metrics exposes Prometheus instrumentation for the trend
// pipeline. All collectors register on the default registry and are
// served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts completed pipeline runs.
	PipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendpulse_pipeline_runs_total",
		Help: "Number of completed trend pipeline runs.",
	})

	// PipelineDuration observes end-to-end pipeline run latency.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trendpulse_pipeline_duration_seconds",
		Help:    "End-to-end duration of a trend pipeline run.",
		Buckets: prometheus.DefBuckets,
	})

	// SourceItems counts raw items ingested, labelled by source.
	SourceItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendpulse_source_items_total",
		Help: "Raw items returned by each source collaborator.",
	}, []string{"source"})

	// SourceFailures counts fetches that panicked, labelled by source.
	// An empty result from a healthy source is not a failure.
	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendpulse_source_failures_total",
		Help: "Source fetches that failed outright.",
	}, []string{"source"})

	// NormalizeDrops counts items skipped during normalization.
	NormalizeDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendpulse_normalize_drops_total",
		Help: "Raw items dropped by the normalizer.",
	})
)
