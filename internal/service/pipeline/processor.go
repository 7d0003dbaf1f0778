package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/metrics"
	"trendpulse/internal/service/ingestion"
)

// Ingestor fans out fetches and merges raw items by source.
type Ingestor interface {
	Ingest(ctx context.Context, limitPerSource int, filters trend.Filters, only []string) ingestion.Result
}

// EventSink receives scored trends that cleared the publish threshold.
type EventSink interface {
	TrendDetected(t trend.ScoredTrend)
}

// ProcessMetadata summarizes a full pipeline run.
type ProcessMetadata struct {
	TotalTrends    int           `json:"total_trends"`
	SourcesUsed    []string      `json:"sources_used"`
	TopScore       float64       `json:"top_score"`
	AverageScore   float64       `json:"average_score"`
	FiltersApplied trend.Filters `json:"filters_applied"`
}

// Result is the intermediate pipeline shape for callers that want
// scored records rather than the weekly report.
type Result struct {
	Trends   []trend.ScoredTrend `json:"trends"`
	Metadata ProcessMetadata     `json:"metadata"`
}

// ProcessorConfig contains configuration for the processor.
type ProcessorConfig struct {
	// ItemsPerSource is the fetch depth used when a caller does not
	// supply a per-source limit.
	ItemsPerSource int

	// ReportLimit caps the weekly report when a caller does not supply
	// a limit.
	ReportLimit int

	// DefaultRegion is injected into report formatting when no region
	// filter is given.
	DefaultRegion string

	// PublishThreshold is the minimum score for a trend-detected event.
	PublishThreshold float64
}

const (
	defaultItemsPerSource = 10
	defaultReportLimit    = 10
)

// Processor runs the full pipeline: ingest, normalize, classify,
// score, and optionally format. It never fails on data conditions; an
// empty run produces an empty result.
type Processor struct {
	ingestor   Ingestor
	normalizer *Normalizer
	classifier *Classifier
	scorer     *Scorer
	formatter  *Formatter
	events     EventSink
	config     ProcessorConfig
	log        *zap.Logger
}

// NewProcessor wires the pipeline stages together. events may be nil
// to disable trend-detected publishing.
func NewProcessor(
	ingestor Ingestor,
	normalizer *Normalizer,
	classifier *Classifier,
	scorer *Scorer,
	formatter *Formatter,
	events EventSink,
	config ProcessorConfig,
	log *zap.Logger,
) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	if config.ItemsPerSource <= 0 {
		config.ItemsPerSource = defaultItemsPerSource
	}
	if config.ReportLimit <= 0 {
		config.ReportLimit = defaultReportLimit
	}
	if config.DefaultRegion == "" {
		config.DefaultRegion = defaultRegion
	}
	return &Processor{
		ingestor:   ingestor,
		normalizer: normalizer,
		classifier: classifier,
		scorer:     scorer,
		formatter:  formatter,
		events:     events,
		config:     config,
		log:        log,
	}
}

// Process runs ingest → normalize → classify → score over all
// configured sources, or only the named subset. A non-positive
// limitPerSource falls back to the configured fetch depth.
func (p *Processor) Process(ctx context.Context, limitPerSource int, filters trend.Filters, sources []string) Result {
	start := time.Now()

	if limitPerSource <= 0 {
		limitPerSource = p.config.ItemsPerSource
	}

	ingested := p.ingestor.Ingest(ctx, limitPerSource, filters, sources)
	normalized := p.normalizer.Normalize(ingested.BySource)
	classified := p.classifier.Classify(normalized)
	scored := p.scorer.Score(classified)

	p.publish(scored)

	sourcesUsed := make([]string, 0, len(ingested.BySource))
	for _, name := range trend.KnownSources {
		if _, ok := ingested.BySource[name]; ok {
			sourcesUsed = append(sourcesUsed, name)
		}
	}

	metadata := ProcessMetadata{
		TotalTrends:    len(scored),
		SourcesUsed:    sourcesUsed,
		FiltersApplied: ingested.Metadata.FiltersApplied,
	}
	if len(scored) > 0 {
		metadata.TopScore = scored[0].TrendScore
		var sum float64
		for _, t := range scored {
			sum += t.TrendScore
		}
		metadata.AverageScore = sum / float64(len(scored))
	}

	metrics.PipelineRuns.Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	p.log.Info("pipeline run complete",
		zap.String("run_id", ingested.Metadata.RunID),
		zap.Int("raw_items", ingested.Metadata.TotalItems),
		zap.Int("trends", len(scored)),
		zap.Float64("top_score", metadata.TopScore),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Result{Trends: scored, Metadata: metadata}
}

// Summary runs the full pipeline and formats the top limit trends as
// the public weekly report. A non-positive limit falls back to the
// configured report limit; the region comes from the region filter,
// falling back to the configured default.
func (p *Processor) Summary(ctx context.Context, limit int, filters trend.Filters, sources []string) trend.Report {
	processed := p.Process(ctx, p.config.ItemsPerSource, filters, sources)

	if limit <= 0 {
		limit = p.config.ReportLimit
	}
	top := processed.Trends
	if len(top) > limit {
		top = top[:limit]
	}

	region := filters["region"]
	if region == "" {
		region = p.config.DefaultRegion
	}
	return p.formatter.Format(top, region, "")
}

func (p *Processor) publish(scored []trend.ScoredTrend) {
	if p.events == nil {
		return
	}
	for _, t := range scored {
		if t.TrendScore >= p.config.PublishThreshold {
			p.events.TrendDetected(t)
		}
	}
}
