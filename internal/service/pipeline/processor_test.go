package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/service/ingestion"
)

type fakeSource struct {
	name  string
	items []trend.RawItem

	gotLimit int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(_ context.Context, limit int, _ trend.Filters) []trend.RawItem {
	s.gotLimit = limit
	if limit < len(s.items) {
		return s.items[:limit]
	}
	return s.items
}

type recordingSink struct {
	published []string
}

func (r *recordingSink) TrendDetected(t trend.ScoredTrend) {
	r.published = append(r.published, t.ID)
}

func newTestProcessor(sink EventSink, sources ...trend.Source) *Processor {
	return newTestProcessorWithConfig(
		ProcessorConfig{DefaultRegion: "US", PublishThreshold: 60},
		sink, sources...,
	)
}

func newTestProcessorWithConfig(cfg ProcessorConfig, sink EventSink, sources ...trend.Source) *Processor {
	log := zap.NewNop()
	return NewProcessor(
		ingestion.NewCoordinator(log, sources...),
		NewNormalizer(log, fixedNow),
		NewClassifier(log),
		NewScorer(log, fixedNow),
		NewFormatter(fixedNow),
		sink,
		cfg,
		log,
	)
}

func testSources() []trend.Source {
	return []trend.Source{
		&fakeSource{name: trend.SourceGoogleTrends, items: []trend.RawItem{
			{"id": "gt_1", "keyword": "summer dress", "trend_score": 95, "timestamp": "2026-01-20T12:00:00Z"},
		}},
		&fakeSource{name: trend.SourceTikTok, items: []trend.RawItem{
			{"id": "tt_1", "title": "random video", "like_count": 10},
		}},
	}
}

func TestProcessEndToEnd(t *testing.T) {
	sink := &recordingSink{}
	p := newTestProcessor(sink, testSources()...)

	result := p.Process(context.Background(), 10, nil, nil)
	require.Len(t, result.Trends, 2)

	// The credible, facet-rich google_trends item outranks the bare
	// tiktok one.
	assert.Equal(t, "gt_1", result.Trends[0].ID)
	assert.Equal(t, "tt_1", result.Trends[1].ID)
	assert.InDelta(t, 66.93, result.Trends[0].TrendScore, 0.01)
	assert.InDelta(t, 55.29, result.Trends[1].TrendScore, 0.01)

	assert.Equal(t, 2, result.Metadata.TotalTrends)
	assert.Equal(t, []string{trend.SourceGoogleTrends, trend.SourceTikTok}, result.Metadata.SourcesUsed)
	assert.InDelta(t, result.Trends[0].TrendScore, result.Metadata.TopScore, 0.001)

	// Only the trend above the publish threshold is emitted.
	assert.Equal(t, []string{"gt_1"}, sink.published)
}

func TestProcessSourceSubset(t *testing.T) {
	p := newTestProcessor(nil, testSources()...)

	result := p.Process(context.Background(), 10, nil, []string{trend.SourceTikTok})
	require.Len(t, result.Trends, 1)
	assert.Equal(t, "tt_1", result.Trends[0].ID)
	assert.Equal(t, []string{trend.SourceTikTok}, result.Metadata.SourcesUsed)
}

func TestProcessIdempotent(t *testing.T) {
	p := newTestProcessor(nil, testSources()...)

	first := p.Process(context.Background(), 10, nil, nil)
	second := p.Process(context.Background(), 10, nil, nil)
	assert.Equal(t, first.Trends, second.Trends)
}

func TestSummaryReport(t *testing.T) {
	p := newTestProcessor(nil, testSources()...)

	report := p.Summary(context.Background(), 1, nil, nil)
	assert.Equal(t, "2026-W04", report.Week)
	assert.Equal(t, "US", report.Region)
	require.Len(t, report.Trends, 1)

	entry := report.Trends[0]
	assert.Equal(t, "summer dress", entry.Name)
	assert.Equal(t, trend.StatusStable, entry.Status)
	assert.InDelta(t, 0.67, entry.Score, 0.001)
}

func TestConfiguredLimitsFlowThrough(t *testing.T) {
	gt := &fakeSource{name: trend.SourceGoogleTrends, items: []trend.RawItem{
		{"id": "gt_1", "keyword": "summer dress", "trend_score": 95, "timestamp": "2026-01-20T12:00:00Z"},
		{"id": "gt_2", "keyword": "cargo pants", "trend_score": 90, "timestamp": "2026-01-20T12:00:00Z"},
		{"id": "gt_3", "keyword": "knit vest", "trend_score": 85, "timestamp": "2026-01-20T12:00:00Z"},
	}}
	p := newTestProcessorWithConfig(
		ProcessorConfig{ItemsPerSource: 2, ReportLimit: 1, DefaultRegion: "US", PublishThreshold: 60},
		nil, gt,
	)

	// A non-positive per-source limit falls back to the configured
	// fetch depth.
	result := p.Process(context.Background(), 0, nil, nil)
	assert.Equal(t, 2, gt.gotLimit)
	require.Len(t, result.Trends, 2)

	// Summary fetches at the configured depth and caps the report at
	// the configured limit when the caller supplies none.
	report := p.Summary(context.Background(), 0, nil, nil)
	assert.Equal(t, 2, gt.gotLimit)
	require.Len(t, report.Trends, 1)
	assert.Equal(t, "summer dress", report.Trends[0].Name)
}

func TestSummaryRegionFilter(t *testing.T) {
	p := newTestProcessor(nil, testSources()...)

	report := p.Summary(context.Background(), 10, trend.Filters{"region": "FR"}, nil)
	assert.Equal(t, "FR", report.Region)
}
