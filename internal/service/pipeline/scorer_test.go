package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

func classifiedTrend(id, source, timestamp string, m trend.EngagementMetrics, c trend.Classification) trend.ClassifiedTrend {
	return trend.ClassifiedTrend{
		NormalizedTrend: trend.NormalizedTrend{
			ID:         id,
			Source:     source,
			Timestamp:  timestamp,
			Engagement: m,
		},
		Classification: c,
	}
}

func fullClassification() trend.Classification {
	return trend.Classification{
		Styles:          []string{"casual"},
		Seasons:         []string{"summer"},
		Categories:      []string{"dresses"},
		Occasions:       []string{"casual"},
		PrimaryStyle:    "casual",
		PrimarySeason:   "summer",
		PrimaryCategory: "dresses",
	}
}

func TestScoreHighEngagementRecentFacebookPost(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	// engagement: log10(50000 + 5000*2 + 2000*3 + 1)*10 = 48.1955
	// recency at 2h: 100 - (2/24)*20 = 98.3333
	// source facebook: 0.9*100 = 90
	// classification: fully populated = 100
	// final: 0.4*48.1955 + 0.3*98.3333 + 0.2*90 + 0.1*100 = 76.78
	out := s.Score([]trend.ClassifiedTrend{
		classifiedTrend("fb_1", trend.SourceFacebook, "2026-01-20T10:00:00Z",
			trend.EngagementMetrics{Likes: 50_000, Comments: 5_000, Shares: 2_000},
			fullClassification()),
	})
	require.Len(t, out, 1)
	assert.InDelta(t, 76.78, out[0].TrendScore, 0.01)
}

func TestScoreClampedAt100(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	// engagement capped at 100, recency 100, google_trends source 120,
	// classification 100: 40 + 30 + 24 + 10 = 104, clamped to 100.
	out := s.Score([]trend.ClassifiedTrend{
		classifiedTrend("gt_1", trend.SourceGoogleTrends, "2026-01-20T12:00:00Z",
			trend.EngagementMetrics{Likes: 10_000_000_000},
			fullClassification()),
	})
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].TrendScore)
}

func TestScoreZeroEngagementFloor(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	// engagement 0, recency 100, facebook source 90, classification 0:
	// 0 + 30 + 18 + 0 = 48
	out := s.Score([]trend.ClassifiedTrend{
		classifiedTrend("fb_1", trend.SourceFacebook, "2026-01-20T12:00:00Z",
			trend.EngagementMetrics{}, trend.Classification{}),
	})
	require.Len(t, out, 1)
	assert.InDelta(t, 48.0, out[0].TrendScore, 0.01)
}

func TestScoreSortedDescendingAndStable(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	metrics := trend.EngagementMetrics{Likes: 100}
	out := s.Score([]trend.ClassifiedTrend{
		classifiedTrend("low", trend.SourceEcommerce, "2026-01-10T12:00:00Z", metrics, trend.Classification{}),
		classifiedTrend("tied_a", trend.SourceTikTok, "2026-01-20T12:00:00Z", metrics, trend.Classification{}),
		classifiedTrend("tied_b", trend.SourceTikTok, "2026-01-20T12:00:00Z", metrics, trend.Classification{}),
	})
	require.Len(t, out, 3)

	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].TrendScore, out[i].TrendScore)
	}

	// Equal scores keep their input order.
	assert.Equal(t, "tied_a", out[0].ID)
	assert.Equal(t, "tied_b", out[1].ID)
	assert.Equal(t, "low", out[2].ID)
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	out := s.Score([]trend.ClassifiedTrend{
		classifiedTrend("a", trend.SourceGoogleTrends, "2026-01-20T11:00:00Z",
			trend.EngagementMetrics{Score: 95}, fullClassification()),
		classifiedTrend("b", "unknown_source", "", trend.EngagementMetrics{}, trend.Classification{}),
		classifiedTrend("c", trend.SourceTikTok, "2020-01-01T00:00:00Z",
			trend.EngagementMetrics{Views: 100}, trend.Classification{}),
	})

	for _, item := range out {
		assert.GreaterOrEqual(t, item.TrendScore, 0.0)
		assert.LessOrEqual(t, item.TrendScore, 100.0)
	}
}

func TestRecencyScoreBrackets(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	ts := func(age time.Duration) string {
		return fixedNow().Add(-age).Format(time.RFC3339)
	}

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"brand new", 0, 100},
		{"one day", 24 * time.Hour, 80},
		{"two days", 48 * time.Hour, 70},
		{"three days", 72 * time.Hour, 60},
		{"five days", 120 * time.Hour, 50},
		{"one week", 168 * time.Hour, 40},
		{"ten and a half days", 252 * time.Hour, 20},
		{"two weeks", 336 * time.Hour, 0},
		{"ancient", 2000 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.recencyScore(ts(tt.age)), 0.01)
		})
	}
}

func TestRecencyScoreNeutralOnBadTimestamp(t *testing.T) {
	s := NewScorer(zap.NewNop(), fixedNow)

	assert.Equal(t, neutralRecency, s.recencyScore(""))
	assert.Equal(t, neutralRecency, s.recencyScore("last tuesday"))
}

func TestEngagementScore(t *testing.T) {
	assert.Equal(t, 0.0, engagementScore(trend.EngagementMetrics{}))

	// log10(1000+1)*10 = 10.0004
	assert.InDelta(t, 10.0, engagementScore(trend.EngagementMetrics{Likes: 1000}), 0.01)

	assert.Equal(t, 100.0, engagementScore(trend.EngagementMetrics{Likes: 10_000_000_000}))
}

func TestClassificationScore(t *testing.T) {
	assert.Equal(t, 0.0, classificationScore(trend.Classification{}))
	assert.Equal(t, 25.0, classificationScore(trend.Classification{PrimaryStyle: "casual"}))
	assert.Equal(t, 50.0, classificationScore(trend.Classification{PrimaryStyle: "casual", PrimarySeason: "summer"}))
	assert.Equal(t, 100.0, classificationScore(trend.Classification{
		PrimaryStyle:    "casual",
		PrimarySeason:   "summer",
		PrimaryCategory: "dresses",
		Occasions:       []string{"casual"},
	}))
}

func TestSourceScore(t *testing.T) {
	assert.Equal(t, 120.0, sourceScore(trend.SourceGoogleTrends))
	assert.Equal(t, 90.0, sourceScore(trend.SourceFacebook))
	assert.Equal(t, 80.0, sourceScore("unheard_of"))
}
