package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
}

func TestNormalizeHashtagInvariants(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	out := n.Normalize(map[string][]trend.RawItem{
		trend.SourceTikTok: {
			{
				"id": "tt_1",
				"hashtags": []string{
					"#Fashion", "fashion", "#OOTD", "ootd", "#Style",
					"#Summer", "#Beach", "#Vacation", "#Chic", "#Look",
					"#Inspo", "#Extra1", "#Extra2",
				},
			},
		},
	})
	require.Len(t, out, 1)

	tags := out[0].Hashtags
	assert.LessOrEqual(t, len(tags), 10)
	assert.Equal(t, []string{
		"fashion", "ootd", "style", "summer", "beach",
		"vacation", "chic", "look", "inspo", "extra1",
	}, tags)
}

func TestNormalizeEngagement(t *testing.T) {
	tests := []struct {
		name   string
		source string
		item   trend.RawItem
		want   trend.EngagementMetrics
	}{
		{
			name:   "tiktok weights views likes shares",
			source: trend.SourceTikTok,
			item: trend.RawItem{
				"view_count":    50_000,
				"like_count":    1_200,
				"comment_count": 80,
				"share_count":   40,
			},
			// 50000/1000 + 1200 + 40*5 = 1450
			want: trend.EngagementMetrics{Likes: 1_200, Comments: 80, Shares: 40, Views: 50_000, Score: 1_450},
		},
		{
			name:   "instagram weights comments double",
			source: trend.SourceInstagram,
			item:   trend.RawItem{"like_count": 300, "comments_count": 50},
			want:   trend.EngagementMetrics{Likes: 300, Comments: 50, Score: 400},
		},
		{
			name:   "pinterest weights comments triple",
			source: trend.SourcePinterest,
			item:   trend.RawItem{"like_count": 200, "comment_count": 30},
			want:   trend.EngagementMetrics{Likes: 200, Comments: 30, Score: 290},
		},
		{
			name:   "google trends passes score through",
			source: trend.SourceGoogleTrends,
			item:   trend.RawItem{"trend_score": 88},
			want:   trend.EngagementMetrics{Score: 88},
		},
		{
			name:   "ecommerce keeps sales volume as views",
			source: trend.SourceEcommerce,
			item:   trend.RawItem{"trend_score": 92, "sales_volume": 5_000},
			want:   trend.EngagementMetrics{Views: 5_000, Score: 92},
		},
		{
			name:   "facebook prefers precomputed engagement",
			source: trend.SourceFacebook,
			item: trend.RawItem{
				"latest_post": trend.RawItem{"likes": 10, "comments": 5, "shares": 2},
				"engagement":  100,
			},
			want: trend.EngagementMetrics{Likes: 10, Comments: 5, Shares: 2, Score: 100},
		},
		{
			name:   "facebook computes engagement when absent",
			source: trend.SourceFacebook,
			item: trend.RawItem{
				"latest_post": trend.RawItem{"likes": 10, "comments": 5, "shares": 2},
			},
			// 10 + 5*2 + 2*3 = 26
			want: trend.EngagementMetrics{Likes: 10, Comments: 5, Shares: 2, Score: 26},
		},
		{
			name:   "json decoded numbers coerce",
			source: trend.SourceInstagram,
			item:   trend.RawItem{"like_count": float64(300), "comments_count": float64(50)},
			want:   trend.EngagementMetrics{Likes: 300, Comments: 50, Score: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeEngagement(tt.item, tt.source))
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	tests := []struct {
		name   string
		source string
		item   trend.RawItem
		want   string
	}{
		{
			name:   "rfc3339 preserved",
			source: trend.SourceInstagram,
			item:   trend.RawItem{"timestamp": "2026-01-19T08:30:00Z"},
			want:   "2026-01-19T08:30:00Z",
		},
		{
			name:   "naive datetime treated as utc",
			source: trend.SourcePinterest,
			item:   trend.RawItem{"created_at": "2026-01-19T08:30:00"},
			want:   "2026-01-19T08:30:00Z",
		},
		{
			name:   "date only treated as utc midnight",
			source: trend.SourceEcommerce,
			item:   trend.RawItem{"timestamp": "2026-01-18"},
			want:   "2026-01-18T00:00:00Z",
		},
		{
			name:   "missing defaults to now",
			source: trend.SourceTikTok,
			item:   trend.RawItem{},
			want:   "2026-01-20T12:00:00Z",
		},
		{
			name:   "unparseable defaults to now",
			source: trend.SourceInstagram,
			item:   trend.RawItem{"timestamp": "last tuesday"},
			want:   "2026-01-20T12:00:00Z",
		},
		{
			name:   "facebook reads nested post time",
			source: trend.SourceFacebook,
			item: trend.RawItem{
				"latest_post": trend.RawItem{"created_time": "2026-01-18T20:00:00Z"},
			},
			want: "2026-01-18T20:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.normalizeTimestamp(tt.item, tt.source))
		})
	}
}

func TestNormalizeTitles(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	out := n.Normalize(map[string][]trend.RawItem{
		trend.SourceGoogleTrends: {
			{"id": "gt_1", "keyword": "summer fashion"},
		},
		trend.SourceEcommerce: {
			{"id": "ec_1", "product_name": "Oversized Blazer"},
		},
		trend.SourceTikTok: {
			{"id": "tt_1"},
		},
	})
	require.Len(t, out, 3)

	// Sources are visited in sorted key order.
	assert.Equal(t, "Oversized Blazer", out[0].Title)
	assert.Equal(t, "summer fashion", out[1].Title)
	assert.Equal(t, "Fashion Trend", out[2].Title)
}

func TestNormalizeTitleTruncated(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}

	out := n.Normalize(map[string][]trend.RawItem{
		trend.SourcePinterest: {{"id": "pin_1", "title": string(long)}},
	})
	require.Len(t, out, 1)
	assert.Len(t, []rune(out[0].Title), 100)
}

func TestNormalizeSkipsMetadataAndBadItems(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	out := n.Normalize(map[string][]trend.RawItem{
		"metadata": {
			{"run_id": "abc"},
		},
		trend.SourceInstagram: {
			nil,
			{"id": "ig_1", "caption": "Summer looks"},
		},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "ig_1", out[0].ID)
}

func TestNormalizeDeterministicOrder(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	bySource := map[string][]trend.RawItem{
		trend.SourceTikTok:    {{"id": "tt_1"}, {"id": "tt_2"}},
		trend.SourceEcommerce: {{"id": "ec_1"}},
		trend.SourceFacebook:  {{"id": "fb_1"}},
	}

	first := n.Normalize(bySource)
	second := n.Normalize(bySource)

	ids := make([]string, len(first))
	for i, item := range first {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"ec_1", "fb_1", "tt_1", "tt_2"}, ids)
	assert.Equal(t, first, second)
}

func TestNormalizeFacebookNestedPost(t *testing.T) {
	n := NewNormalizer(zap.NewNop(), fixedNow)

	out := n.Normalize(map[string][]trend.RawItem{
		trend.SourceFacebook: {
			{
				"id":   "fb_1",
				"name": "StyleHouse",
				"latest_post": trend.RawItem{
					"message":      "Trending Cargo Pants Alert! #fashion #CargoPants",
					"likes":        500,
					"comments":     40,
					"shares":       12,
					"image":        "https://example.com/cargo.jpg",
					"created_time": "2026-01-19T09:00:00Z",
				},
			},
		},
	})
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, "Trending Cargo Pants Alert! #fashion #CargoPants", got.Title)
	assert.Equal(t, []string{"fashion", "cargopants"}, got.Hashtags)
	assert.Equal(t, "https://example.com/cargo.jpg", got.ImageURL)
	assert.Equal(t, "2026-01-19T09:00:00Z", got.Timestamp)
	// 500 + 40*2 + 12*3 = 616
	assert.Equal(t, 616, got.Engagement.Score)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "Summer   outfit\nideas!", "Summer outfit ideas!"},
		{"strips special characters", "Chic✨look", "Chiclook"},
		{"keeps hashtags and punctuation", "New look: #ootd, right?", "New look #ootd, right?"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}
