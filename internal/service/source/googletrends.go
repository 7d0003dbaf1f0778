package source

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

// GoogleTrends produces trending fashion search terms. Google exposes
// no supported public API for trends data, so this collaborator always
// synthesizes interest data over a fixed fashion keyword set; the
// shape matches what a real interest-over-time integration would
// yield.
type GoogleTrends struct {
	log *zap.Logger
}

// NewGoogleTrends creates the Google Trends collaborator.
func NewGoogleTrends(log *zap.Logger) *GoogleTrends {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoogleTrends{log: log}
}

// Name returns the platform identifier.
func (s *GoogleTrends) Name() string { return trend.SourceGoogleTrends }

// Configured reports whether real API access is available.
func (s *GoogleTrends) Configured() bool { return false }

var fashionKeywords = []string{
	"fashion trends", "outfit ideas", "summer fashion", "winter outfits",
	"street style", "fashion week", "ootd", "fashion inspiration",
	"trending outfits", "fashion style", "spring fashion", "fall outfits",
}

// Fetch returns up to limit trending search terms. Recognized filter
// keys: region.
func (s *GoogleTrends) Fetch(_ context.Context, limit int, filters trend.Filters) []trend.RawItem {
	region := filters["region"]
	if region == "" {
		region = "US"
	}

	keywords := fashionKeywords
	if limit < len(keywords) {
		keywords = keywords[:limit]
	}

	items := make([]trend.RawItem, 0, len(keywords))
	for i, keyword := range keywords {
		score := 100 - (i+1)*5 + gofakeit.Number(-3, 3)
		if score > 100 {
			score = 100
		}
		if score < 0 {
			score = 0
		}

		items = append(items, trend.RawItem{
			"id":            fmt.Sprintf("gt_fashion_%d", i+1),
			"keyword":       keyword,
			"trend_score":   score,
			"search_volume": gofakeit.Number(40_000, 120_000),
			"growth_rate":   fmt.Sprintf("+%d%%", gofakeit.Number(2, 30)),
			"region":        region,
			"category":      "fashion",
			"platform":      trend.SourceGoogleTrends,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
	}
	return items
}
