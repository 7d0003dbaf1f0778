package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendText(t *testing.T) {
	scored := ScoredTrend{
		ClassifiedTrend: ClassifiedTrend{
			NormalizedTrend: NormalizedTrend{Title: "Cargo pants everywhere"},
			Classification: Classification{
				PrimaryStyle:    "streetwear",
				PrimarySeason:   "fall",
				PrimaryCategory: "bottoms",
				Occasions:       []string{"casual", "work", "party"},
			},
		},
		TrendScore: 84.25,
	}

	assert.Equal(t,
		"Trending: Cargo pants everywhere | Style: Streetwear | Season: Fall | Category: Bottoms | Perfect for: Casual, Work | Trend Score: 84.2/100",
		scored.TrendText())
}

func TestTrendTextMinimal(t *testing.T) {
	scored := ScoredTrend{TrendScore: 12}
	assert.Equal(t, "Trending: Fashion Trend | Trend Score: 12.0/100", scored.TrendText())
}
