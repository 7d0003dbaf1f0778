package pipeline

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

// Sub-score weights. They must sum to 1.0.
const (
	weightEngagement     = 0.4
	weightRecency        = 0.3
	weightSource         = 0.2
	weightClassification = 0.1
)

// Engagement metric multipliers. Comments and shares signal more
// intent than likes; views are heavily discounted.
const (
	likesWeight    = 1.0
	commentsWeight = 2.0
	sharesWeight   = 3.0
	viewsWeight    = 0.1
	scoreWeight    = 1.0
)

// sourceWeights are credibility multipliers applied to the 100-point
// source sub-score. Weights above 1.0 intentionally push the sub-score
// past 100 before the global clamp.
var sourceWeights = map[string]float64{
	trend.SourceGoogleTrends: 1.2,
	trend.SourceTikTok:       1.0,
	trend.SourceInstagram:    1.0,
	trend.SourcePinterest:    0.9,
	trend.SourceFacebook:     0.9,
	trend.SourceEcommerce:    0.8,
}

const defaultSourceWeight = 0.8

// neutralRecency is used when a timestamp cannot be interpreted.
const neutralRecency = 50.0

// Scorer combines engagement, recency, source credibility, and facet
// completeness into one comparable 0-100 score.
type Scorer struct {
	log *zap.Logger
	now func() time.Time
}

// NewScorer creates a scorer. now drives recency decay and may be nil
// for time.Now.
func NewScorer(log *zap.Logger, now func() time.Time) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{log: log, now: now}
}

// Score attaches a trend score to every item and returns them sorted
// by score descending. The sort is stable: equal scores keep their
// relative input order. A failure on one item keeps the item with
// score 0 rather than dropping it.
func (s *Scorer) Score(trends []trend.ClassifiedTrend) []trend.ScoredTrend {
	out := make([]trend.ScoredTrend, 0, len(trends))
	for _, t := range trends {
		out = append(out, trend.ScoredTrend{
			ClassifiedTrend: t,
			TrendScore:      s.scoreOne(t),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrendScore > out[j].TrendScore
	})
	return out
}

func (s *Scorer) scoreOne(t trend.ClassifiedTrend) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Debug("scoring failed, keeping item with score 0",
				zap.String("id", t.ID),
				zap.Any("panic", r),
			)
			score = 0
		}
	}()

	final := engagementScore(t.Engagement)*weightEngagement +
		s.recencyScore(t.Timestamp)*weightRecency +
		sourceScore(t.Source)*weightSource +
		classificationScore(t.Classification)*weightClassification

	return round2(clamp(final, 0, 100))
}

// engagementScore log-dampens the weighted engagement sum so viral
// outliers do not dominate the ranking.
func engagementScore(m trend.EngagementMetrics) float64 {
	total := float64(m.Likes)*likesWeight +
		float64(m.Comments)*commentsWeight +
		float64(m.Shares)*sharesWeight +
		float64(m.Views)*viewsWeight +
		float64(m.Score)*scoreWeight

	if total <= 0 {
		return 0
	}
	return math.Min(100, math.Log10(total+1)*10)
}

// recencyScore decays piecewise-linearly with item age:
// 0-24h 100→80, 24-72h 80→60, 72-168h 60→40, then 40→0 over the next
// week, floored at 0. An uninterpretable timestamp scores neutral.
func (s *Scorer) recencyScore(timestamp string) float64 {
	if timestamp == "" {
		return neutralRecency
	}
	t, err := parseTimestamp(timestamp)
	if err != nil {
		return neutralRecency
	}

	ageHours := s.now().Sub(t).Hours()

	var score float64
	switch {
	case ageHours <= 24:
		score = 100 - (ageHours/24)*20
	case ageHours <= 72:
		score = 80 - ((ageHours-24)/48)*20
	case ageHours <= 168:
		score = 60 - ((ageHours-72)/96)*20
	default:
		score = 40 - ((ageHours-168)/168)*40
	}
	return clamp(score, 0, 100)
}

func sourceScore(source string) float64 {
	weight, ok := sourceWeights[source]
	if !ok {
		weight = defaultSourceWeight
	}
	return weight * 100
}

// classificationScore rewards facet completeness: 25 points for each
// populated primary pick plus a non-empty occasions set.
func classificationScore(c trend.Classification) float64 {
	score := 0.0
	if c.PrimaryStyle != "" {
		score += 25
	}
	if c.PrimarySeason != "" {
		score += 25
	}
	if c.PrimaryCategory != "" {
		score += 25
	}
	if len(c.Occasions) > 0 {
		score += 25
	}
	return score
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
