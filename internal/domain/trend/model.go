package trend

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source platform identifiers. These are the only values the pipeline
// recognizes; anything else is treated as a generic source.
const (
	SourceGoogleTrends = "google_trends"
	SourceEcommerce    = "ecommerce"
	SourceTikTok       = "tiktok"
	SourceInstagram    = "instagram"
	SourceFacebook     = "facebook"
	SourcePinterest    = "pinterest"
)

// KnownSources lists all platform identifiers in their canonical order.
var KnownSources = []string{
	SourceGoogleTrends,
	SourceEcommerce,
	SourceTikTok,
	SourceInstagram,
	SourceFacebook,
	SourcePinterest,
}

// RawItem is an opaque, source-shaped record as returned by a platform.
// It is produced by a Source and consumed once by the normalizer.
type RawItem map[string]any

// Filters carries optional fetch refinements. Keys are source-specific
// (region, hashtag, board, category, platform); a source only ever sees
// the keys it recognizes.
type Filters map[string]string

// EngagementMetrics holds normalized engagement counts for a trend.
// Unset metrics default to zero. Score is the source-specific weighted
// remap of the raw counts.
type EngagementMetrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views"`
	Score    int `json:"score"`
}

// NormalizedTrend is the canonical, source-agnostic trend record.
type NormalizedTrend struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url,omitempty"`
	URL         string            `json:"url,omitempty"`
	Engagement  EngagementMetrics `json:"engagement_metrics"`
	Hashtags    []string          `json:"hashtags"`
	Category    string            `json:"category"`
	Timestamp   string            `json:"timestamp"`

	// RawData retains the original item for diagnostics only; no later
	// pipeline stage reads it.
	RawData RawItem `json:"raw_data,omitempty"`
}

// Classification holds the semantic facets matched for a trend. The
// primary picks are the first match of each facet in declaration order,
// empty when nothing matched.
type Classification struct {
	Styles          []string `json:"styles"`
	Seasons         []string `json:"seasons"`
	Categories      []string `json:"categories"`
	Occasions       []string `json:"occasions"`
	PrimaryStyle    string   `json:"primary_style,omitempty"`
	PrimarySeason   string   `json:"primary_season,omitempty"`
	PrimaryCategory string   `json:"primary_category,omitempty"`
}

// ClassifiedTrend is a normalized trend plus its facet classification.
// Classification is always present, possibly all-empty.
type ClassifiedTrend struct {
	NormalizedTrend
	Classification Classification `json:"classification"`
}

// ScoredTrend is a classified trend plus its composite popularity score,
// clamped to [0,100] and rounded to two decimals.
type ScoredTrend struct {
	ClassifiedTrend
	TrendScore float64 `json:"trend_score"`
}

// Status is the week-over-week verdict attached to a report entry.
type Status string

const (
	StatusRising    Status = "RISING"
	StatusStable    Status = "STABLE"
	StatusDeclining Status = "DECLINING"
)

// ReportEntry is the externally visible shape of a single trend.
type ReportEntry struct {
	Name    string  `json:"name"`
	Status  Status  `json:"status"`
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// Report is the public weekly report.
type Report struct {
	Week   string        `json:"week"`
	Region string        `json:"region"`
	Trends []ReportEntry `json:"trends"`
}

// TrendText renders a scored trend as a single human-readable line,
// used in logs and published trend events.
func (t ScoredTrend) TrendText() string {
	title := t.Title
	if title == "" {
		title = "Fashion Trend"
	}

	caser := cases.Title(language.English)
	parts := []string{fmt.Sprintf("Trending: %s", title)}

	c := t.Classification
	if c.PrimaryStyle != "" {
		parts = append(parts, fmt.Sprintf("Style: %s", caser.String(c.PrimaryStyle)))
	}
	if c.PrimarySeason != "" {
		parts = append(parts, fmt.Sprintf("Season: %s", caser.String(c.PrimarySeason)))
	}
	if c.PrimaryCategory != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", caser.String(c.PrimaryCategory)))
	}
	if len(c.Occasions) > 0 {
		occasions := c.Occasions
		if len(occasions) > 2 {
			occasions = occasions[:2]
		}
		titled := make([]string, len(occasions))
		for i, o := range occasions {
			titled[i] = caser.String(o)
		}
		parts = append(parts, fmt.Sprintf("Perfect for: %s", strings.Join(titled, ", ")))
	}
	parts = append(parts, fmt.Sprintf("Trend Score: %.1f/100", t.TrendScore))

	return strings.Join(parts, " | ")
}
