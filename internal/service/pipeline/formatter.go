package pipeline

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trendpulse/internal/domain/trend"
)

// Status thresholds used when no prior-period score is available.
const (
	risingThreshold = 70.0
	stableThreshold = 50.0
)

// Delta bounds used when a prior-period score is supplied.
const statusDelta = 5.0

const defaultRegion = "US"

// Human-readable phrase fragments for summaries. Unknown labels fall
// back to the label itself.
var styleDescriptions = map[string]string{
	"casual":     "casual and comfortable",
	"formal":     "formal and professional",
	"streetwear": "urban street style",
	"vintage":    "vintage-inspired",
	"bohemian":   "bohemian and free-spirited",
	"minimalist": "minimal and clean",
	"glam":       "glamorous and elegant",
	"grunge":     "edgy and alternative",
}

var categoryDescriptions = map[string]string{
	"tops":        "tops and blouses",
	"bottoms":     "pants and skirts",
	"dresses":     "dresses",
	"outerwear":   "jackets and coats",
	"footwear":    "shoes and boots",
	"accessories": "accessories",
}

// Formatter converts scored trends into the public weekly report.
type Formatter struct {
	now func() time.Time
}

// NewFormatter creates a formatter. now determines the default ISO
// week and may be nil for time.Now.
func NewFormatter(now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{now: now}
}

// Format renders the weekly report. week defaults to the current ISO
// week, region to "US".
func (f *Formatter) Format(trends []trend.ScoredTrend, region, week string) trend.Report {
	if week == "" {
		week = f.ISOWeek()
	}
	if region == "" {
		region = defaultRegion
	}

	entries := make([]trend.ReportEntry, 0, len(trends))
	for _, t := range trends {
		name := t.Title
		if name == "" {
			name = "Fashion Trend"
		}
		entries = append(entries, trend.ReportEntry{
			Name:    name,
			Status:  DetermineStatus(t.TrendScore, nil),
			Score:   round2(t.TrendScore / 100),
			Summary: Summary(t),
		})
	}

	return trend.Report{
		Week:   week,
		Region: region,
		Trends: entries,
	}
}

// ISOWeek returns the current ISO-8601 week identifier, e.g. 2026-W04.
func (f *Formatter) ISOWeek() string {
	year, week := f.now().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DetermineStatus derives the trend verdict. Without a prior score the
// verdict is threshold-based; with one it compares the delta. No
// current caller supplies a prior score, but the contract supports it.
func DetermineStatus(score float64, previous *float64) trend.Status {
	if previous == nil {
		switch {
		case score >= risingThreshold:
			return trend.StatusRising
		case score >= stableThreshold:
			return trend.StatusStable
		default:
			return trend.StatusDeclining
		}
	}

	change := score - *previous
	switch {
	case change > statusDelta:
		return trend.StatusRising
	case change < -statusDelta:
		return trend.StatusDeclining
	default:
		return trend.StatusStable
	}
}

// Summary composes the human-readable report line from the trend's
// primary facets. Absent facets are omitted; with no facets at all the
// summary falls back to a plain trending line.
func Summary(t trend.ScoredTrend) string {
	title := t.Title
	if title == "" {
		title = "Fashion Trend"
	}
	title = cases.Title(language.English).String(title)

	c := t.Classification
	var parts []string

	if c.PrimaryStyle != "" {
		desc, ok := styleDescriptions[c.PrimaryStyle]
		if !ok {
			desc = c.PrimaryStyle
		}
		parts = append(parts, desc)
	}
	if c.PrimaryCategory != "" {
		desc, ok := categoryDescriptions[c.PrimaryCategory]
		if !ok {
			desc = c.PrimaryCategory
		}
		parts = append(parts, desc)
	}
	if c.PrimarySeason != "" {
		parts = append(parts, fmt.Sprintf("perfect for %s", c.PrimarySeason))
	}
	if len(c.Occasions) > 0 {
		occasions := c.Occasions
		if len(occasions) > 2 {
			occasions = occasions[:2]
		}
		parts = append(parts, fmt.Sprintf("ideal for %s", strings.Join(occasions, ", ")))
	}

	var summary string
	if len(parts) > 0 {
		summary = fmt.Sprintf("%s featuring %s is gaining popularity this week.", title, strings.Join(parts, ", "))
	} else {
		summary = fmt.Sprintf("%s is trending this week.", title)
	}

	if t.Engagement.Likes > 10000 {
		summary += " High engagement and growing interest."
	} else if t.Engagement.Score > 5000 {
		summary += " Strong engagement across platforms."
	}
	return summary
}
