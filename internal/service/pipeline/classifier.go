package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

// Classifier derives semantic facets from normalized text by keyword
// matching against the fixed taxonomies.
type Classifier struct {
	log *zap.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{log: log}
}

// Classify tags every trend with matched facets. Output has the same
// order and cardinality as the input: a failure on one item degrades
// that item to an empty classification instead of dropping it.
func (c *Classifier) Classify(trends []trend.NormalizedTrend) []trend.ClassifiedTrend {
	out := make([]trend.ClassifiedTrend, 0, len(trends))
	for _, t := range trends {
		out = append(out, trend.ClassifiedTrend{
			NormalizedTrend: t,
			Classification:  c.classifyOne(t),
		})
	}
	return out
}

func (c *Classifier) classifyOne(t trend.NormalizedTrend) (classification trend.Classification) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Debug("classification failed, keeping item with empty facets",
				zap.String("id", t.ID),
				zap.Any("panic", r),
			)
			classification = trend.Classification{}
		}
	}()

	blob := textBlob(t)

	classification = trend.Classification{
		Styles:     matchLabels(blob, styleLabels),
		Seasons:    matchLabels(blob, seasonLabels),
		Categories: matchLabels(blob, categoryLabels),
		Occasions:  matchLabels(blob, occasionLabels),
	}
	classification.PrimaryStyle = first(classification.Styles)
	classification.PrimarySeason = first(classification.Seasons)
	classification.PrimaryCategory = first(classification.Categories)
	return classification
}

// textBlob builds the lowercase matching text from title, description,
// and hashtags.
func textBlob(t trend.NormalizedTrend) string {
	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteString(" ")
	b.WriteString(t.Description)
	for _, tag := range t.Hashtags {
		b.WriteString(" ")
		b.WriteString(tag)
	}
	return strings.ToLower(b.String())
}

// matchLabels returns every label with at least one keyword contained
// in the blob, preserving declaration order.
func matchLabels(blob string, labels []facetLabel) []string {
	matched := []string{}
	for _, label := range labels {
		for _, keyword := range label.keywords {
			if strings.Contains(blob, keyword) {
				matched = append(matched, label.name)
				break
			}
		}
	}
	return matched
}

func first(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}
