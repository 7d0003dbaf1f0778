// Package pipeline implements the trend processing stages: normalize,
// classify, score, and format. Each stage takes a sequence and returns
// a new sequence; no stage mutates its input.
package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/metrics"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxHashtags       = 10
)

// Per-source ordered candidate field names. The first present,
// non-empty value wins. "latest_post" denotes the nested post object
// used by facebook page records.
var (
	titleFields = map[string][]string{
		trend.SourceTikTok:       {"title", "description"},
		trend.SourcePinterest:    {"title"},
		trend.SourceGoogleTrends: {"keyword"},
		trend.SourceEcommerce:    {"product_name"},
		trend.SourceInstagram:    {"caption", "title"},
		trend.SourceFacebook:     {"latest_post", "name"},
	}

	imageFields = map[string][]string{
		trend.SourceTikTok:       {"cover_image_url"},
		trend.SourcePinterest:    {"image_url"},
		trend.SourceGoogleTrends: {},
		trend.SourceEcommerce:    {"image_url"},
		trend.SourceInstagram:    {"media_url", "thumbnail_url"},
		trend.SourceFacebook:     {"latest_post"},
	}

	urlFields = map[string][]string{
		trend.SourceTikTok:       {"video_url", "permalink"},
		trend.SourcePinterest:    {"pin_url"},
		trend.SourceGoogleTrends: {},
		trend.SourceEcommerce:    {"product_url"},
		trend.SourceInstagram:    {"permalink"},
		trend.SourceFacebook:     {"permalink"},
	}

	timestampFields = map[string][]string{
		trend.SourceTikTok:       {"created_time"},
		trend.SourcePinterest:    {"created_at"},
		trend.SourceGoogleTrends: {"timestamp"},
		trend.SourceEcommerce:    {"timestamp"},
		trend.SourceInstagram:    {"timestamp"},
		trend.SourceFacebook:     {"latest_post"},
	}

	genericTitleFields     = []string{"title", "name"}
	genericImageFields     = []string{"image_url", "image"}
	genericURLFields       = []string{"url", "permalink"}
	genericTimestampFields = []string{"timestamp", "created_at", "created_time"}
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s#@.,!?-]`)
	hashtagRe    = regexp.MustCompile(`#\w+`)
)

// Normalizer maps raw, source-shaped items into canonical trend
// records. A failure on one item drops that item only, never the batch.
type Normalizer struct {
	log *zap.Logger
	now func() time.Time
}

// NewNormalizer creates a normalizer. now is used for timestamp
// defaulting and may be nil for time.Now.
func NewNormalizer(log *zap.Logger, now func() time.Time) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{log: log, now: now}
}

// Normalize flattens a per-source mapping into one canonical sequence.
// Items keep their original order within a source; sources are visited
// in sorted key order so output order is deterministic. A "metadata"
// pseudo-source key is skipped.
func (n *Normalizer) Normalize(bySource map[string][]trend.RawItem) []trend.NormalizedTrend {
	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		if source == "metadata" {
			continue
		}
		sources = append(sources, source)
	}
	sort.Strings(sources)

	out := make([]trend.NormalizedTrend, 0)
	for _, source := range sources {
		for _, item := range bySource[source] {
			normalized, err := n.normalizeItem(item, source)
			if err != nil {
				n.log.Debug("dropping item",
					zap.String("source", source),
					zap.Error(err),
				)
				metrics.NormalizeDrops.Inc()
				continue
			}
			out = append(out, normalized)
		}
	}
	return out
}

// normalizeItem maps a single raw item into the canonical record. Any
// panic while digging through the raw shape is converted into an error
// so the caller can skip just this item.
func (n *Normalizer) normalizeItem(item trend.RawItem, source string) (normalized trend.NormalizedTrend, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize %s item: %v", source, r)
		}
	}()

	if item == nil {
		return normalized, fmt.Errorf("normalize %s item: nil item", source)
	}

	normalized = trend.NormalizedTrend{
		ID:          stringValue(item["id"]),
		Source:      source,
		Title:       n.extractTitle(item, source),
		Description: truncate(cleanText(firstString(item, "caption", "description", "title")), maxDescriptionLen),
		ImageURL:    n.extractImageURL(item, source),
		URL:         n.extractURL(item, source),
		Engagement:  normalizeEngagement(item, source),
		Hashtags:    extractHashtags(item, source),
		Category:    stringValueDefault(item["category"], "fashion"),
		Timestamp:   n.normalizeTimestamp(item, source),
		RawData:     item,
	}
	return normalized, nil
}

func (n *Normalizer) extractTitle(item trend.RawItem, source string) string {
	fields, ok := titleFields[source]
	if !ok {
		fields = genericTitleFields
	}

	for _, field := range fields {
		if field == "latest_post" {
			if post := nestedItem(item, "latest_post"); post != nil {
				if msg := stringValue(post["message"]); msg != "" {
					return cleanText(truncate(msg, maxTitleLen))
				}
			}
			continue
		}
		if v := stringValue(item[field]); v != "" {
			return cleanText(truncate(v, maxTitleLen))
		}
	}
	return "Fashion Trend"
}

func (n *Normalizer) extractImageURL(item trend.RawItem, source string) string {
	fields, ok := imageFields[source]
	if !ok {
		fields = genericImageFields
	}

	for _, field := range fields {
		if field == "latest_post" {
			if post := nestedItem(item, "latest_post"); post != nil {
				if v := firstString(post, "image", "full_picture"); v != "" {
					return v
				}
			}
			continue
		}
		if v := stringValue(item[field]); v != "" {
			return v
		}
	}
	return ""
}

func (n *Normalizer) extractURL(item trend.RawItem, source string) string {
	fields, ok := urlFields[source]
	if !ok {
		fields = genericURLFields
	}

	for _, field := range fields {
		if v := stringValue(item[field]); v != "" {
			return v
		}
	}
	return ""
}

// normalizeEngagement remaps raw engagement counts into the canonical
// metrics, including the source-specific weighted score.
func normalizeEngagement(item trend.RawItem, source string) trend.EngagementMetrics {
	var m trend.EngagementMetrics

	switch source {
	case trend.SourceTikTok:
		m.Likes = intValue(item["like_count"])
		m.Comments = intValue(item["comment_count"])
		m.Shares = intValue(item["share_count"])
		m.Views = intValue(item["view_count"])
		m.Score = m.Views/1000 + m.Likes + m.Shares*5
	case trend.SourcePinterest:
		m.Likes = intValue(item["like_count"])
		m.Comments = intValue(item["comment_count"])
		m.Score = m.Likes + m.Comments*3
	case trend.SourceGoogleTrends:
		m.Score = intValue(item["trend_score"])
	case trend.SourceEcommerce:
		m.Score = intValue(item["trend_score"])
		m.Views = intValue(item["sales_volume"])
	case trend.SourceInstagram:
		m.Likes = intValue(item["like_count"])
		m.Comments = intValue(item["comments_count"])
		m.Score = m.Likes + m.Comments*2
	case trend.SourceFacebook:
		if post := nestedItem(item, "latest_post"); post != nil {
			m.Likes = intValue(post["likes"])
			m.Comments = intValue(post["comments"])
			m.Shares = intValue(post["shares"])
		}
		if score := intValue(item["engagement"]); score != 0 {
			m.Score = score
		} else {
			m.Score = m.Likes + m.Comments*2 + m.Shares*3
		}
	}
	return m
}

// extractHashtags pulls hashtags either from a source-provided list or
// from a #word scan over embedded text, then lowercases, strips the
// leading '#', de-duplicates preserving first occurrence, and keeps at
// most ten.
func extractHashtags(item trend.RawItem, source string) []string {
	var raw []string

	switch source {
	case trend.SourceTikTok, trend.SourceInstagram:
		raw = stringSlice(item["hashtags"])
	case trend.SourcePinterest:
		raw = hashtagRe.FindAllString(stringValue(item["description"]), -1)
	case trend.SourceFacebook:
		if post := nestedItem(item, "latest_post"); post != nil {
			raw = hashtagRe.FindAllString(stringValue(post["message"]), -1)
		}
	}

	normalized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimLeft(tag, "#"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
		if len(normalized) == maxHashtags {
			break
		}
	}
	return normalized
}

func (n *Normalizer) normalizeTimestamp(item trend.RawItem, source string) string {
	fields, ok := timestampFields[source]
	if !ok {
		fields = genericTimestampFields
	}

	for _, field := range fields {
		var raw string
		if field == "latest_post" {
			if post := nestedItem(item, "latest_post"); post != nil {
				raw = stringValue(post["created_time"])
			}
		} else {
			raw = stringValue(item[field])
		}
		if raw == "" {
			continue
		}
		if t, err := parseTimestamp(raw); err == nil {
			return t.Format(time.RFC3339)
		}
		break
	}
	return n.now().Format(time.RFC3339)
}

// timestampLayouts are tried in order when parsing source timestamps.
// Sources emit RFC3339, offsets without a colon, naive datetimes, and
// bare dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601 timestamp, accepting a trailing Z
// as a UTC offset.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// cleanText collapses whitespace runs, strips characters outside word
// characters, whitespace, #, @, and basic punctuation, and trims.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Raw value helpers. Raw items come either straight from JSON decoding
// (float64 numbers, []any slices) or from Go-built mocks (ints,
// []string), so both shapes are coerced.

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func stringValueDefault(v any, def string) string {
	if s := stringValue(v); s != "" {
		return s
	}
	return def
}

func firstString(item trend.RawItem, keys ...string) string {
	for _, key := range keys {
		if v := stringValue(item[key]); v != "" {
			return v
		}
	}
	return ""
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func nestedItem(item trend.RawItem, key string) trend.RawItem {
	switch m := item[key].(type) {
	case trend.RawItem:
		return m
	case map[string]any:
		return trend.RawItem(m)
	}
	return nil
}
