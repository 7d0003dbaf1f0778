// Package ingestion fans out fetches to the configured source
// collaborators and merges their results keyed by source name.
package ingestion

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/metrics"
)

// sourceFilterKeys maps each source to the filter keys its contract
// recognizes. Keys outside this list are dropped before the fetch.
var sourceFilterKeys = map[string][]string{
	trend.SourceGoogleTrends: {"region"},
	trend.SourceEcommerce:    {"platform"},
	trend.SourceTikTok:       {"region"},
	trend.SourceInstagram:    {"hashtag"},
	trend.SourceFacebook:     {"category"},
	trend.SourcePinterest:    {"board"},
}

// RunMetadata describes a single ingestion run. It is informational
// only; later pipeline stages never read it.
type RunMetadata struct {
	RunID          string        `json:"run_id"`
	TotalSources   int           `json:"total_sources"`
	ItemsPerSource int           `json:"items_per_source"`
	TotalItems     int           `json:"total_items"`
	FiltersApplied trend.Filters `json:"filters_applied"`
}

// Result is the merged output of one ingestion run.
type Result struct {
	BySource map[string][]trend.RawItem `json:"by_source"`
	Metadata RunMetadata                `json:"metadata"`
}

// Coordinator fans out fetches to source collaborators concurrently.
// One source failing, panicking, or stalling on its own never fails
// the others; a failed source contributes an empty sequence.
type Coordinator struct {
	sources []trend.Source
	log     *zap.Logger
}

// NewCoordinator creates a coordinator over the given sources. Fan-out
// order follows registration order.
func NewCoordinator(log *zap.Logger, sources ...trend.Source) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{sources: sources, log: log}
}

// SourceNames returns the names of all configured sources in
// registration order.
func (c *Coordinator) SourceNames() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Source returns the collaborator registered under name, or nil.
func (c *Coordinator) Source(name string) trend.Source {
	for _, s := range c.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Sources returns all registered collaborators in registration order.
func (c *Coordinator) Sources() []trend.Source {
	return c.sources
}

// Ingest fetches up to limitPerSource items from each configured
// source concurrently. When only is non-empty, just the named subset is
// queried; unknown names are skipped. Each source receives only the
// filter keys it recognizes.
func (c *Coordinator) Ingest(ctx context.Context, limitPerSource int, filters trend.Filters, only []string) Result {
	selected := c.sources
	if len(only) > 0 {
		selected = make([]trend.Source, 0, len(only))
		for _, name := range only {
			if s := c.Source(name); s != nil {
				selected = append(selected, s)
			}
		}
	}

	if filters == nil {
		filters = trend.Filters{}
	}

	bySource := make(map[string][]trend.RawItem, len(selected))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, src := range selected {
		wg.Add(1)
		go func(s trend.Source) {
			defer wg.Done()

			name := s.Name()
			items := c.fetchOne(ctx, s, limitPerSource, filters)

			mu.Lock()
			bySource[name] = items
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	total := 0
	for _, items := range bySource {
		total += len(items)
	}

	return Result{
		BySource: bySource,
		Metadata: RunMetadata{
			RunID:          uuid.New().String(),
			TotalSources:   len(selected),
			ItemsPerSource: limitPerSource,
			TotalItems:     total,
			FiltersApplied: filters,
		},
	}
}

// fetchOne runs a single source fetch with its recognized filter keys,
// absorbing panics so a misbehaving collaborator cannot take down the
// run.
func (c *Coordinator) fetchOne(ctx context.Context, s trend.Source, limit int, filters trend.Filters) (items []trend.RawItem) {
	name := s.Name()

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("source fetch panicked",
				zap.String("source", name),
				zap.Any("panic", r),
			)
			metrics.SourceFailures.WithLabelValues(name).Inc()
			items = []trend.RawItem{}
		}
	}()

	items = s.Fetch(ctx, limit, allowedFilters(name, filters))
	if items == nil {
		items = []trend.RawItem{}
	}
	metrics.SourceItems.WithLabelValues(name).Add(float64(len(items)))

	return items
}

// allowedFilters keeps only the filter keys recognized by the named
// source. Unknown sources recognize nothing.
func allowedFilters(source string, filters trend.Filters) trend.Filters {
	allowed := trend.Filters{}
	for _, key := range sourceFilterKeys[source] {
		if v, ok := filters[key]; ok && v != "" {
			allowed[key] = v
		}
	}
	return allowed
}
