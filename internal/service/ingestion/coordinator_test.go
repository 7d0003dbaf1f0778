package ingestion

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/metrics"
)

type stubSource struct {
	name   string
	items  []trend.RawItem
	panics bool

	mu         sync.Mutex
	gotLimit   int
	gotFilters trend.Filters
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, limit int, filters trend.Filters) []trend.RawItem {
	s.mu.Lock()
	s.gotLimit = limit
	s.gotFilters = filters
	s.mu.Unlock()

	if s.panics {
		panic("source exploded")
	}
	if limit < len(s.items) {
		return s.items[:limit]
	}
	return s.items
}

func rawItems(prefix string, n int) []trend.RawItem {
	items := make([]trend.RawItem, n)
	for i := range items {
		items[i] = trend.RawItem{"id": fmt.Sprintf("%s_%d", prefix, i+1)}
	}
	return items
}

func TestIngestFanOut(t *testing.T) {
	sources := []trend.Source{
		&stubSource{name: trend.SourceGoogleTrends, items: rawItems("gt", 3)},
		&stubSource{name: trend.SourceEcommerce, items: rawItems("ec", 3)},
		&stubSource{name: trend.SourceTikTok, items: rawItems("tt", 3)},
		&stubSource{name: trend.SourceInstagram, items: rawItems("ig", 3)},
		&stubSource{name: trend.SourceFacebook, items: rawItems("fb", 3)},
		&stubSource{name: trend.SourcePinterest, panics: true},
	}

	c := NewCoordinator(zap.NewNop(), sources...)
	result := c.Ingest(context.Background(), 10, nil, nil)

	require.Len(t, result.BySource, 6)
	for _, name := range trend.KnownSources[:5] {
		assert.Len(t, result.BySource[name], 3, name)
	}

	// A panicking source contributes an empty sequence, never an
	// absent key or a failed run.
	assert.Empty(t, result.BySource[trend.SourcePinterest])
	assert.NotNil(t, result.BySource[trend.SourcePinterest])

	assert.Equal(t, 6, result.Metadata.TotalSources)
	assert.Equal(t, 15, result.Metadata.TotalItems)
	assert.Equal(t, 10, result.Metadata.ItemsPerSource)
	assert.NotEmpty(t, result.Metadata.RunID)
}

func TestIngestLimitPerSource(t *testing.T) {
	src := &stubSource{name: trend.SourceTikTok, items: rawItems("tt", 8)}
	c := NewCoordinator(zap.NewNop(), src)

	result := c.Ingest(context.Background(), 5, nil, nil)
	assert.Len(t, result.BySource[trend.SourceTikTok], 5)
	assert.Equal(t, 5, src.gotLimit)
}

func TestIngestSubsetSelection(t *testing.T) {
	sources := []trend.Source{
		&stubSource{name: trend.SourceTikTok, items: rawItems("tt", 2)},
		&stubSource{name: trend.SourceInstagram, items: rawItems("ig", 2)},
	}

	c := NewCoordinator(zap.NewNop(), sources...)
	result := c.Ingest(context.Background(), 10, nil, []string{trend.SourceInstagram, "imaginary"})

	require.Len(t, result.BySource, 1)
	assert.Len(t, result.BySource[trend.SourceInstagram], 2)
	assert.Equal(t, 1, result.Metadata.TotalSources)
}

func TestIngestFilterWhitelist(t *testing.T) {
	tiktok := &stubSource{name: trend.SourceTikTok}
	instagram := &stubSource{name: trend.SourceInstagram}

	c := NewCoordinator(zap.NewNop(), tiktok, instagram)
	filters := trend.Filters{"region": "US", "hashtag": "ootd", "bogus": "x"}
	c.Ingest(context.Background(), 10, filters, nil)

	assert.Equal(t, trend.Filters{"region": "US"}, tiktok.gotFilters)
	assert.Equal(t, trend.Filters{"hashtag": "ootd"}, instagram.gotFilters)
}

func TestIngestEmptySourceKeepsKey(t *testing.T) {
	src := &stubSource{name: trend.SourceFacebook}
	c := NewCoordinator(zap.NewNop(), src)

	result := c.Ingest(context.Background(), 10, nil, nil)
	assert.NotNil(t, result.BySource[trend.SourceFacebook])
	assert.Empty(t, result.BySource[trend.SourceFacebook])
	assert.Equal(t, 0, result.Metadata.TotalItems)
}

func TestIngestFailureMetricCountsPanicsOnly(t *testing.T) {
	empty := &stubSource{name: trend.SourceEcommerce}
	exploding := &stubSource{name: trend.SourceGoogleTrends, panics: true}
	c := NewCoordinator(zap.NewNop(), empty, exploding)

	emptyBefore := testutil.ToFloat64(metrics.SourceFailures.WithLabelValues(trend.SourceEcommerce))
	panicBefore := testutil.ToFloat64(metrics.SourceFailures.WithLabelValues(trend.SourceGoogleTrends))

	c.Ingest(context.Background(), 10, nil, nil)

	// An empty fetch is a valid contribution, not a failure.
	assert.Equal(t, emptyBefore,
		testutil.ToFloat64(metrics.SourceFailures.WithLabelValues(trend.SourceEcommerce)))
	assert.Equal(t, panicBefore+1,
		testutil.ToFloat64(metrics.SourceFailures.WithLabelValues(trend.SourceGoogleTrends)))
}

func TestSourceLookup(t *testing.T) {
	tiktok := &stubSource{name: trend.SourceTikTok}
	c := NewCoordinator(zap.NewNop(), tiktok)

	assert.Equal(t, trend.Source(tiktok), c.Source(trend.SourceTikTok))
	assert.Nil(t, c.Source("imaginary"))
	assert.Equal(t, []string{trend.SourceTikTok}, c.SourceNames())
}
