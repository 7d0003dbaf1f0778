package trend

import "context"

// Source is the contract every platform collaborator satisfies.
//
// Fetch must never fail: a source that cannot reach its platform falls
// back internally (mock data or an empty result) rather than surfacing
// an error to the pipeline.
type Source interface {
	// Name returns the platform identifier (one of KnownSources).
	Name() string

	// Fetch returns up to limit raw items, honoring only the filter
	// keys this source recognizes.
	Fetch(ctx context.Context, limit int, filters Filters) []RawItem
}
