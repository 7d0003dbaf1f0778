package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/service/ingestion"
)

// platformFilterKeys maps each platform to the query parameter it
// accepts as a fetch filter.
var platformFilterKeys = map[string]string{
	trend.SourceGoogleTrends: "region",
	trend.SourceEcommerce:    "platform",
	trend.SourceTikTok:       "region",
	trend.SourceInstagram:    "hashtag",
	trend.SourceFacebook:     "category",
	trend.SourcePinterest:    "board",
}

// SourceDirectory exposes the configured platform collaborators.
type SourceDirectory interface {
	Source(name string) trend.Source
	Ingest(ctx context.Context, limitPerSource int, filters trend.Filters, only []string) ingestion.Result
}

// SourceHandler serves raw per-platform data, bypassing the pipeline
type SourceHandler struct {
	directory      SourceDirectory
	itemsPerSource int
}

// NewSourceHandler creates a new source handler. itemsPerSource is the
// default fetch depth when a request carries no limit parameter.
func NewSourceHandler(directory SourceDirectory, itemsPerSource int) *SourceHandler {
	return &SourceHandler{
		directory:      directory,
		itemsPerSource: itemsPerSource,
	}
}

// GetAllFashion returns raw trending items from every platform
func (h *SourceHandler) GetAllFashion(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.itemsPerSource)

	result := h.directory.Ingest(r.Context(), limit, nil, nil)

	counts := make(map[string]int, len(result.BySource))
	for name, items := range result.BySource {
		counts[name] = len(items)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"category":  "fashion",
		"platforms": trend.KnownSources,
		"data":      result.BySource,
		"counts":    counts,
	})
}

// GetAllTrending is the legacy alias for GetAllFashion
func (h *SourceHandler) GetAllTrending(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.itemsPerSource)

	result := h.directory.Ingest(r.Context(), limit, nil, nil)

	counts := make(map[string]int, len(result.BySource))
	for name, items := range result.BySource {
		counts[name] = len(items)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": trend.KnownSources,
		"data":      result.BySource,
		"counts":    counts,
	})
}

// GetPlatform returns raw trending items from a single platform
func (h *SourceHandler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	name := strings.ReplaceAll(chi.URLParam(r, "platform"), "-", "_")

	source := h.directory.Source(name)
	if source == nil {
		respondWithError(w, http.StatusNotFound, "Unknown platform: "+name)
		return
	}

	limit := queryInt(r, "limit", h.itemsPerSource)

	filters := trend.Filters{}
	if key, ok := platformFilterKeys[name]; ok {
		if value := r.URL.Query().Get(key); value != "" {
			filters[key] = value
		}
	}

	data := source.Fetch(r.Context(), limit, filters)
	if data == nil {
		data = []trend.RawItem{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"platform": name,
		"category": "fashion",
		"data":     data,
		"count":    len(data),
	})
}
