package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"trendpulse/internal/domain/trend"
	"trendpulse/internal/service/pipeline"
)

// TrendProcessor runs the pipeline for the trend endpoints.
type TrendProcessor interface {
	Process(ctx context.Context, limitPerSource int, filters trend.Filters, sources []string) pipeline.Result
	Summary(ctx context.Context, limit int, filters trend.Filters, sources []string) trend.Report
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	processor   TrendProcessor
	reportLimit int
}

// NewTrendHandler creates a new trend handler. reportLimit is the
// default entry cap when a request carries no limit parameter.
func NewTrendHandler(processor TrendProcessor, reportLimit int) *TrendHandler {
	return &TrendHandler{
		processor:   processor,
		reportLimit: reportLimit,
	}
}

// GetTrends returns the weekly trend report
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.reportLimit)

	filters := trend.Filters{}
	if region := r.URL.Query().Get("region"); region != "" {
		filters["region"] = region
	} else {
		filters["region"] = "US"
	}

	report := h.processor.Summary(r.Context(), limit, filters, nil)
	respondWithJSON(w, http.StatusOK, report)
}

// GetTrendSummary returns the weekly report with source and category filtering
func (h *TrendHandler) GetTrendSummary(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.reportLimit)

	filters := trend.Filters{}
	if region := r.URL.Query().Get("region"); region != "" {
		filters["region"] = region
	} else {
		filters["region"] = "US"
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filters["category"] = category
	}

	report := h.processor.Summary(r.Context(), limit, filters, querySources(r))
	respondWithJSON(w, http.StatusOK, report)
}

// GetProcessedTrends returns scored trends straight from the pipeline,
// before report formatting
func (h *TrendHandler) GetProcessedTrends(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 2*h.reportLimit)

	filters := trend.Filters{}
	if region := r.URL.Query().Get("region"); region != "" {
		filters["region"] = region
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filters["category"] = category
	}

	result := h.processor.Process(r.Context(), 0, filters, querySources(r))
	if limit > 0 && len(result.Trends) > limit {
		result.Trends = result.Trends[:limit]
	}

	respondWithJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func querySources(r *http.Request) []string {
	raw := r.URL.Query().Get("sources")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	sources := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sources = append(sources, p)
		}
	}
	return sources
}
