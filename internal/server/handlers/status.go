package handlers

import (
	"net/http"

	"trendpulse/internal/domain/trend"
)

// configurable is implemented by sources that can report whether real
// API credentials are present.
type configurable interface {
	Configured() bool
}

type sourceStatus struct {
	Configured    bool   `json:"configured"`
	UsingRealData bool   `json:"using_real_data"`
	Message       string `json:"message"`
}

// StatusHandler reports service health and per-source data provenance
type StatusHandler struct {
	sources []trend.Source
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(sources []trend.Source) *StatusHandler {
	return &StatusHandler{
		sources: sources,
	}
}

// GetHealth returns service liveness
func (h *StatusHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// GetStatus reports, per platform, whether real credentials are
// configured or mock data is being served
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := make(map[string]sourceStatus, len(h.sources))
	for _, s := range h.sources {
		configured := false
		if c, ok := s.(configurable); ok {
			configured = c.Configured()
		}

		message := "Using real platform data"
		if !configured {
			message = "Using mock data; configure API credentials to fetch real data"
		}

		status[s.Name()] = sourceStatus{
			Configured:    configured,
			UsingRealData: configured,
			Message:       message,
		}
	}

	respondWithJSON(w, http.StatusOK, status)
}
