package api

import (
	"net/http"
	"time"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	startedAt     time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, startedAt: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	stats["uptimeSeconds"] = int64(time.Since(h.startedAt).Seconds())
	writeJSON(w, http.StatusOK, stats)
}
