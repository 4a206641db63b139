package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/desertthunder/trackdrop/internal/tasks"
)

// StatsFunc returns a snapshot of the scheduler's loop counters.
type StatsFunc func() map[string]tasks.LoopStats

// StatusHandler serves the daemon's health and scheduler state.
// Implements the Handler interface for registration with a Router.
type StatusHandler struct {
	stats   StatsFunc
	started time.Time
}

// NewStatusHandler creates a status handler backed by the given snapshot function.
func NewStatusHandler(stats StatsFunc) *StatusHandler {
	return &StatusHandler{
		stats:   stats,
		started: time.Now(),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{"/health", "/status"}
}

// ServeHTTP dispatches to the health or status response based on path.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/health":
		h.writeJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(h.started).Round(time.Second).String(),
		})
	case "/status":
		h.writeJSON(w, map[string]any{
			"started": h.started.UTC().Format(time.RFC3339),
			"loops":   h.stats(),
		})
	default:
		http.NotFound(w, r)
	}
}

func (h *StatusHandler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
	}
}
