package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/monitoring"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HostStatsSource provides the latest host sample.
type HostStatsSource interface {
	Snapshot() (monitoring.HostStats, bool)
}

// HealthHandler reports database reachability and host load.
type HealthHandler struct {
	db    Pinger
	stats HostStatsSource
}

// NewHealthHandler creates a new HealthHandler. stats may be nil.
func NewHealthHandler(db Pinger, stats HostStatsSource) *HealthHandler {
	return &HealthHandler{db: db, stats: stats}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string                `json:"status"`
	Database string                `json:"database"`
	Host     *monitoring.HostStats `json:"host,omitempty"`
}

// Get handles the health probe. It answers 503 when the database is down.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database unreachable")
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.stats != nil {
		if stats, ok := h.stats.Snapshot(); ok {
			resp.Host = &stats
		}
	}
	writeJSON(w, status, resp)
}
