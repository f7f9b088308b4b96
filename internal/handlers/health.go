package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks that the bookstore API is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	api     Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(api Pinger) *HealthHandler {
	return &HealthHandler{api: api, timeout: 3 * time.Second}
}

// Health handles GET /health - Liveness of the dashboard itself
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /ready - Reports whether the bookstore API answers
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.api.Ping(ctx); err != nil {
		slog.Warn("Bookstore API not reachable", "error", err)
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}
