package handler

import (
	"context"
	"net/http"
	"time"
)

// Health handles GET /health. It reports 503 when storage does not answer.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Storage: h.repo.Name(),
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	}

	status := http.StatusOK
	if err := h.repo.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}
