package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/datavault/internal/logging"
)

type HealthHandler struct {
	db     Pinger
	logger logging.Logger
}

func NewHealthHandler(db Pinger, logger logging.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check GET /healthz
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
