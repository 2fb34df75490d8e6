package handler

import (
	"context"
	"net/http"
	"time"

	"insights-dashboard/internal/logger"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type HealthHandler struct {
	store Pinger
	log   logger.Logger
}

func NewHealthHandler(store Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

// Healthz checks the store connection
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: statusUnavailable})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK})
}
