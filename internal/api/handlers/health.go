package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rohits-web03/filebridge/internal/utils"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
	log     *zap.Logger
}

func NewHealthHandler(deps map[string]Pinger, timeout time.Duration, log *zap.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthHandler{deps: deps, timeout: timeout, log: log.Named("health")}
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// GET /health
// Live godoc
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /health [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Message: "OK"})
}

// GET /ready
// Ready godoc
// @Summary Readiness check
// @Description Pings the database and the bucket.
// @Tags Health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(h.deps))}
	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Warn("dependency not ready", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	utils.JSONResponse(w, status, resp)
}
