package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grokimg/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	pinger port.Pinger
}

// NewHealthHandler creates a new HealthHandler. pinger may be nil when the
// configured cache has nothing to check.
func NewHealthHandler(pinger port.Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "image cache not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
