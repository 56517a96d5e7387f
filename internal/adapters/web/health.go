package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BackendProbe checks that the classification backend is reachable
type BackendProbe func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	probe BackendProbe
}

// NewHealthHandler creates a new health handler. A nil probe reports the backend as not configured.
func NewHealthHandler(probe BackendProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.probe == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": "not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.probe(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": "ok"})
}
