package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"campuscore/internal/infrastructure/storage/postgres"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	pool      *postgres.Pool
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *postgres.Pool, version string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		startedAt: time.Now(),
		version:   version,
	}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. Fails when the database is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.pool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Info handles GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "campuscore",
		"version":    h.version,
		"go_version": runtime.Version(),
		"uptime_s":   int64(time.Since(h.startedAt).Seconds()),
	})
}
