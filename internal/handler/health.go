package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks that a dependency answers
type Pinger interface {
	Ping(ctx context.Context, key string) error
}

// HealthHandler reports service and persistence health
type HealthHandler struct {
	backend     Pinger
	backendName string
	key         string
	version     string
	logger      *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. backend may be nil when
// persistence is disabled.
func NewHealthHandler(backend Pinger, backendName, key, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		backend:     backend,
		backendName: backendName,
		key:         key,
		version:     version,
		logger:      logger,
	}
}

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.backend.Ping(ctx, h.key); err != nil {
			h.logger.Error("health check failed: persistence unreachable",
				zap.Error(err),
				zap.String("backend", h.backendName),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "unhealthy",
				"persistence": h.backendName,
				"error":       err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"persistence": h.backendName,
		"service":     "hope-backend",
		"version":     h.version,
	})
}
