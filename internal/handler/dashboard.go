package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler implements dashboard API endpoints
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetSummary handles GET /dashboard
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get dashboard summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DismissInsight handles POST /insights/:id/dismiss
func (h *DashboardHandler) DismissInsight(c *gin.Context) {
	if err := h.service.DismissInsight(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "Failed to dismiss insight", err)
		return
	}
	c.Status(http.StatusNoContent)
}
