package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// DataRightsHandler implements data export and erasure
type DataRightsHandler struct {
	service *service.DataRightsService
	logger  *zap.Logger
}

// NewDataRightsHandler creates a new DataRightsHandler
func NewDataRightsHandler(service *service.DataRightsService, logger *zap.Logger) *DataRightsHandler {
	return &DataRightsHandler{
		service: service,
		logger:  logger,
	}
}

func requesterOf(c *gin.Context) service.Requester {
	return service.Requester{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// ExportData handles GET /data/export
func (h *DataRightsHandler) ExportData(c *gin.Context) {
	data, err := h.service.ExportUserData(c.Request.Context(), requesterOf(c))
	if err != nil {
		respondError(c, h.logger, "Failed to export user data", err)
		return
	}

	attachment(c, fmt.Sprintf("hope_export_%s.json", time.Now().UTC().Format("2006-01-02")))
	c.Data(http.StatusOK, "application/json", data)
}

// DeleteData handles DELETE /data. The store is reset and the persisted
// projection removed.
func (h *DataRightsHandler) DeleteData(c *gin.Context) {
	if err := h.service.DeleteUserData(c.Request.Context(), requesterOf(c)); err != nil {
		respondError(c, h.logger, "Failed to delete user data", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User data deleted successfully",
	})
}
