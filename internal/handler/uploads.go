package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// UploadHandler implements the health record upload endpoints
type UploadHandler struct {
	service *service.UploadService
	audit   Auditor
	logger  *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service *service.UploadService, audit Auditor, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// UploadRequest describes an uploaded file. Only its name and type are kept.
type UploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
}

// ListUploads handles GET /uploads
func (h *UploadHandler) ListUploads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"uploads": h.service.List()})
}

// Upload handles POST /uploads. Multipart requests are accepted too; the
// file body is discarded.
func (h *UploadHandler) Upload(c *gin.Context) {
	var req UploadRequest
	if file, err := c.FormFile("file"); err == nil {
		req.FileName = file.Filename
		req.ContentType = file.Header.Get("Content-Type")
	} else if !bindJSON(c, h.logger, &req) {
		return
	}

	item, err := h.service.Upload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.logger, "Failed to upload file", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceUpload, item.ID)
	c.JSON(http.StatusAccepted, item)
}

// MarkReviewed handles POST /uploads/:id/review
func (h *UploadHandler) MarkReviewed(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.MarkReviewed(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to mark upload reviewed", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceUpload, id)
	c.Status(http.StatusNoContent)
}
