package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"go.uber.org/zap"
)

// ReviewHandler implements the clinician endpoints: advice review, alerts
// and the patient roster
type ReviewHandler struct {
	service *service.ReviewService
	audit   Auditor
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(service *service.ReviewService, audit Auditor, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// ApproveRequest carries optional notes for an approval
type ApproveRequest struct {
	Notes string `json:"notes"`
}

// ListAdvice handles GET /advice
func (h *ReviewHandler) ListAdvice(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"advice": h.service.Advice()})
}

// ReviewQueue handles GET /review-queue
func (h *ReviewHandler) ReviewQueue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.service.ReviewQueue()})
}

// ReviewAdvice handles POST /advice/:id/reviews
func (h *ReviewHandler) ReviewAdvice(c *gin.Context) {
	var req service.ReviewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	id := c.Param("id")
	item, err := h.service.ReviewAdvice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "Failed to review advice", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceAdvice, id)
	c.JSON(http.StatusOK, item)
}

// ApproveAdvice handles POST /advice/:id/approve. The body is optional.
func (h *ReviewHandler) ApproveAdvice(c *gin.Context) {
	var req ApproveRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, h.logger, &req) {
		return
	}

	id := c.Param("id")
	item, err := h.service.ApproveAdvice(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondError(c, h.logger, "Failed to approve advice", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceAdvice, id)
	c.JSON(http.StatusOK, item)
}

// ListAlerts handles GET /alerts?unresolved=true
func (h *ReviewHandler) ListAlerts(c *gin.Context) {
	unresolved, err := strconv.ParseBool(c.DefaultQuery("unresolved", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    CodeValidation,
			Message: "Invalid unresolved parameter",
			Details: stringPtr(err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": h.service.Alerts(unresolved)})
}

// AcknowledgeAlert handles POST /alerts/:id/acknowledge
func (h *ReviewHandler) AcknowledgeAlert(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.AcknowledgeAlert(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to acknowledge alert", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceAlert, id)
	c.Status(http.StatusNoContent)
}

// ResolveAlert handles POST /alerts/:id/resolve
func (h *ReviewHandler) ResolveAlert(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.ResolveAlert(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to resolve alert", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceAlert, id)
	c.Status(http.StatusNoContent)
}

// SearchPatients handles GET /patients?q=
func (h *ReviewHandler) SearchPatients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patients": h.service.SearchPatients(c.Query("q"))})
}

// UpdatePatient handles PATCH /patients/:id
func (h *ReviewHandler) UpdatePatient(c *gin.Context) {
	var req store.PatientUpdate
	if !bindJSON(c, h.logger, &req) {
		return
	}

	id := c.Param("id")
	patient, err := h.service.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "Failed to update patient", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourcePatient, id)
	c.JSON(http.StatusOK, patient)
}
