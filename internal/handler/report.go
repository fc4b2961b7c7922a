package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements the downloadable summary endpoints
type ReportHandler struct {
	reports *service.ReportService
	reviews *service.ReviewService
	audit   Auditor
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *service.ReportService, reviews *service.ReviewService, audit Auditor, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		reviews: reviews,
		audit:   audit,
		logger:  logger,
	}
}

// ExportPatient handles GET /patients/:id/export?format=json|pdf
func (h *ReportHandler) ExportPatient(c *gin.Context) {
	id := c.Param("id")

	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		export, patient, err := h.reviews.ExportPatient(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, "Failed to export patient summary", err)
			return
		}
		h.audit.record(c, audit.OperationRead, audit.ResourcePatient, id)
		attachment(c, service.ExportFileName(patient.PatientName, export.ExportedAt, "json"))
		c.JSON(http.StatusOK, export)

	case "pdf":
		report, err := h.reports.PatientReport(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, "Failed to render patient report", err)
			return
		}
		h.audit.record(c, audit.OperationRead, audit.ResourcePatient, id)
		attachment(c, report.FileName)
		c.Data(http.StatusOK, "application/pdf", report.Content)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    CodeValidation,
			Message: "Unsupported export format",
			Details: stringPtr(fmt.Sprintf("format must be json or pdf, got %q", format)),
		})
	}
}

// UserReport handles GET /report, the signed-in user's health summary PDF
func (h *ReportHandler) UserReport(c *gin.Context) {
	report, err := h.reports.UserReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to render report", err)
		return
	}
	h.audit.record(c, audit.OperationRead, audit.ResourceUserData, "report")
	attachment(c, report.FileName)
	c.Data(http.StatusOK, "application/pdf", report.Content)
}

func attachment(c *gin.Context, fileName string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
}
