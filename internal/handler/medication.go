package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationHandler implements medication API endpoints
type MedicationHandler struct {
	service       *service.MedicationService
	consultations *service.ConsultationService
	audit         Auditor
	logger        *zap.Logger
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(service *service.MedicationService, consultations *service.ConsultationService, audit Auditor, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{
		service:       service,
		consultations: consultations,
		audit:         audit,
		logger:        logger,
	}
}

// CreateMedicationRequest adds a medication to the current user's list
type CreateMedicationRequest struct {
	Name      string     `json:"name" binding:"required"`
	Dosage    string     `json:"dosage" binding:"required"`
	Frequency string     `json:"frequency" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes"`
	Color     string     `json:"color"`
}

// LogDoseRequest records one dose
type LogDoseRequest struct {
	Taken *bool   `json:"taken" binding:"required"`
	Notes *string `json:"notes"`
}

// ListMedications handles GET /medications
func (h *MedicationHandler) ListMedications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"medications": h.service.ListMedications(c.Request.Context())})
}

// CreateMedication handles POST /medications
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req CreateMedicationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	medication := &model.Medication{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		Color:     req.Color,
	}
	if req.StartDate != nil {
		medication.StartDate = *req.StartDate
	}

	if err := h.service.AddMedication(c.Request.Context(), medication); err != nil {
		respondError(c, h.logger, "Failed to add medication", err)
		return
	}

	view, err := h.service.GetMedication(c.Request.Context(), medication.ID)
	if err != nil {
		respondError(c, h.logger, "Failed to load medication", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceMedication, medication.ID)
	c.JSON(http.StatusCreated, view)
}

// UpdateMedication handles PATCH /medications/:id
func (h *MedicationHandler) UpdateMedication(c *gin.Context) {
	var req store.MedicationUpdate
	if !bindJSON(c, h.logger, &req) {
		return
	}

	id := c.Param("id")
	medication, err := h.service.UpdateMedication(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "Failed to update medication", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceMedication, id)
	c.JSON(http.StatusOK, medication)
}

// LogDose handles POST /medications/:id/doses
func (h *MedicationHandler) LogDose(c *gin.Context) {
	var req LogDoseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	dose, err := h.service.LogDose(c.Request.Context(), c.Param("id"), *req.Taken, req.Notes)
	if err != nil {
		respondError(c, h.logger, "Failed to log dose", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceDoseLog, dose.MedicationID)
	c.JSON(http.StatusCreated, dose)
}

// Consult handles POST /medications/:id/consultations
func (h *MedicationHandler) Consult(c *gin.Context) {
	var req service.ConsultationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	result, err := h.consultations.Consult(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "Failed to record consultation", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceConsultation, result.Consultation.ID)
	c.JSON(http.StatusCreated, result)
}
