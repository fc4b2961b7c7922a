package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// OnboardingHandler implements the onboarding endpoints
type OnboardingHandler struct {
	service *service.OnboardingService
	audit   Auditor
	logger  *zap.Logger
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(service *service.OnboardingService, audit Auditor, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// AnswerSectionRequest carries the answers of one onboarding section
type AnswerSectionRequest struct {
	Section service.SectionID    `json:"section" binding:"required"`
	Answers model.OnboardingData `json:"answers"`
}

// SetStepRequest jumps to a step of the flow
type SetStepRequest struct {
	Step *int `json:"step" binding:"required"`
}

// GetOnboarding handles GET /onboarding
func (h *OnboardingHandler) GetOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sections": h.service.Sections(),
		"progress": h.service.Progress(),
	})
}

// UpdateOnboarding handles PATCH /onboarding
func (h *OnboardingHandler) UpdateOnboarding(c *gin.Context) {
	var req model.OnboardingData
	if !bindJSON(c, h.logger, &req) {
		return
	}

	progress, err := h.service.UpdateData(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Failed to update onboarding data", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceOnboarding, "data")
	c.JSON(http.StatusOK, progress)
}

// AnswerSection handles POST /onboarding/answers
func (h *OnboardingHandler) AnswerSection(c *gin.Context) {
	var req AnswerSectionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	progress, err := h.service.AnswerSection(c.Request.Context(), req.Section, req.Answers)
	if err != nil {
		respondError(c, h.logger, "Failed to save onboarding answers", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceOnboarding, string(req.Section))
	c.JSON(http.StatusOK, progress)
}

// SetStep handles PUT /onboarding/step
func (h *OnboardingHandler) SetStep(c *gin.Context) {
	var req SetStepRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	progress, err := h.service.SetStep(c.Request.Context(), *req.Step)
	if err != nil {
		respondError(c, h.logger, "Failed to set onboarding step", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Complete handles POST /onboarding/complete
func (h *OnboardingHandler) Complete(c *gin.Context) {
	progress, err := h.service.Complete(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to complete onboarding", err)
		return
	}
	h.audit.record(c, audit.OperationUpdate, audit.ResourceOnboarding, "complete")
	c.JSON(http.StatusOK, progress)
}
