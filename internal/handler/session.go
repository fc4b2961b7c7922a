package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// SessionHandler signs synthesized users in and out and exposes the store state
type SessionHandler struct {
	service *service.SessionService
	audit   Auditor
	logger  *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service *service.SessionService, audit Auditor, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// StartSessionRequest selects the role of the synthesized user
type StartSessionRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// StartSession handles POST /session
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	state, err := h.service.StartSession(c.Request.Context(), req.Role)
	if err != nil {
		respondError(c, h.logger, "Failed to start session", err)
		return
	}

	c.Set("user_id", state.CurrentUser.ID)
	h.audit.record(c, audit.OperationCreate, audit.ResourceSession, state.SessionID)
	c.JSON(http.StatusCreated, state)
}

// EndSession handles DELETE /session
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := h.service.State().SessionID
	h.audit.record(c, audit.OperationDelete, audit.ResourceSession, sessionID)

	if err := h.service.EndSession(c.Request.Context()); err != nil {
		respondError(c, h.logger, "Failed to end session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetState handles GET /state
func (h *SessionHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.State())
}
