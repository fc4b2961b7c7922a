package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// ChatHandler implements the assistant chat endpoints
type ChatHandler struct {
	service *service.ChatService
	audit   Auditor
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *service.ChatService, audit Auditor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// SendMessageRequest is a message typed by the user
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListMessages handles GET /chat/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.service.Messages()})
}

// SendMessage handles POST /chat/messages. The reply arrives later through
// the state stream.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), req.Content)
	if err != nil {
		respondError(c, h.logger, "Failed to send message", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceChatMessage, msg.ID)
	c.JSON(http.StatusAccepted, msg)
}

// SaveAsAdvice handles POST /chat/messages/:id/advice
func (h *ChatHandler) SaveAsAdvice(c *gin.Context) {
	advice, err := h.service.SaveAsAdvice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to save message as advice", err)
		return
	}
	h.audit.record(c, audit.OperationCreate, audit.ResourceAdvice, advice.ID)
	c.JSON(http.StatusCreated, advice)
}
