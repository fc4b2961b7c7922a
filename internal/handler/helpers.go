package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeForbidden         = "FORBIDDEN"
	CodeNoSession         = "NO_SESSION"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// statusOf maps service and store errors to an HTTP status and error code
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, store.ErrNoSession):
		return http.StatusUnauthorized, CodeNoSession
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError writes the error response for err. Server errors are logged
// and attached to the context; client errors are left to request logging.
func respondError(c *gin.Context, logger *zap.Logger, message string, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: message,
		Details: stringPtr(err.Error()),
	})
}

// bindJSON decodes the request body into req, answering 400 on failure
func bindJSON(c *gin.Context, logger *zap.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Debug("invalid request body", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    CodeValidation,
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return false
	}
	return true
}

// SessionUser exposes the signed-in user as "user_id" and the session role
// as "role" for request logging
func SessionUser(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := st.State()
		if state.CurrentUser != nil {
			c.Set("user_id", state.CurrentUser.ID)
		}
		if state.CurrentRole != nil {
			c.Set("role", string(*state.CurrentRole))
		}
		c.Next()
	}
}

// Auditor records mutations performed through the API against the
// signed-in user. A nil audit log disables recording.
type Auditor struct {
	store  *store.Store
	log    *audit.Logger
	logger *zap.Logger
}

// NewAuditor creates an Auditor
func NewAuditor(st *store.Store, log *audit.Logger, logger *zap.Logger) Auditor {
	return Auditor{store: st, log: log, logger: logger}
}

func (a Auditor) record(c *gin.Context, op audit.OperationType, resource audit.ResourceType, resourceID string) {
	if a.log == nil {
		return
	}
	userID := "anonymous"
	if user := a.store.State().CurrentUser; user != nil {
		userID = user.ID
	}
	if err := a.log.Record(c.Request.Context(), op, userID, resource, resourceID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		a.logger.Warn("failed to record audit entry",
			zap.Error(err),
			zap.String("resource_type", string(resource)),
			zap.String("resource_id", resourceID),
		)
	}
}

func stringPtr(s string) *string {
	return &s
}
