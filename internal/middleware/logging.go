package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

const anonymous = "anonymous"

// routeOf returns the registered route template, or "unmatched"
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// requestFields describes the request a log line belongs to
func requestFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("route", routeOf(c)),
		zap.String("ip", c.ClientIP()),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return fields
}

// sessionFields names the session that served the request. SessionUser in
// the handler package fills these in before the route runs.
func sessionFields(c *gin.Context) []zap.Field {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = anonymous
	}
	fields := []zap.Field{zap.String("user_id", userID)}
	if role := c.GetString("role"); role != "" {
		fields = append(fields, zap.String("role", role))
	}
	return fields
}

// RequestLoggingMiddleware logs every request once it completes. Client
// errors log at Warn, server errors at Error.
func RequestLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := append(requestFields(c), sessionFields(c)...)
		fields = append(fields,
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Time("timestamp", startTime),
		)

		switch {
		case status >= 500:
			logger.Error("Request completed with server error", fields...)
		case status >= 400:
			logger.Warn("Request completed with client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// ErrorLoggingMiddleware logs each error a handler attached with c.Error
func ErrorLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			fields := append(requestFields(c), sessionFields(c)...)
			fields = append(fields,
				zap.Error(err.Err),
				zap.Uint64("error_type", uint64(err.Type)),
				zap.Stack("stack_trace"),
			)
			logger.Error("Request error occurred", fields...)
		}
	}
}

// RecoveryMiddleware turns a panic into a 500 with the standard error body
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				fields := append(requestFields(c),
					zap.Any("error", recovered),
					zap.Stack("stack_trace"),
				)
				logger.Error("Panic recovered", fields...)

				c.AbortWithStatusJSON(500, gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// RequestIDMiddleware keeps an incoming request ID or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
