package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// levelFor is the level a completed request of the given status logs at
func levelFor(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every request logs once with its route, session and status", prop.ForAll(
		func(method, id, userID string, status int) bool {
			core, logs := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(RequestIDMiddleware(), RequestLoggingMiddleware(zap.New(core)))
			router.Handle(method, "/api/v1/medications/:id", func(c *gin.Context) {
				if userID != "" {
					c.Set("user_id", userID)
					c.Set("role", "user")
				}
				c.Status(status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/medications/"+id, nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Logf("expected one entry, got %d", len(entries))
				return false
			}
			entry := entries[0]
			if entry.Level != levelFor(status) {
				t.Logf("status %d logged at %s", status, entry.Level)
				return false
			}

			fields := entry.ContextMap()
			wantUser := userID
			if wantUser == "" {
				wantUser = anonymous
			}
			_, hasRole := fields["role"]
			return fields["method"] == method &&
				fields["route"] == "/api/v1/medications/:id" &&
				fields["path"] == "/api/v1/medications/"+id &&
				fields["user_id"] == wantUser &&
				hasRole == (userID != "") &&
				fields["status"] == int64(status) &&
				fields["request_id"] == w.Header().Get(RequestIDHeader)
		},
		gen.OneConstOf(http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete),
		gen.Identifier(),
		gen.AlphaString(),
		gen.OneConstOf(http.StatusOK, http.StatusCreated, http.StatusNoContent, http.StatusBadRequest,
			http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError, http.StatusServiceUnavailable),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ErrorLoggingDetail(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("attached errors log with a stack trace and the request they came from", prop.ForAll(
		func(messages []string, requestID string) bool {
			core, logs := observer.New(zapcore.ErrorLevel)
			router := gin.New()
			router.Use(RequestIDMiddleware(), ErrorLoggingMiddleware(zap.New(core)))
			router.GET("/api/v1/patients/:id/export", func(c *gin.Context) {
				for _, msg := range messages {
					_ = c.Error(errors.New(msg))
				}
				c.Status(http.StatusInternalServerError)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/p1/export", nil)
			req.Header.Set(RequestIDHeader, requestID)
			router.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage("Request error occurred").All()
			if len(entries) != len(messages) {
				t.Logf("expected %d entries, got %d", len(messages), len(entries))
				return false
			}
			for i, entry := range entries {
				fields := entry.ContextMap()
				if fields["error"] != messages[i] {
					return false
				}
				if _, ok := fields["stack_trace"]; !ok {
					return false
				}
				if fields["route"] != "/api/v1/patients/:id/export" ||
					fields["request_id"] != requestID ||
					fields["user_id"] != anonymous {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, gen.AlphaString()),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
