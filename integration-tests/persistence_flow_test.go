package integration_tests

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"github.com/vcscsvcscs/hope/apps/backend/internal/handler"
	"github.com/vcscsvcscs/hope/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// app is one running instance of the API over a persistence backend
type app struct {
	router *gin.Engine
	store  *store.Store
	audit  *audit.Logger
}

func startApp(t *testing.T, ctx context.Context, backend *persistence.Backend) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	st := store.New(ctx, store.Options{
		Adapter:      backend,
		Seed:         2024,
		TickInterval: time.Hour,
	}, logger)
	t.Cleanup(st.Close)

	auditLogger := audit.NewLogger(backend.Pool, logger)
	require.NoError(t, auditLogger.EnsureSchema(ctx))

	scheduler := service.NewScheduler(st, logger)
	t.Cleanup(scheduler.Close)
	reviews := service.NewReviewService(st, logger)

	api := handler.NewAPI(handler.Services{
		Sessions:      service.NewSessionService(st, 2024, logger),
		Onboarding:    service.NewOnboardingService(st, logger),
		Medications:   service.NewMedicationService(st, logger),
		Consultations: service.NewConsultationService(st, logger),
		Chat:          service.NewChatService(st, scheduler, service.ChatConfig{MinDelay: 5 * time.Millisecond, MaxDelay: 10 * time.Millisecond}, 2024, logger),
		Reviews:       reviews,
		Uploads:       service.NewUploadService(st, scheduler, service.UploadConfig{ProcessDelay: 5 * time.Millisecond, ReadyDelay: 10 * time.Millisecond}, logger),
		Reports:       service.NewReportService(st, reviews, pdf.NewPDFGenerator(logger), logger),
		Dashboard:     service.NewDashboardService(st, logger),
		DataRights:    service.NewDataRightsService(st, auditLogger, logger),
	}, handler.NewAuditor(st, auditLogger, logger), logger)
	api.Health = handler.NewHealthHandler(backend, backend.Name, store.DefaultKey, "test", logger)

	router := gin.New()
	router.Use(handler.SessionUser(st))
	handler.RegisterRoutes(router, api)
	return &app{router: router, store: st, audit: auditLogger}
}

func (a *app) call(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// runSessionFlow signs in, adds a medication, logs a dose and chats, then
// restarts the app over the same backend and checks the projection survived.
// inspect runs against the persisted data before it is erased. The signed-in
// user's id is returned.
func runSessionFlow(t *testing.T, ctx context.Context, backend *persistence.Backend, inspect func()) string {
	first := startApp(t, ctx, backend)

	w := first.call(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = first.call(t, http.MethodPost, "/api/v1/session", gin.H{"role": "user"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := first.store.State().CurrentUser
	require.NotNil(t, user)

	w = first.call(t, http.MethodPost, "/api/v1/medications", gin.H{
		"name":      "Atorvastatin",
		"dosage":    "20mg",
		"frequency": "Once daily",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var med service.MedicationView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &med))

	w = first.call(t, http.MethodPost, "/api/v1/medications/"+med.ID+"/doses", gin.H{"taken": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = first.call(t, http.MethodPost, "/api/v1/chat/messages", gin.H{"content": "How can I sleep better?"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Eventually(t, func() bool {
		return len(first.store.State().ChatMessages) == 2
	}, 2*time.Second, 10*time.Millisecond)

	before := first.store.State()
	first.store.Close()

	second := startApp(t, ctx, backend)
	restored := second.store.State()

	require.NotNil(t, restored.CurrentUser)
	assert.Equal(t, user.ID, restored.CurrentUser.ID)
	require.NotNil(t, restored.CurrentRole)
	assert.Equal(t, model.UserRoleUser, *restored.CurrentRole)
	assert.Equal(t, len(before.Medications), len(restored.Medications))
	assert.Equal(t, before.DoseLogs, restored.DoseLogs)
	assert.Len(t, restored.ChatMessages, 2)
	// volatile data is never persisted
	assert.Nil(t, restored.LiveMetrics)
	assert.Empty(t, restored.Patients)

	if inspect != nil {
		inspect()
	}

	w = second.call(t, http.MethodDelete, "/api/v1/data", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, err := backend.Get(ctx, store.DefaultKey)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	return user.ID
}

func TestSessionFlow_EncryptedFileBackend(t *testing.T) {
	ctx := context.Background()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	dir := t.TempDir()
	backend, err := persistence.Open(ctx, config.PersistenceConfig{
		Backend:       config.BackendFile,
		Key:           store.DefaultKey,
		FilePath:      dir,
		EncryptionKey: base64.StdEncoding.EncodeToString(key),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	runSessionFlow(t, ctx, backend, func() {
		// only ciphertext reaches the disk
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		for _, entry := range entries {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			require.NoError(t, err)
			assert.NotContains(t, string(data), "Atorvastatin")
		}
	})
}

func TestSessionFlow_PostgresBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("hope_integration"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	backend, err := persistence.Open(ctx, config.PersistenceConfig{
		Backend:     config.BackendPostgres,
		Key:         store.DefaultKey,
		DatabaseURL: dbURL,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	require.NotNil(t, backend.Pool)

	userID := runSessionFlow(t, ctx, backend, nil)

	// the audit trail reached the shared pool
	auditLogger := audit.NewLogger(backend.Pool, zap.NewNop())
	var count int
	require.NoError(t, backend.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs").Scan(&count))
	assert.Greater(t, count, 0)
	logs, err := auditLogger.GetAuditLogs(ctx, userID, 50)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, audit.OperationDelete, logs[0].OperationType)
	assert.Equal(t, audit.ResourceUserData, logs[0].ResourceType)
}
