package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vcscsvcscs/hope/apps/backend/internal/audit"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"github.com/vcscsvcscs/hope/apps/backend/internal/handler"
	"github.com/vcscsvcscs/hope/apps/backend/internal/middleware"
	"github.com/vcscsvcscs/hope/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/stream"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("persistence", cfg.Persistence.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence backend holding the store projection
	backend, err := persistence.Open(ctx, cfg.Persistence, logger)
	if err != nil {
		logger.Fatal("Failed to open persistence backend", zap.Error(err))
	}
	defer backend.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st := store.New(ctx, store.Options{
		Adapter:      backend,
		Key:          cfg.Persistence.Key,
		Seed:         cfg.Synthesizer.Seed,
		TickInterval: cfg.Synthesizer.TickInterval,
		WriteTimeout: cfg.Persistence.WriteTimeout,
		Metrics:      store.NewMetrics(registry),
	}, logger)
	defer st.Close()

	// Audit trail shares the postgres pool when that backend is active
	auditLogger := audit.NewLogger(backend.Pool, logger)
	if err := auditLogger.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare audit log", zap.Error(err))
	}

	// Initialize services
	scheduler := service.NewScheduler(st, logger)
	defer scheduler.Close()

	reviewService := service.NewReviewService(st, logger)
	services := handler.Services{
		Sessions:      service.NewSessionService(st, cfg.Synthesizer.Seed, logger),
		Onboarding:    service.NewOnboardingService(st, logger),
		Medications:   service.NewMedicationService(st, logger),
		Consultations: service.NewConsultationService(st, logger),
		Chat: service.NewChatService(st, scheduler, service.ChatConfig{
			MinDelay: cfg.Synthesizer.ChatReplyMinDelay,
			MaxDelay: cfg.Synthesizer.ChatReplyMaxDelay,
		}, cfg.Synthesizer.Seed, logger),
		Reviews: reviewService,
		Uploads: service.NewUploadService(st, scheduler, service.UploadConfig{
			ProcessDelay: cfg.Synthesizer.UploadProcessDelay,
			ReadyDelay:   cfg.Synthesizer.UploadReadyDelay,
		}, logger),
		Reports:    service.NewReportService(st, reviewService, pdf.NewPDFGenerator(logger), logger),
		Dashboard:  service.NewDashboardService(st, logger),
		DataRights: service.NewDataRightsService(st, auditLogger, logger),
	}

	// Live state stream for dashboards
	hub := stream.NewHub(registry, logger)
	go hub.Run(ctx)
	detach := hub.Attach(st)
	defer detach()

	api := handler.NewAPI(services, handler.NewAuditor(st, auditLogger, logger), logger)
	api.Health = handler.NewHealthHandler(backend, backend.Name, cfg.Persistence.Key, version, logger)
	api.Stream = hub
	api.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.NewHTTPMetrics(registry).Middleware())
	r.Use(handler.SessionUser(st))
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	handler.RegisterRoutes(r, api)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	stop()

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if n := scheduler.CancelAll(); n > 0 {
		logger.Info("Cancelled pending callbacks", zap.Int("count", n))
	}

	logger.Info("Server exited")
}
