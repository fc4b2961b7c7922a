package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/hope/apps/backend/internal/service"
	"go.uber.org/zap"
)

// Services are the domain services the API delegates to
type Services struct {
	Sessions      *service.SessionService
	Onboarding    *service.OnboardingService
	Medications   *service.MedicationService
	Consultations *service.ConsultationService
	Chat          *service.ChatService
	Reviews       *service.ReviewService
	Uploads       *service.UploadService
	Reports       *service.ReportService
	Dashboard     *service.DashboardService
	DataRights    *service.DataRightsService
}

// API groups every handler served under /api/v1
type API struct {
	Session    *SessionHandler
	Onboarding *OnboardingHandler
	Medication *MedicationHandler
	Chat       *ChatHandler
	Review     *ReviewHandler
	Upload     *UploadHandler
	Report     *ReportHandler
	Dashboard  *DashboardHandler
	DataRights *DataRightsHandler
	Health     *HealthHandler

	// Stream serves the websocket state stream
	Stream http.Handler
	// Metrics serves the prometheus scrape endpoint
	Metrics http.Handler
}

// NewAPI builds the handlers over svc. Health, Stream and Metrics are left
// for the caller to set.
func NewAPI(svc Services, auditor Auditor, logger *zap.Logger) *API {
	return &API{
		Session:    NewSessionHandler(svc.Sessions, auditor, logger),
		Onboarding: NewOnboardingHandler(svc.Onboarding, auditor, logger),
		Medication: NewMedicationHandler(svc.Medications, svc.Consultations, auditor, logger),
		Chat:       NewChatHandler(svc.Chat, auditor, logger),
		Review:     NewReviewHandler(svc.Reviews, auditor, logger),
		Upload:     NewUploadHandler(svc.Uploads, auditor, logger),
		Report:     NewReportHandler(svc.Reports, svc.Reviews, auditor, logger),
		Dashboard:  NewDashboardHandler(svc.Dashboard, logger),
		DataRights: NewDataRightsHandler(svc.DataRights, logger),
	}
}

// RegisterRoutes mounts api on r. Nil stream and metrics handlers are skipped.
func RegisterRoutes(r gin.IRouter, api *API) {
	if api.Health != nil {
		r.GET("/health", api.Health.GetHealth)
	}
	if api.Metrics != nil {
		r.GET("/metrics", gin.WrapH(api.Metrics))
	}

	v1 := r.Group("/api/v1")

	v1.POST("/session", api.Session.StartSession)
	v1.DELETE("/session", api.Session.EndSession)
	v1.GET("/state", api.Session.GetState)

	v1.GET("/onboarding", api.Onboarding.GetOnboarding)
	v1.PATCH("/onboarding", api.Onboarding.UpdateOnboarding)
	v1.POST("/onboarding/answers", api.Onboarding.AnswerSection)
	v1.PUT("/onboarding/step", api.Onboarding.SetStep)
	v1.POST("/onboarding/complete", api.Onboarding.Complete)

	v1.GET("/medications", api.Medication.ListMedications)
	v1.POST("/medications", api.Medication.CreateMedication)
	v1.PATCH("/medications/:id", api.Medication.UpdateMedication)
	v1.POST("/medications/:id/doses", api.Medication.LogDose)
	v1.POST("/medications/:id/consultations", api.Medication.Consult)

	v1.GET("/chat/messages", api.Chat.ListMessages)
	v1.POST("/chat/messages", api.Chat.SendMessage)
	v1.POST("/chat/messages/:id/advice", api.Chat.SaveAsAdvice)

	v1.GET("/advice", api.Review.ListAdvice)
	v1.POST("/advice/:id/reviews", api.Review.ReviewAdvice)
	v1.POST("/advice/:id/approve", api.Review.ApproveAdvice)
	v1.GET("/review-queue", api.Review.ReviewQueue)

	v1.GET("/uploads", api.Upload.ListUploads)
	v1.POST("/uploads", api.Upload.Upload)
	v1.POST("/uploads/:id/review", api.Upload.MarkReviewed)

	v1.GET("/alerts", api.Review.ListAlerts)
	v1.POST("/alerts/:id/acknowledge", api.Review.AcknowledgeAlert)
	v1.POST("/alerts/:id/resolve", api.Review.ResolveAlert)

	v1.GET("/patients", api.Review.SearchPatients)
	v1.PATCH("/patients/:id", api.Review.UpdatePatient)
	v1.GET("/patients/:id/export", api.Report.ExportPatient)
	v1.GET("/report", api.Report.UserReport)

	v1.GET("/dashboard", api.Dashboard.GetSummary)
	v1.POST("/insights/:id/dismiss", api.Dashboard.DismissInsight)

	v1.GET("/data/export", api.DataRights.ExportData)
	v1.DELETE("/data", api.DataRights.DeleteData)

	if api.Stream != nil {
		v1.GET("/stream", gin.WrapH(api.Stream))
	}
}
