package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// DashboardService aggregates the store into the two dashboard views
type DashboardService struct {
	store  *store.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(st *store.Store, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		store:  st,
		now:    time.Now,
		logger: logger,
	}
}

// UserDashboard is the consumer view
type UserDashboard struct {
	User             *model.UserProfile  `json:"user"`
	LiveMetrics      *model.LiveMetrics  `json:"live_metrics"`
	RiskScore        *model.RiskScore    `json:"risk_score"`
	SleepData        *model.SleepData    `json:"sleep_data"`
	ActivityData     *model.ActivityData `json:"activity_data"`
	Insights         []model.Insight     `json:"insights"`
	MedicationCount  int                 `json:"medication_count"`
	AverageAdherence int                 `json:"average_adherence"`
	PendingAdvice    int                 `json:"pending_advice"`
	ApprovedAdvice   int                 `json:"approved_advice"`
	ProcessingFiles  int                 `json:"processing_files"`
}

// DoctorDashboard is the clinician view
type DoctorDashboard struct {
	User             *model.UserProfile     `json:"user"`
	PatientCount     int                    `json:"patient_count"`
	HighRiskCount    int                    `json:"high_risk_count"`
	UnresolvedAlerts []model.PatientAlert   `json:"unresolved_alerts"`
	ReviewQueueSize  int                    `json:"review_queue_size"`
	Patients         []model.PatientSummary `json:"patients"`
}

// Dashboard is whichever view matches the signed-in role
type Dashboard struct {
	Role   model.UserRole   `json:"role"`
	User   *UserDashboard   `json:"user,omitempty"`
	Doctor *DoctorDashboard `json:"doctor,omitempty"`
}

// GetSummary builds the dashboard for the signed-in role
func (s *DashboardService) GetSummary(ctx context.Context) (*Dashboard, error) {
	state := s.store.State()
	user, err := currentUser(state)
	if err != nil {
		return nil, err
	}

	s.logger.Info("getting dashboard summary",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	if user.Role == model.UserRoleDoctor {
		return &Dashboard{Role: user.Role, Doctor: doctorView(state)}, nil
	}
	return &Dashboard{Role: user.Role, User: userView(state, s.now())}, nil
}

func userView(st store.State, now time.Time) *UserDashboard {
	view := &UserDashboard{
		User:            st.CurrentUser,
		LiveMetrics:     st.LiveMetrics,
		RiskScore:       st.RiskScore,
		SleepData:       st.SleepData,
		ActivityData:    st.ActivityData,
		Insights:        make([]model.Insight, 0, len(st.Insights)),
		MedicationCount: len(st.Medications),
	}

	for _, insight := range st.Insights {
		if !insight.Dismissed {
			view.Insights = append(view.Insights, insight)
		}
	}

	// Handle empty medication lists gracefully
	if len(st.Medications) > 0 {
		total := 0
		for _, med := range st.Medications {
			total += AdherenceRate(st.DoseLogsFor(med.ID), now)
		}
		view.AverageAdherence = total / len(st.Medications)
	}

	for _, advice := range st.AdviceItems {
		switch {
		case advice.ApprovalStatus == model.AdviceStatusApproved:
			view.ApprovedAdvice++
		case advice.ApprovalStatus.AwaitingReview():
			view.PendingAdvice++
		}
	}
	for _, upload := range st.Uploads {
		if !upload.Status.Terminal() {
			view.ProcessingFiles++
		}
	}
	return view
}

func doctorView(st store.State) *DoctorDashboard {
	view := &DoctorDashboard{
		User:             st.CurrentUser,
		PatientCount:     len(st.Patients),
		UnresolvedAlerts: st.UnresolvedAlerts(),
		ReviewQueueSize:  len(st.ReviewQueue()),
		Patients:         st.Patients,
	}
	for _, p := range st.Patients {
		if p.RiskScore.Level == model.RiskLevelHigh {
			view.HighRiskCount++
		}
	}
	return view
}

// DismissInsight hides an insight from the user dashboard
func (s *DashboardService) DismissInsight(ctx context.Context, id string) error {
	if _, err := currentUser(s.store.State()); err != nil {
		return err
	}
	if err := s.store.DismissInsight(id); err != nil {
		s.logger.Error("failed to dismiss insight",
			zap.Error(err),
			zap.String("insight_id", id),
		)
		return fmt.Errorf("failed to dismiss insight: %w", err)
	}
	s.logger.Info("insight dismissed", zap.String("insight_id", id))
	return nil
}
