package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ReviewService holds the clinician actions: advice review, alert triage,
// upload review and the patient roster
type ReviewService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReviewService creates a ReviewService
func NewReviewService(st *store.Store, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:  st,
		logger: logger,
	}
}

// ReviewRequest is a clinician's decision on an advice item
type ReviewRequest struct {
	Status            model.AdviceApprovalStatus `json:"status"`
	Credentials       string                     `json:"credentials"`
	Notes             *string                    `json:"notes,omitempty"`
	ClinicalReasoning *string                    `json:"clinical_reasoning,omitempty"`
	RequestedActions  []string                   `json:"requested_actions,omitempty"`
	FollowUpRequired  *bool                      `json:"follow_up_required,omitempty"`
}

// ReviewAdvice appends a review by the signed-in doctor
func (s *ReviewService) ReviewAdvice(ctx context.Context, adviceID string, req ReviewRequest) (model.AdviceItem, error) {
	doctor, err := requireRole(s.store.State(), model.UserRoleDoctor)
	if err != nil {
		return model.AdviceItem{}, err
	}

	notified := req.Status != model.AdviceStatusUnderReview
	review := model.AdviceReview{
		ReviewerID:              doctor.ID,
		ReviewerName:            doctor.Name,
		ReviewerCredentials:     req.Credentials,
		Status:                  req.Status,
		Notes:                   req.Notes,
		ClinicalReasoning:       req.ClinicalReasoning,
		RequestedActions:        req.RequestedActions,
		FollowUpRequired:        req.FollowUpRequired,
		PatientNotificationSent: &notified,
	}

	item, err := s.store.ReviewAdvice(adviceID, review)
	if err != nil {
		s.logger.Error("failed to review advice",
			zap.Error(err),
			zap.String("advice_id", adviceID),
			zap.String("status", string(req.Status)),
		)
		return model.AdviceItem{}, fmt.Errorf("failed to review advice: %w", err)
	}

	s.logger.Info("advice reviewed successfully",
		zap.String("advice_id", adviceID),
		zap.String("status", string(item.ApprovalStatus)),
		zap.String("reviewer_id", doctor.ID),
	)
	return item, nil
}

// ApproveAdvice approves an advice item as the signed-in doctor
func (s *ReviewService) ApproveAdvice(ctx context.Context, adviceID, notes string) (model.AdviceItem, error) {
	doctor, err := requireRole(s.store.State(), model.UserRoleDoctor)
	if err != nil {
		return model.AdviceItem{}, err
	}

	item, err := s.store.ApproveAdviceItem(adviceID, store.Approver{
		By:           doctor.ID,
		ReviewerName: doctor.Name,
		Credentials:  "MD",
		Notes:        notes,
	})
	if err != nil {
		s.logger.Error("failed to approve advice",
			zap.Error(err),
			zap.String("advice_id", adviceID),
		)
		return model.AdviceItem{}, fmt.Errorf("failed to approve advice: %w", err)
	}

	s.logger.Info("advice approved successfully",
		zap.String("advice_id", adviceID),
		zap.String("reviewer_id", doctor.ID),
	)
	return item, nil
}

// Advice returns every advice item, newest first
func (s *ReviewService) Advice() []model.AdviceItem {
	return s.store.State().AdviceItems
}

// ReviewQueue returns advice and uploads awaiting a clinician
func (s *ReviewService) ReviewQueue() []store.ReviewItem {
	return s.store.State().ReviewQueue()
}

// Alerts returns every alert, or only unresolved ones
func (s *ReviewService) Alerts(unresolvedOnly bool) []model.PatientAlert {
	state := s.store.State()
	if unresolvedOnly {
		return state.UnresolvedAlerts()
	}
	return state.Alerts
}

// AcknowledgeAlert stamps an alert as seen by the signed-in doctor
func (s *ReviewService) AcknowledgeAlert(ctx context.Context, alertID string) error {
	return s.stampAlert("acknowledge", alertID, s.store.AcknowledgeAlert)
}

// ResolveAlert stamps an alert as resolved by the signed-in doctor
func (s *ReviewService) ResolveAlert(ctx context.Context, alertID string) error {
	return s.stampAlert("resolve", alertID, s.store.ResolveAlert)
}

func (s *ReviewService) stampAlert(verb, alertID string, stamp func(id, by string) error) error {
	doctor, err := requireRole(s.store.State(), model.UserRoleDoctor)
	if err != nil {
		return err
	}
	if err := stamp(alertID, doctor.ID); err != nil {
		s.logger.Error("failed to "+verb+" alert",
			zap.Error(err),
			zap.String("alert_id", alertID),
		)
		return fmt.Errorf("failed to %s alert: %w", verb, err)
	}
	s.logger.Info("alert "+verb+"d",
		zap.String("alert_id", alertID),
		zap.String("doctor_id", doctor.ID),
	)
	return nil
}

// SearchPatients matches query case-insensitively against patient names and
// flags, keeping roster order. An empty query returns the whole roster.
func (s *ReviewService) SearchPatients(query string) []model.PatientSummary {
	patients := s.store.State().Patients
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return patients
	}

	byName := mapset.NewThreadUnsafeSet[string]()
	byFlag := mapset.NewThreadUnsafeSet[string]()
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.PatientName), term) {
			byName.Add(p.PatientID)
		}
		for _, flag := range p.Flags {
			if strings.Contains(strings.ToLower(flag), term) {
				byFlag.Add(p.PatientID)
				break
			}
		}
	}

	matched := byName.Union(byFlag)
	results := make([]model.PatientSummary, 0, matched.Cardinality())
	for _, p := range patients {
		if matched.Contains(p.PatientID) {
			results = append(results, p)
		}
	}
	return results
}

// UpdatePatient merges updates into a roster entry
func (s *ReviewService) UpdatePatient(ctx context.Context, patientID string, updates store.PatientUpdate) (model.PatientSummary, error) {
	if _, err := requireRole(s.store.State(), model.UserRoleDoctor); err != nil {
		return model.PatientSummary{}, err
	}
	if updates.Flags != nil {
		updates.Flags = uniqueStrings(updates.Flags)
	}

	patient, err := s.store.UpdatePatientSummary(patientID, updates)
	if err != nil {
		s.logger.Error("failed to update patient summary",
			zap.Error(err),
			zap.String("patient_id", patientID),
		)
		return model.PatientSummary{}, fmt.Errorf("failed to update patient summary: %w", err)
	}
	s.logger.Info("patient summary updated successfully", zap.String("patient_id", patientID))
	return patient, nil
}

// PatientExport is the downloadable summary of one patient
type PatientExport struct {
	Patient    string           `json:"patient"`
	Age        int              `json:"age"`
	RiskScore  int              `json:"risk_score"`
	RiskLevel  model.RiskLevel  `json:"risk_level"`
	KeyMetrics model.KeyMetrics `json:"key_metrics"`
	Summary    string           `json:"summary"`
	Flags      []string         `json:"flags"`
	LastSync   time.Time        `json:"last_sync"`
	ExportedAt time.Time        `json:"exported_at"`
	ExportedBy string           `json:"exported_by"`
}

// ExportPatient builds the summary export of a patient for the signed-in doctor
func (s *ReviewService) ExportPatient(ctx context.Context, patientID string) (PatientExport, model.PatientSummary, error) {
	state := s.store.State()
	doctor, err := requireRole(state, model.UserRoleDoctor)
	if err != nil {
		return PatientExport{}, model.PatientSummary{}, err
	}
	patient, ok := state.Patient(patientID)
	if !ok {
		return PatientExport{}, model.PatientSummary{}, fmt.Errorf("%w: patient %s", store.ErrNotFound, patientID)
	}

	export := PatientExport{
		Patient:    patient.PatientName,
		Age:        patient.Age,
		RiskScore:  patient.RiskScore.Overall,
		RiskLevel:  patient.RiskScore.Level,
		KeyMetrics: patient.KeyMetrics,
		Summary:    patient.Summary,
		Flags:      nonNil(patient.Flags),
		LastSync:   patient.LastSync,
		ExportedAt: time.Now().UTC(),
		ExportedBy: doctor.Name,
	}

	s.logger.Info("patient summary exported",
		zap.String("patient_id", patientID),
		zap.String("doctor_id", doctor.ID),
	)
	return export, patient, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// ExportFileName is "<Name_With_Underscores>_summary_<YYYY-MM-DD>.<ext>"
func ExportFileName(patientName string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_summary_%s.%s", whitespace.ReplaceAllString(patientName, "_"), at.Format("2006-01-02"), ext)
}

// uniqueStrings drops repeated values, keeping first occurrences in order
func uniqueStrings(values []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen.Add(v) {
			out = append(out, v)
		}
	}
	return out
}
