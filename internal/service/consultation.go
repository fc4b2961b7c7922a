package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// seriousSideEffects always route a consultation to the doctor
var seriousSideEffects = mapset.NewThreadUnsafeSet("Heart palpitations", "Shortness of breath", "Severe dizziness")

// ConsultationRequest is a patient's medication check-in
type ConsultationRequest struct {
	Symptoms         []string `json:"symptoms"`
	SideEffects      []string `json:"side_effects"`
	Effectiveness    int      `json:"effectiveness" validate:"gte=1,lte=6"`
	PatientReport    string   `json:"patient_report"`
	SpecificConcerns string   `json:"specific_concerns"`
}

// ConsultationResult is the recorded consultation plus the advice raised from it
type ConsultationResult struct {
	Consultation model.MedicationConsultation `json:"consultation"`
	Advice       model.AdviceItem             `json:"advice"`
}

// ConsultationService turns medication check-ins into recommendations
type ConsultationService struct {
	store    *store.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewConsultationService creates a ConsultationService
func NewConsultationService(st *store.Store, logger *zap.Logger) *ConsultationService {
	return &ConsultationService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
	}
}

// Recommend applies the consultation rules to req for med
func Recommend(med model.Medication, req ConsultationRequest, now time.Time) model.MedicationConsultation {
	hasSerious := false
	for _, effect := range req.SideEffects {
		if seriousSideEffects.Contains(effect) {
			hasSerious = true
			break
		}
	}
	lowEffectiveness := req.Effectiveness <= 2
	multipleSymptoms := len(req.Symptoms) >= 3

	c := model.MedicationConsultation{
		ID:               uuid.NewString(),
		MedicationID:     med.ID,
		PatientReport:    strings.TrimSpace(req.PatientReport + " " + req.SpecificConcerns),
		Symptoms:         nonNil(req.Symptoms),
		SideEffects:      nonNil(req.SideEffects),
		Effectiveness:    req.Effectiveness,
		Timestamp:        now,
		FollowUpRequired: hasSerious || lowEffectiveness,
		DoctorNotified:   hasSerious,
	}

	switch {
	case hasSerious:
		c.Recommendation = model.RecommendationConsultDoctor
		c.AgentResponse = fmt.Sprintf("Based on your report of %s, I recommend immediate consultation with your healthcare provider. These symptoms may require medication adjustment or alternative treatment options.",
			strings.Join(req.SideEffects, ", "))
		c.RecommendationReason = "Serious side effects reported that require clinical evaluation"
	case lowEffectiveness && multipleSymptoms:
		c.Recommendation = model.RecommendationAdjustDose
		c.AgentResponse = fmt.Sprintf("Your current %s dosage may not be optimal. With an effectiveness rating of %d/6 and multiple symptoms, a dosage adjustment could improve your outcomes. Your doctor should evaluate this.",
			med.Name, req.Effectiveness)
		c.RecommendationReason = "Poor effectiveness combined with multiple symptoms suggests suboptimal dosing"
	case len(req.Symptoms) == 0 && req.Effectiveness >= 4:
		c.Recommendation = model.RecommendationContinue
		c.AgentResponse = fmt.Sprintf("Your current %s regimen appears to be working well with good effectiveness and no concerning symptoms. Continue as prescribed and maintain regular monitoring.",
			med.Name)
		c.RecommendationReason = "Good effectiveness with minimal side effects"
	default:
		c.Recommendation = model.RecommendationConsultDoctor
		c.AgentResponse = fmt.Sprintf("Based on your symptoms and effectiveness rating, I recommend discussing your %s therapy with your healthcare provider to ensure optimal treatment.",
			med.Name)
		c.RecommendationReason = "Mixed response profile requires clinical assessment"
	}
	return c
}

// adviceFor raises an advice item from a consultation
func adviceFor(c model.MedicationConsultation, userID string) model.AdviceItem {
	status := model.AdviceStatusPendingReview
	if c.DoctorNotified {
		status = model.AdviceStatusUnderReview
	}
	urgency := model.SeverityMedium
	if c.FollowUpRequired {
		urgency = model.SeverityHigh
	}
	medicationID := c.MedicationID

	return model.AdviceItem{
		ID:                uuid.NewString(),
		Text:              c.AgentResponse,
		Summary:           "Medication consultation: " + strings.ReplaceAll(string(c.Recommendation), "_", " "),
		Tags:              []string{"medication", "consultation"},
		Category:          "Medication Management",
		CreatedAt:         c.Timestamp,
		UserID:            userID,
		ApprovalStatus:    status,
		ReviewHistory:     []model.AdviceReview{},
		UrgencyLevel:      urgency,
		Confidence:        88,
		EvidenceLevel:     model.EvidenceModerate,
		MedicationRelated: &medicationID,
	}
}

// Consult records a check-in on the medication and raises an advice item
func (s *ConsultationService) Consult(ctx context.Context, medicationID string, req ConsultationRequest) (ConsultationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return ConsultationResult{}, validationError(err.Error())
	}

	state := s.store.State()
	user, err := currentUser(state)
	if err != nil {
		return ConsultationResult{}, err
	}
	med, ok := state.Medication(medicationID)
	if !ok {
		return ConsultationResult{}, fmt.Errorf("%w: medication %s", store.ErrNotFound, medicationID)
	}

	consultation := Recommend(med, req, time.Now().UTC())
	if err := s.store.AddConsultation(medicationID, consultation); err != nil {
		s.logger.Error("failed to record consultation",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		return ConsultationResult{}, fmt.Errorf("failed to record consultation: %w", err)
	}

	advice := adviceFor(consultation, user.ID)
	if err := s.store.AddAdviceItem(advice); err != nil {
		s.logger.Error("failed to add consultation advice",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		return ConsultationResult{}, fmt.Errorf("failed to add consultation advice: %w", err)
	}

	s.logger.Info("medication consultation recorded",
		zap.String("medication_id", medicationID),
		zap.String("recommendation", string(consultation.Recommendation)),
		zap.Bool("doctor_notified", consultation.DoctorNotified),
	)
	return ConsultationResult{Consultation: consultation, Advice: advice}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
