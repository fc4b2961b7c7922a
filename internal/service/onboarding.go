package service

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// SectionID names an onboarding section
type SectionID string

const (
	SectionDemographics   SectionID = "demographics"
	SectionMedicalHistory SectionID = "medical_history"
	SectionLifestyle      SectionID = "lifestyle"
	SectionSymptoms       SectionID = "symptoms"
)

// Section is one page of the onboarding flow
type Section struct {
	ID    SectionID `json:"id"`
	Title string    `json:"title"`
	Step  int       `json:"step"`
}

var onboardingSections = []Section{
	{ID: SectionDemographics, Title: "Tell us about yourself", Step: 0},
	{ID: SectionMedicalHistory, Title: "Your medical history", Step: 1},
	{ID: SectionLifestyle, Title: "Your lifestyle", Step: 2},
	{ID: SectionSymptoms, Title: "Current symptoms", Step: 3},
}

// OnboardingProgress is where the current user is in the flow
type OnboardingProgress struct {
	Step      int                  `json:"step"`
	Total     int                  `json:"total"`
	Next      *Section             `json:"next,omitempty"`
	Completed bool                 `json:"completed"`
	Data      model.OnboardingData `json:"data"`
}

// OnboardingService walks the user through the onboarding sections in order
type OnboardingService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOnboardingService creates an OnboardingService
func NewOnboardingService(st *store.Store, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		store:  st,
		logger: logger,
	}
}

// Sections returns the ordered onboarding sections
func (s *OnboardingService) Sections() []Section {
	out := make([]Section, len(onboardingSections))
	copy(out, onboardingSections)
	return out
}

// GetSectionByID returns a section by its ID
func GetSectionByID(id SectionID) *Section {
	for i := range onboardingSections {
		if onboardingSections[i].ID == id {
			section := onboardingSections[i]
			return &section
		}
	}
	return nil
}

// Progress reports the current onboarding position
func (s *OnboardingService) Progress() OnboardingProgress {
	return progressOf(s.store.State())
}

func progressOf(st store.State) OnboardingProgress {
	p := OnboardingProgress{
		Step:  st.OnboardingStep,
		Total: len(onboardingSections),
		Data:  st.OnboardingData,
	}
	if st.CurrentUser != nil {
		p.Completed = st.CurrentUser.OnboardingCompleted
	}
	if !p.Completed && st.OnboardingStep < len(onboardingSections) {
		next := onboardingSections[st.OnboardingStep]
		p.Next = &next
	}
	return p
}

// sectionOnly keeps the named section of data and reports whether it was set
func sectionOnly(id SectionID, data model.OnboardingData) (model.OnboardingData, bool) {
	var out model.OnboardingData
	switch id {
	case SectionDemographics:
		out.Demographics = data.Demographics
		return out, data.Demographics != nil
	case SectionMedicalHistory:
		out.MedicalHistory = data.MedicalHistory
		return out, data.MedicalHistory != nil
	case SectionLifestyle:
		out.Lifestyle = data.Lifestyle
		return out, data.Lifestyle != nil
	case SectionSymptoms:
		out.Symptoms = data.Symptoms
		return out, data.Symptoms != nil
	}
	return out, false
}

// AnswerSection merges one section's answers and advances the step past it.
// Answering the last section completes onboarding.
func (s *OnboardingService) AnswerSection(ctx context.Context, id SectionID, data model.OnboardingData) (OnboardingProgress, error) {
	section := GetSectionByID(id)
	if section == nil {
		return OnboardingProgress{}, validationError(fmt.Sprintf("section not found: %s", id))
	}
	partial, ok := sectionOnly(id, data)
	if !ok {
		return OnboardingProgress{}, validationError(fmt.Sprintf("answers are required for section: %s", id))
	}
	if _, err := currentUser(s.store.State()); err != nil {
		return OnboardingProgress{}, err
	}

	if err := s.store.UpdateOnboardingData(partial); err != nil {
		s.logger.Error("failed to save onboarding answers",
			zap.Error(err),
			zap.String("section", string(id)),
		)
		return OnboardingProgress{}, fmt.Errorf("failed to save onboarding answers: %w", err)
	}

	if next := section.Step + 1; next > s.store.State().OnboardingStep {
		if err := s.store.SetOnboardingStep(next); err != nil {
			return OnboardingProgress{}, fmt.Errorf("failed to advance onboarding: %w", err)
		}
	}

	if section.Step == len(onboardingSections)-1 {
		if err := s.store.CompleteOnboarding(); err != nil {
			s.logger.Error("failed to complete onboarding", zap.Error(err))
			return OnboardingProgress{}, fmt.Errorf("failed to complete onboarding: %w", err)
		}
		s.logger.Info("onboarding completed successfully")
	}

	progress := s.Progress()
	s.logger.Info("onboarding section answered",
		zap.String("section", string(id)),
		zap.Int("step", progress.Step),
	)
	return progress, nil
}

// UpdateData merges partial answers without moving the step
func (s *OnboardingService) UpdateData(ctx context.Context, data model.OnboardingData) (OnboardingProgress, error) {
	if _, err := currentUser(s.store.State()); err != nil {
		return OnboardingProgress{}, err
	}
	if err := s.store.UpdateOnboardingData(data); err != nil {
		s.logger.Error("failed to update onboarding data", zap.Error(err))
		return OnboardingProgress{}, fmt.Errorf("failed to update onboarding data: %w", err)
	}
	return s.Progress(), nil
}

// SetStep jumps to a step of the flow
func (s *OnboardingService) SetStep(ctx context.Context, step int) (OnboardingProgress, error) {
	if step > len(onboardingSections) {
		return OnboardingProgress{}, validationError(fmt.Sprintf("onboarding step %d is out of range", step))
	}
	if _, err := currentUser(s.store.State()); err != nil {
		return OnboardingProgress{}, err
	}
	if err := s.store.SetOnboardingStep(step); err != nil {
		s.logger.Error("failed to set onboarding step",
			zap.Error(err),
			zap.Int("step", step),
		)
		return OnboardingProgress{}, fmt.Errorf("failed to set onboarding step: %w", err)
	}
	return s.Progress(), nil
}

// Complete finishes onboarding regardless of the remaining sections
func (s *OnboardingService) Complete(ctx context.Context) (OnboardingProgress, error) {
	if err := s.store.CompleteOnboarding(); err != nil {
		s.logger.Error("failed to complete onboarding", zap.Error(err))
		return OnboardingProgress{}, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	s.logger.Info("onboarding completed successfully")
	return s.Progress(), nil
}
