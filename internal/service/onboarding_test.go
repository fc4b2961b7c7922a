package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store/storetest"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func TestGetSectionByID(t *testing.T) {
	section := GetSectionByID(SectionLifestyle)
	require.NotNil(t, section)
	assert.Equal(t, 2, section.Step)

	assert.Nil(t, GetSectionByID("unknown"))
}

func TestOnboardingService_Sections(t *testing.T) {
	st, _ := storetest.NewStore(t)
	svc := NewOnboardingService(st, zap.NewNop())

	sections := svc.Sections()
	require.Len(t, sections, 4)
	for i, section := range sections {
		assert.Equal(t, i, section.Step)
	}

	sections[0].Title = "changed"
	assert.NotEqual(t, "changed", svc.Sections()[0].Title)
}

func TestOnboardingService_FullFlow(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewOnboardingService(st, zap.NewNop())
	ctx := context.Background()

	progress := svc.Progress()
	assert.Equal(t, 0, progress.Step)
	require.NotNil(t, progress.Next)
	assert.Equal(t, SectionDemographics, progress.Next.ID)
	assert.False(t, progress.Completed)

	progress, err := svc.AnswerSection(ctx, SectionDemographics, model.OnboardingData{
		Demographics: &model.Demographics{Age: 42, Gender: "female", Height: 170, Weight: 65},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Step)
	assert.Equal(t, SectionMedicalHistory, progress.Next.ID)

	_, err = svc.AnswerSection(ctx, SectionMedicalHistory, model.OnboardingData{
		MedicalHistory: &model.MedicalHistory{Conditions: []string{"Hypertension"}},
	})
	require.NoError(t, err)
	_, err = svc.AnswerSection(ctx, SectionLifestyle, model.OnboardingData{
		Lifestyle: &model.Lifestyle{ActivityLevel: "moderate", SleepHours: 7},
	})
	require.NoError(t, err)

	progress, err = svc.AnswerSection(ctx, SectionSymptoms, model.OnboardingData{
		Symptoms: &model.SymptomReport{Current: []string{"Fatigue"}},
	})
	require.NoError(t, err)

	assert.True(t, progress.Completed)
	assert.Equal(t, 0, progress.Step)
	assert.Nil(t, progress.Next)
	require.NotNil(t, progress.Data.Demographics)
	assert.Equal(t, 42, progress.Data.Demographics.Age)
	require.NotNil(t, progress.Data.Symptoms)
	assert.True(t, st.State().CurrentUser.OnboardingCompleted)
}

func TestOnboardingService_RevisitDoesNotRewind(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewOnboardingService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AnswerSection(ctx, SectionMedicalHistory, model.OnboardingData{
		MedicalHistory: &model.MedicalHistory{Allergies: []string{"Penicillin"}},
	})
	require.NoError(t, err)

	progress, err := svc.AnswerSection(ctx, SectionDemographics, model.OnboardingData{
		Demographics: &model.Demographics{Age: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, progress.Step)
	require.NotNil(t, progress.Data.MedicalHistory)
	assert.Equal(t, []string{"Penicillin"}, progress.Data.MedicalHistory.Allergies)
}

func TestOnboardingService_OnlyNamedSectionIsMerged(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewOnboardingService(st, zap.NewNop())

	progress, err := svc.AnswerSection(context.Background(), SectionDemographics, model.OnboardingData{
		Demographics: &model.Demographics{Age: 30},
		Lifestyle:    &model.Lifestyle{ActivityLevel: "high"},
	})
	require.NoError(t, err)

	assert.NotNil(t, progress.Data.Demographics)
	assert.Nil(t, progress.Data.Lifestyle)
}

func TestOnboardingService_Errors(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewOnboardingService(st, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name    string
		section SectionID
		data    model.OnboardingData
	}{
		{"unknown section", "unknown", model.OnboardingData{Demographics: &model.Demographics{Age: 30}}},
		{"missing answers", SectionLifestyle, model.OnboardingData{Demographics: &model.Demographics{Age: 30}}},
		{"invalid answers", SectionDemographics, model.OnboardingData{Demographics: &model.Demographics{Age: 200}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AnswerSection(ctx, tt.section, tt.data)
			assert.ErrorIs(t, err, store.ErrValidation)
		})
	}
	assert.Equal(t, 0, svc.Progress().Step)

	t.Run("no session", func(t *testing.T) {
		empty, _ := storetest.NewStore(t)
		_, err := NewOnboardingService(empty, zap.NewNop()).AnswerSection(ctx, SectionDemographics, model.OnboardingData{
			Demographics: &model.Demographics{Age: 30},
		})
		assert.ErrorIs(t, err, store.ErrNoSession)
	})
}

func TestOnboardingService_StepAndComplete(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewOnboardingService(st, zap.NewNop())
	ctx := context.Background()

	progress, err := svc.SetStep(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, SectionSymptoms, progress.Next.ID)

	_, err = svc.SetStep(ctx, -1)
	assert.ErrorIs(t, err, store.ErrValidation)
	_, err = svc.SetStep(ctx, 9)
	assert.ErrorIs(t, err, store.ErrValidation)

	progress, err = svc.UpdateData(ctx, model.OnboardingData{Lifestyle: &model.Lifestyle{Smoker: true}})
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Step)
	require.NotNil(t, progress.Data.Lifestyle)

	progress, err = svc.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 0, progress.Step)
}

func TestOnboardingService_CompleteWithoutSession(t *testing.T) {
	st, _ := storetest.NewStore(t)
	_, err := NewOnboardingService(st, zap.NewNop()).Complete(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSession)
}
