package service

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store/storetest"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func TestDashboardService_UserSummary(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewDashboardService(st, zap.NewNop())
	svc.now = func() time.Time { return storetest.Now }

	require.NoError(t, st.LogDose(model.DoseLog{MedicationID: "med-0", ScheduledTime: storetest.Now, Taken: true}))

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.UserRoleUser, summary.Role)
	assert.Nil(t, summary.Doctor)
	require.NotNil(t, summary.User)

	view := summary.User
	state := st.State()
	assert.Equal(t, state.CurrentUser.ID, view.User.ID)
	assert.NotNil(t, view.LiveMetrics)
	assert.NotNil(t, view.RiskScore)
	assert.Equal(t, len(state.Medications), view.MedicationCount)
	assert.Equal(t, 100/len(state.Medications), view.AverageAdherence)
	for _, insight := range view.Insights {
		assert.False(t, insight.Dismissed)
	}

	pending, approved := 0, 0
	for _, advice := range state.AdviceItems {
		if advice.ApprovalStatus == model.AdviceStatusApproved {
			approved++
		} else if advice.ApprovalStatus.AwaitingReview() {
			pending++
		}
	}
	assert.Equal(t, pending, view.PendingAdvice)
	assert.Equal(t, approved, view.ApprovedAdvice)
}

func TestDashboardService_DoctorSummary(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewDashboardService(st, zap.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.UserRoleDoctor, summary.Role)
	assert.Nil(t, summary.User)
	require.NotNil(t, summary.Doctor)

	view := summary.Doctor
	state := st.State()
	assert.Equal(t, 5, view.PatientCount)
	assert.Len(t, view.UnresolvedAlerts, len(state.UnresolvedAlerts()))
	assert.Equal(t, len(state.ReviewQueue()), view.ReviewQueueSize)
	assert.LessOrEqual(t, view.HighRiskCount, view.PatientCount)
}

func TestDashboardService_NoSession(t *testing.T) {
	st, _ := storetest.NewStore(t)
	svc := NewDashboardService(st, zap.NewNop())

	_, err := svc.GetSummary(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestProperty_DashboardAggregationAccuracy(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("average adherence stays within 0 and 100", prop.ForAll(
		func(taken []bool) bool {
			state := store.State{
				Medications: []model.Medication{{ID: "med-a"}, {ID: "med-b"}},
			}
			for i, ok := range taken {
				medID := "med-a"
				if i%2 == 1 {
					medID = "med-b"
				}
				state.DoseLogs = append(state.DoseLogs, model.DoseLog{
					MedicationID:  medID,
					ScheduledTime: storetest.Now.Add(-time.Duration(i) * time.Minute),
					Taken:         ok,
				})
			}
			view := userView(state, storetest.Now)
			return view.AverageAdherence >= 0 && view.AverageAdherence <= 100 && view.MedicationCount == 2
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.Property("no medications gives zero adherence", prop.ForAll(
		func(n int) bool {
			view := userView(store.State{}, storetest.Now.Add(time.Duration(n)*time.Hour))
			return view.AverageAdherence == 0 && view.MedicationCount == 0 && view.Insights != nil
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestDashboardService_DismissInsight(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewDashboardService(st, zap.NewNop())
	ctx := context.Background()

	insights := st.State().Insights
	require.NotEmpty(t, insights)
	target := insights[0].ID

	require.NoError(t, svc.DismissInsight(ctx, target))

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	for _, insight := range summary.User.Insights {
		assert.NotEqual(t, target, insight.ID)
	}

	assert.ErrorIs(t, svc.DismissInsight(ctx, "missing"), store.ErrNotFound)
}
