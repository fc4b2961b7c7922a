package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store/storetest"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestReviewService_UserIsForbidden(t *testing.T) {
	st := signIn(t, model.UserRoleUser)
	svc := NewReviewService(st, zap.NewNop())
	ctx := context.Background()

	advice := storetest.RandomAdvice()
	require.NoError(t, st.AddAdviceItem(advice))

	_, err := svc.ReviewAdvice(ctx, advice.ID, ReviewRequest{Status: model.AdviceStatusApproved})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ApproveAdvice(ctx, advice.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.ResolveAlert(ctx, "alert-0"), ErrForbidden)
	assert.ErrorIs(t, svc.AcknowledgeAlert(ctx, "alert-0"), ErrForbidden)

	_, _, err = svc.ExportPatient(ctx, "patient-0")
	assert.ErrorIs(t, err, ErrForbidden)

	item, ok := st.State().AdviceItem(advice.ID)
	require.True(t, ok)
	assert.Equal(t, model.AdviceStatusPendingReview, item.ApprovalStatus)
}

func TestReviewService_NoSession(t *testing.T) {
	st, _ := storetest.NewStore(t)
	svc := NewReviewService(st, zap.NewNop())

	err := svc.ResolveAlert(context.Background(), "alert-0")
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestReviewService_ReviewAdvice(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())
	ctx := context.Background()
	doctor := st.State().CurrentUser

	advice := storetest.RandomAdvice()
	require.NoError(t, st.AddAdviceItem(advice))

	item, err := svc.ReviewAdvice(ctx, advice.ID, ReviewRequest{
		Status:           model.AdviceStatusUnderReview,
		Credentials:      "MD, Cardiology",
		Notes:            strPtr("Checking against recent labs"),
		RequestedActions: []string{"Repeat lipid panel"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.AdviceStatusUnderReview, item.ApprovalStatus)
	require.Len(t, item.ReviewHistory, 1)
	review := item.ReviewHistory[0]
	assert.Equal(t, doctor.ID, review.ReviewerID)
	assert.Equal(t, doctor.Name, review.ReviewerName)
	require.NotNil(t, review.PatientNotificationSent)
	assert.False(t, *review.PatientNotificationSent)

	item, err = svc.ReviewAdvice(ctx, advice.ID, ReviewRequest{Status: model.AdviceStatusNotApproved})
	require.NoError(t, err)
	require.Len(t, item.ReviewHistory, 2)
	assert.True(t, *item.ReviewHistory[1].PatientNotificationSent)
	assert.Equal(t, "Checking against recent labs", *item.ReviewHistory[0].Notes, "earlier reviews are untouched")

	_, err = svc.ReviewAdvice(ctx, advice.ID, ReviewRequest{Status: model.AdviceStatusApproved})
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = svc.ReviewAdvice(ctx, "missing", ReviewRequest{Status: model.AdviceStatusApproved})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReviewService_ApproveAdvice(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())

	advice := storetest.RandomAdvice()
	require.NoError(t, st.AddAdviceItem(advice))

	item, err := svc.ApproveAdvice(context.Background(), advice.ID, "Looks good")
	require.NoError(t, err)

	assert.Equal(t, model.AdviceStatusApproved, item.ApprovalStatus)
	last := item.ReviewHistory[len(item.ReviewHistory)-1]
	assert.Equal(t, "MD", last.ReviewerCredentials)

	for _, queued := range svc.ReviewQueue() {
		assert.NotEqual(t, advice.ID, queued.ID)
	}
}

func TestReviewService_Alerts(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())
	ctx := context.Background()
	doctor := st.State().CurrentUser

	require.Len(t, svc.Alerts(false), 3)

	require.NoError(t, svc.AcknowledgeAlert(ctx, "alert-1"))
	require.NoError(t, svc.ResolveAlert(ctx, "alert-0"))

	for _, alert := range svc.Alerts(true) {
		assert.NotEqual(t, "alert-0", alert.ID)
		assert.Nil(t, alert.Resolved)
	}
	for _, alert := range svc.Alerts(false) {
		switch alert.ID {
		case "alert-0":
			require.NotNil(t, alert.Resolved)
			assert.Equal(t, doctor.ID, alert.Resolved.By)
		case "alert-1":
			require.NotNil(t, alert.Acknowledged)
			assert.Equal(t, doctor.ID, alert.Acknowledged.By)
		}
	}

	assert.ErrorIs(t, svc.ResolveAlert(ctx, "alert-missing"), store.ErrNotFound)
}

func TestReviewService_SearchPatients(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())

	_, err := svc.UpdatePatient(context.Background(), "patient-3", store.PatientUpdate{Flags: []string{"Zebra Marker"}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by name", "CHEN", []string{"patient-0"}},
		{"by flag", "zebra", []string{"patient-3"}},
		{"no match", "nobody-matches-this", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, p := range svc.SearchPatients(tt.query) {
				ids = append(ids, p.PatientID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("empty query returns roster", func(t *testing.T) {
		assert.Len(t, svc.SearchPatients("  "), 5)
	})

	t.Run("roster order kept", func(t *testing.T) {
		results := svc.SearchPatients("o")
		for i := 1; i < len(results); i++ {
			assert.Less(t, results[i-1].PatientID, results[i].PatientID)
		}
	})
}

func TestReviewService_UpdatePatientDedupesFlags(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())

	patient, err := svc.UpdatePatient(context.Background(), "patient-1", store.PatientUpdate{
		Flags: []string{"Low HRV", "Sedentary", "Low HRV"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Low HRV", "Sedentary"}, patient.Flags)

	_, err = svc.UpdatePatient(context.Background(), "patient-missing", store.PatientUpdate{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReviewService_ExportPatient(t *testing.T) {
	st := signIn(t, model.UserRoleDoctor)
	svc := NewReviewService(st, zap.NewNop())

	export, patient, err := svc.ExportPatient(context.Background(), "patient-0")
	require.NoError(t, err)

	assert.Equal(t, "Alex Chen", export.Patient)
	assert.Equal(t, patient.RiskScore.Overall, export.RiskScore)
	assert.Equal(t, patient.RiskScore.Level, export.RiskLevel)
	assert.Equal(t, st.State().CurrentUser.Name, export.ExportedBy)
	assert.NotNil(t, export.Flags)

	_, _, err = svc.ExportPatient(context.Background(), "patient-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "Alex_Chen_summary_2025-03-14.json", ExportFileName("Alex Chen", at, "json"))
	assert.Equal(t, "Mary_Ann_Lee_summary_2025-03-14.pdf", ExportFileName("Mary  Ann Lee", at, "pdf"))
}
