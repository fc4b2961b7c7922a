package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ReportService renders PDF summaries
type ReportService struct {
	store   *store.Store
	reviews *ReviewService
	pdfGen  *pdf.PDFGenerator
	now     func() time.Time
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(st *store.Store, reviews *ReviewService, pdfGen *pdf.PDFGenerator, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:   st,
		reviews: reviews,
		pdfGen:  pdfGen,
		now:     time.Now,
		logger:  logger,
	}
}

// Report is a rendered document and its download name
type Report struct {
	FileName string
	Content  []byte
}

// PatientReport renders a roster patient's summary for the signed-in doctor
func (s *ReportService) PatientReport(ctx context.Context, patientID string) (*Report, error) {
	export, patient, err := s.reviews.ExportPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var alerts []model.PatientAlert
	for _, alert := range s.store.State().Alerts {
		if alert.PatientID == patientID {
			alerts = append(alerts, alert)
		}
	}

	content, err := s.pdfGen.Generate(&pdf.ReportData{
		PatientName: patient.PatientName,
		Age:         patient.Age,
		GeneratedBy: export.ExportedBy,
		GeneratedAt: export.ExportedAt,
		RiskScore:   patient.RiskScore,
		KeyMetrics:  patient.KeyMetrics,
		Flags:       patient.Flags,
		Summary:     patient.Summary,
		Alerts:      alerts,
	})
	if err != nil {
		s.logger.Error("failed to generate patient report",
			zap.Error(err),
			zap.String("patient_id", patientID),
		)
		return nil, fmt.Errorf("failed to generate patient report: %w", err)
	}

	s.logger.Info("patient report generated successfully",
		zap.String("patient_id", patientID),
		zap.Int("size_bytes", len(content)),
	)
	return &Report{
		FileName: ExportFileName(patient.PatientName, export.ExportedAt, "pdf"),
		Content:  content,
	}, nil
}

// UserReport renders the signed-in user's own health summary
func (s *ReportService) UserReport(ctx context.Context) (*Report, error) {
	state := s.store.State()
	user, err := currentUser(state)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	data := &pdf.ReportData{
		PatientName: user.Name,
		GeneratedBy: user.Name,
		GeneratedAt: now,
		KeyMetrics:  keyMetricsOf(state),
		Advice:      state.AdviceItems,
	}
	if user.Age != nil {
		data.Age = *user.Age
	}
	if state.RiskScore != nil {
		data.RiskScore = *state.RiskScore
	}
	for _, med := range state.Medications {
		data.Medications = append(data.Medications, pdf.MedicationLine{
			Medication:    med,
			AdherenceRate: AdherenceRate(state.DoseLogsFor(med.ID), now),
		})
	}

	content, err := s.pdfGen.Generate(data)
	if err != nil {
		s.logger.Error("failed to generate user report",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
		return nil, fmt.Errorf("failed to generate user report: %w", err)
	}

	s.logger.Info("user report generated successfully",
		zap.String("user_id", user.ID),
		zap.Int("size_bytes", len(content)),
	)
	return &Report{
		FileName: ExportFileName(user.Name, now, "pdf"),
		Content:  content,
	}, nil
}

// keyMetricsOf condenses the live snapshot into the patient card metrics
func keyMetricsOf(st store.State) model.KeyMetrics {
	var m model.KeyMetrics
	if st.LiveMetrics != nil {
		m.RestingHR = int(st.LiveMetrics.RestingHR)
		m.HRV = int(st.LiveMetrics.HRV)
		m.SpO2 = st.LiveMetrics.SpO2
	}
	if st.SleepData != nil {
		m.SleepScore = int(math.Round(st.SleepData.LastNight.Efficiency * 100))
	}
	return m
}
