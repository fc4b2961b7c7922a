package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// AdherenceWindow is the look-back period of the adherence rate
const AdherenceWindow = 7 * 24 * time.Hour

var medicationColors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899"}

// MedicationService handles medication management business logic
type MedicationService struct {
	store  *store.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewMedicationService creates a new MedicationService
func NewMedicationService(st *store.Store, logger *zap.Logger) *MedicationService {
	return &MedicationService{
		store:  st,
		now:    time.Now,
		logger: logger,
	}
}

// MedicationView is a medication with its dose history and adherence
type MedicationView struct {
	model.Medication
	Doses         []model.DoseLog `json:"doses"`
	AdherenceRate int             `json:"adherence_rate"`
	TodayDoses    int             `json:"today_doses"`
}

// AddMedication adds a new medication for the current user
func (s *MedicationService) AddMedication(ctx context.Context, med *model.Medication) error {
	if med.Name == "" {
		return validationError("medication name is required")
	}
	if med.Dosage == "" {
		return validationError("medication dosage is required")
	}
	if med.Frequency == "" {
		return validationError("medication frequency is required")
	}
	state := s.store.State()
	if _, err := currentUser(state); err != nil {
		return err
	}

	// Generate ID if not provided
	if med.ID == "" {
		med.ID = uuid.NewString()
	}
	if med.StartDate.IsZero() {
		med.StartDate = s.now().UTC()
	}
	if med.Color == "" {
		med.Color = medicationColors[len(state.Medications)%len(medicationColors)]
	}

	if err := s.store.AddMedication(*med); err != nil {
		s.logger.Error("failed to add medication",
			zap.Error(err),
			zap.String("medication_name", med.Name),
		)
		return fmt.Errorf("failed to add medication: %w", err)
	}

	s.logger.Info("medication added successfully",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)
	return nil
}

// ListMedications returns every medication with its adherence view
func (s *MedicationService) ListMedications(ctx context.Context) []MedicationView {
	state := s.store.State()
	now := s.now()

	views := make([]MedicationView, 0, len(state.Medications))
	for _, med := range state.Medications {
		views = append(views, buildView(med, state.DoseLogsFor(med.ID), now))
	}

	s.logger.Info("medications listed successfully",
		zap.Int("count", len(views)),
	)
	return views
}

// GetMedication returns one medication with its adherence view
func (s *MedicationService) GetMedication(ctx context.Context, medID string) (MedicationView, error) {
	state := s.store.State()
	med, ok := state.Medication(medID)
	if !ok {
		return MedicationView{}, fmt.Errorf("%w: medication %s", store.ErrNotFound, medID)
	}
	return buildView(med, state.DoseLogsFor(medID), s.now()), nil
}

// UpdateMedication updates an existing medication
func (s *MedicationService) UpdateMedication(ctx context.Context, medID string, updates store.MedicationUpdate) (model.Medication, error) {
	if medID == "" {
		return model.Medication{}, validationError("medication ID is required")
	}

	med, err := s.store.UpdateMedication(medID, updates)
	if err != nil {
		s.logger.Error("failed to update medication",
			zap.Error(err),
			zap.String("medication_id", medID),
		)
		return model.Medication{}, fmt.Errorf("failed to update medication: %w", err)
	}

	s.logger.Info("medication updated successfully",
		zap.String("medication_id", medID),
		zap.String("name", med.Name),
	)
	return med, nil
}

// LogDose records a dose scheduled now, taken or skipped
func (s *MedicationService) LogDose(ctx context.Context, medicationID string, taken bool, notes *string) (model.DoseLog, error) {
	if medicationID == "" {
		return model.DoseLog{}, validationError("medication ID is required")
	}

	now := s.now().UTC()
	log := model.DoseLog{
		MedicationID:  medicationID,
		ScheduledTime: now,
		Taken:         taken,
		Notes:         notes,
	}
	if taken {
		log.TakenTime = &now
	}

	if err := s.store.LogDose(log); err != nil {
		s.logger.Error("failed to log medication dose",
			zap.Error(err),
			zap.String("medication_id", medicationID),
		)
		return model.DoseLog{}, fmt.Errorf("failed to log dose: %w", err)
	}

	s.logger.Info("medication dose logged",
		zap.String("medication_id", medicationID),
		zap.Bool("taken", taken),
	)
	return log, nil
}

func buildView(med model.Medication, doses []model.DoseLog, now time.Time) MedicationView {
	return MedicationView{
		Medication:    med,
		Doses:         doses,
		AdherenceRate: AdherenceRate(doses, now),
		TodayDoses:    len(todayDoses(doses, now)),
	}
}

// AdherenceRate is the rounded percentage of doses taken among those
// scheduled within the last seven days. No doses gives zero.
func AdherenceRate(doses []model.DoseLog, now time.Time) int {
	cutoff := now.Add(-AdherenceWindow)
	scheduled, taken := 0, 0
	for _, d := range doses {
		if !d.ScheduledTime.After(cutoff) {
			continue
		}
		scheduled++
		if d.Taken {
			taken++
		}
	}
	if scheduled == 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(scheduled) * 100))
}

func todayDoses(doses []model.DoseLog, now time.Time) []model.DoseLog {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	var today []model.DoseLog
	for _, dose := range doses {
		if !dose.ScheduledTime.Before(midnight) {
			today = append(today, dose)
		}
	}
	return today
}
