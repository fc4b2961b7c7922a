package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// SetRole sets the routing role independently of the user object
func (s *Store) SetRole(role model.UserRole) error {
	if !role.Valid() {
		err := fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		s.metrics.action("setRole", err)
		return err
	}
	_, err := s.mutate("setRole", true, func(st *State) error {
		st.CurrentRole = &role
		return nil
	})
	return err
}

// UpdateOnboardingData merges the non-nil sections of partial into the
// onboarding progress
func (s *Store) UpdateOnboardingData(partial model.OnboardingData) error {
	if err := validateInput(partial); err != nil {
		s.metrics.action("updateOnboardingData", err)
		return err
	}
	_, err := s.mutate("updateOnboardingData", true, func(st *State) error {
		if partial.Demographics != nil {
			st.OnboardingData.Demographics = partial.Demographics
		}
		if partial.MedicalHistory != nil {
			st.OnboardingData.MedicalHistory = partial.MedicalHistory
		}
		if partial.Lifestyle != nil {
			st.OnboardingData.Lifestyle = partial.Lifestyle
		}
		if partial.Symptoms != nil {
			st.OnboardingData.Symptoms = partial.Symptoms
		}
		return nil
	})
	return err
}

// SetOnboardingStep records the onboarding step the user is on
func (s *Store) SetOnboardingStep(step int) error {
	_, err := s.mutate("setOnboardingStep", true, func(st *State) error {
		if step < 0 {
			return fmt.Errorf("%w: onboarding step must not be negative", ErrValidation)
		}
		st.OnboardingStep = step
		return nil
	})
	return err
}

// CompleteOnboarding flags the current user as onboarded and resets the step
func (s *Store) CompleteOnboarding() error {
	_, err := s.mutate("completeOnboarding", true, func(st *State) error {
		if st.CurrentUser == nil {
			return ErrNoSession
		}
		st.CurrentUser.OnboardingCompleted = true
		st.OnboardingStep = 0
		return nil
	})
	return err
}

// LiveMetricsPatch is a partial update of the live metrics
type LiveMetricsPatch struct {
	HeartRate   *float64   `json:"heart_rate,omitempty"`
	HRV         *float64   `json:"hrv,omitempty"`
	RestingHR   *float64   `json:"resting_hr,omitempty"`
	SpO2        *float64   `json:"spo2,omitempty"`
	Steps       *int       `json:"steps,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// UpdateLiveMetrics merges patch into the live metrics. It does nothing when
// no live metrics exist.
func (s *Store) UpdateLiveMetrics(patch LiveMetricsPatch) error {
	_, err := s.mutate("updateLiveMetrics", false, func(st *State) error {
		if st.LiveMetrics == nil {
			return nil
		}
		live := st.LiveMetrics
		if patch.HeartRate != nil {
			live.HeartRate = *patch.HeartRate
		}
		if patch.HRV != nil {
			live.HRV = *patch.HRV
		}
		if patch.RestingHR != nil {
			live.RestingHR = *patch.RestingHR
		}
		if patch.SpO2 != nil {
			live.SpO2 = *patch.SpO2
		}
		if patch.Steps != nil {
			live.Steps = *patch.Steps
		}
		if patch.LastUpdated != nil {
			live.LastUpdated = patch.LastUpdated.UTC()
		}
		return nil
	})
	return err
}

// UpdateHeartRateData replaces the heart rate series
func (s *Store) UpdateHeartRateData(data model.HeartRateData) {
	s.mutate("updateHeartRateData", false, func(st *State) error {
		st.HeartRateData = &data
		return nil
	})
}

// UpdateHRVData replaces the HRV trend
func (s *Store) UpdateHRVData(data model.HRVData) {
	s.mutate("updateHRVData", false, func(st *State) error {
		st.HRVData = &data
		return nil
	})
}

// UpdateRestingHRForecast replaces the resting heart rate forecast
func (s *Store) UpdateRestingHRForecast(data model.RestingHRForecast) {
	s.mutate("updateRestingHRForecast", false, func(st *State) error {
		st.RestingHRForecast = &data
		return nil
	})
}

// UpdateSleepData replaces the sleep summary
func (s *Store) UpdateSleepData(data model.SleepData) {
	s.mutate("updateSleepData", false, func(st *State) error {
		st.SleepData = &data
		return nil
	})
}

// UpdateActivityData replaces the activity summary
func (s *Store) UpdateActivityData(data model.ActivityData) {
	s.mutate("updateActivityData", false, func(st *State) error {
		st.ActivityData = &data
		return nil
	})
}

// UpdateBaselineComparison replaces the peer comparison
func (s *Store) UpdateBaselineComparison(data model.BaselineComparison) {
	s.mutate("updateBaselineComparison", false, func(st *State) error {
		st.BaselineComparison = &data
		return nil
	})
}

// UpdateRiskScore replaces the risk score
func (s *Store) UpdateRiskScore(score model.RiskScore) {
	s.mutate("updateRiskScore", false, func(st *State) error {
		st.RiskScore = &score
		return nil
	})
}

// AddInsight prepends an insight
func (s *Store) AddInsight(insight model.Insight) error {
	if err := validateInput(insight); err != nil {
		s.metrics.action("addInsight", err)
		return err
	}
	_, err := s.mutate("addInsight", false, func(st *State) error {
		st.Insights = append([]model.Insight{insight}, st.Insights...)
		return nil
	})
	return err
}

// DismissInsight hides an insight card
func (s *Store) DismissInsight(id string) error {
	_, err := s.mutate("dismissInsight", false, func(st *State) error {
		for i := range st.Insights {
			if st.Insights[i].ID == id {
				st.Insights[i].Dismissed = true
				return nil
			}
		}
		return fmt.Errorf("%w: insight %s", ErrNotFound, id)
	})
	return err
}

// AddMedication appends a medication. Ids must be unique.
func (s *Store) AddMedication(med model.Medication) error {
	if err := validateInput(med); err != nil {
		s.metrics.action("addMedication", err)
		return err
	}
	_, err := s.mutate("addMedication", true, func(st *State) error {
		if _, exists := st.Medication(med.ID); exists {
			return fmt.Errorf("%w: medication %s already exists", ErrValidation, med.ID)
		}
		st.Medications = append(st.Medications, med)
		return nil
	})
	return err
}

// MedicationUpdate is a partial update of a medication
type MedicationUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Dosage    *string    `json:"dosage,omitempty"`
	Frequency *string    `json:"frequency,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Color     *string    `json:"color,omitempty"`
}

// UpdateMedication merges updates into the medication with id
func (s *Store) UpdateMedication(id string, updates MedicationUpdate) (model.Medication, error) {
	var updated model.Medication
	_, err := s.mutate("updateMedication", true, func(st *State) error {
		for i := range st.Medications {
			med := &st.Medications[i]
			if med.ID != id {
				continue
			}
			if updates.Name != nil {
				med.Name = *updates.Name
			}
			if updates.Dosage != nil {
				med.Dosage = *updates.Dosage
			}
			if updates.Frequency != nil {
				med.Frequency = *updates.Frequency
			}
			if updates.StartDate != nil {
				med.StartDate = updates.StartDate.UTC()
			}
			if updates.EndDate != nil {
				end := updates.EndDate.UTC()
				med.EndDate = &end
			}
			if updates.Notes != nil {
				notes := *updates.Notes
				med.Notes = &notes
			}
			if updates.Color != nil {
				med.Color = *updates.Color
			}
			if err := validateInput(*med); err != nil {
				return err
			}
			updated = *med
			return nil
		}
		return fmt.Errorf("%w: medication %s", ErrNotFound, id)
	})
	return updated, err
}

// LogDose appends an immutable dose log. The medication must exist; the
// per-medication view is derived from the same collection.
func (s *Store) LogDose(log model.DoseLog) error {
	if err := validateInput(log); err != nil {
		s.metrics.action("logDose", err)
		return err
	}
	_, err := s.mutate("logDose", true, func(st *State) error {
		if _, ok := st.Medication(log.MedicationID); !ok {
			return fmt.Errorf("%w: medication %s", ErrNotFound, log.MedicationID)
		}
		st.DoseLogs = append(st.DoseLogs, log)
		return nil
	})
	return err
}

// AddConsultation records a medication check-in on its medication
func (s *Store) AddConsultation(medicationID string, consultation model.MedicationConsultation) error {
	_, err := s.mutate("addConsultation", true, func(st *State) error {
		for i := range st.Medications {
			if st.Medications[i].ID == medicationID {
				consultation.MedicationID = medicationID
				st.Medications[i].ConsultationHistory = append(st.Medications[i].ConsultationHistory, consultation)
				return nil
			}
		}
		return fmt.Errorf("%w: medication %s", ErrNotFound, medicationID)
	})
	return err
}

// AddAdviceItem prepends an advice item. It shows up in the review queue
// while its status awaits review.
func (s *Store) AddAdviceItem(advice model.AdviceItem) error {
	if err := validateInput(advice); err != nil {
		s.metrics.action("addAdviceItem", err)
		return err
	}
	_, err := s.mutate("addAdviceItem", true, func(st *State) error {
		if !advice.ApprovalStatus.Valid() {
			return fmt.Errorf("%w: unknown approval status %q", ErrValidation, advice.ApprovalStatus)
		}
		if _, exists := st.AdviceItem(advice.ID); exists {
			return fmt.Errorf("%w: advice %s already exists", ErrValidation, advice.ID)
		}
		if advice.ReviewHistory == nil {
			advice.ReviewHistory = []model.AdviceReview{}
		}
		st.AdviceItems = append([]model.AdviceItem{advice}, st.AdviceItems...)
		return nil
	})
	return err
}

// ReviewAdvice appends review to the item's history and moves its status to
// review.Status. Review records are never modified once appended.
func (s *Store) ReviewAdvice(id string, review model.AdviceReview) (model.AdviceItem, error) {
	if err := validateInput(review); err != nil {
		s.metrics.action("reviewAdvice", err)
		return model.AdviceItem{}, err
	}

	var reviewed model.AdviceItem
	_, err := s.mutate("reviewAdvice", true, func(st *State) error {
		for i := range st.AdviceItems {
			item := &st.AdviceItems[i]
			if item.ID != id {
				continue
			}
			if err := model.ValidateAdviceTransition(item.ApprovalStatus, review.Status); err != nil {
				return err
			}
			if review.ID == "" {
				review.ID = uuid.NewString()
			}
			if review.Timestamp.IsZero() {
				review.Timestamp = s.timestamp()
			}
			item.ReviewHistory = append(item.ReviewHistory, review)
			item.ApprovalStatus = review.Status
			reviewed = *item
			return nil
		}
		return fmt.Errorf("%w: advice %s", ErrNotFound, id)
	})
	return reviewed, err
}

// Approver identifies the clinician approving an advice item
type Approver struct {
	By           string `json:"by" validate:"required"`
	ReviewerName string `json:"reviewer_name" validate:"required"`
	Credentials  string `json:"credentials"`
	Notes        string `json:"notes"`
}

// ApproveAdviceItem is ReviewAdvice with status approved. The item leaves
// the review queue in the same action.
func (s *Store) ApproveAdviceItem(id string, approver Approver) (model.AdviceItem, error) {
	if err := validateInput(approver); err != nil {
		s.metrics.action("approveAdviceItem", err)
		return model.AdviceItem{}, err
	}
	review := model.AdviceReview{
		ReviewerID:          approver.By,
		ReviewerName:        approver.ReviewerName,
		ReviewerCredentials: approver.Credentials,
		Status:              model.AdviceStatusApproved,
	}
	if approver.Notes != "" {
		notes := approver.Notes
		review.Notes = &notes
	}
	return s.ReviewAdvice(id, review)
}

// AddChatMessage appends a chat message
func (s *Store) AddChatMessage(msg model.ChatMessage) error {
	return s.addChatMessage(nil, msg)
}

func (s *Store) addChatMessage(guard func(*State) error, msg model.ChatMessage) error {
	if err := validateInput(msg); err != nil {
		s.metrics.action("addChatMessage", err)
		return err
	}
	_, err := s.mutate("addChatMessage", true, guarded(guard, func(st *State) error {
		st.ChatMessages = append(st.ChatMessages, msg)
		return nil
	}))
	return err
}

// AddUpload prepends a freshly uploaded file
func (s *Store) AddUpload(upload model.UploadItem) error {
	if err := validateInput(upload); err != nil {
		s.metrics.action("addUpload", err)
		return err
	}
	_, err := s.mutate("addUpload", true, func(st *State) error {
		if upload.Status != model.UploadStatusUploaded {
			return fmt.Errorf("%w: new upload must start as %s, got %s",
				ErrInvalidTransition, model.UploadStatusUploaded, upload.Status)
		}
		if _, exists := st.Upload(upload.ID); exists {
			return fmt.Errorf("%w: upload %s already exists", ErrValidation, upload.ID)
		}
		st.Uploads = append([]model.UploadItem{upload}, st.Uploads...)
		return nil
	})
	return err
}

// UpdateUploadStatus moves an upload along uploaded -> processing -> ready|error.
// extractedData, when non-nil, is merged into the existing payload.
func (s *Store) UpdateUploadStatus(id string, status model.UploadStatus, extractedData map[string]any) error {
	return s.updateUploadStatus(nil, id, status, extractedData)
}

func (s *Store) updateUploadStatus(guard func(*State) error, id string, status model.UploadStatus, extractedData map[string]any) error {
	_, err := s.mutate("updateUploadStatus", true, guarded(guard, func(st *State) error {
		for i := range st.Uploads {
			upload := &st.Uploads[i]
			if upload.ID != id {
				continue
			}
			if err := model.ValidateUploadTransition(upload.Status, status); err != nil {
				return err
			}
			upload.Status = status
			if status == model.UploadStatusReady {
				at := s.timestamp()
				upload.ProcessedAt = &at
			}
			if extractedData != nil {
				if upload.ExtractedData == nil {
					upload.ExtractedData = make(map[string]any, len(extractedData))
				}
				for k, v := range extractedData {
					upload.ExtractedData[k] = v
				}
			}
			return nil
		}
		return fmt.Errorf("%w: upload %s", ErrNotFound, id)
	}))
	return err
}

// MarkUploadReviewed records a clinician review of a processed upload
func (s *Store) MarkUploadReviewed(id, by string) error {
	_, err := s.mutate("markUploadReviewed", true, func(st *State) error {
		for i := range st.Uploads {
			upload := &st.Uploads[i]
			if upload.ID != id {
				continue
			}
			if upload.Status != model.UploadStatusReady || upload.Reviewed != nil {
				return fmt.Errorf("%w: upload %s is %s and cannot be reviewed", ErrInvalidTransition, id, upload.Status)
			}
			upload.Reviewed = &model.Stamp{By: by, At: s.timestamp()}
			return nil
		}
		return fmt.Errorf("%w: upload %s", ErrNotFound, id)
	})
	return err
}

// AcknowledgeAlert stamps an alert as acknowledged
func (s *Store) AcknowledgeAlert(id, by string) error {
	return s.stampAlert("acknowledgeAlert", id, func(alert *model.PatientAlert, stamp *model.Stamp) {
		alert.Acknowledged = stamp
	}, by)
}

// ResolveAlert stamps an alert as resolved. Acknowledge and resolve are
// independent and may happen in either order.
func (s *Store) ResolveAlert(id, by string) error {
	return s.stampAlert("resolveAlert", id, func(alert *model.PatientAlert, stamp *model.Stamp) {
		alert.Resolved = stamp
	}, by)
}

func (s *Store) stampAlert(action, id string, set func(*model.PatientAlert, *model.Stamp), by string) error {
	_, err := s.mutate(action, false, func(st *State) error {
		if by == "" {
			return fmt.Errorf("%w: actor is required", ErrValidation)
		}
		for i := range st.Alerts {
			if st.Alerts[i].ID == id {
				set(&st.Alerts[i], &model.Stamp{By: by, At: s.timestamp()})
				return nil
			}
		}
		return fmt.Errorf("%w: alert %s", ErrNotFound, id)
	})
	return err
}

// PatientUpdate is a partial update of a patient summary
type PatientUpdate struct {
	PatientName *string           `json:"patient_name,omitempty"`
	Age         *int              `json:"age,omitempty"`
	RiskScore   *model.RiskScore  `json:"risk_score,omitempty"`
	LastSync    *time.Time        `json:"last_sync,omitempty"`
	Flags       []string          `json:"flags,omitempty"`
	Summary     *string           `json:"summary,omitempty"`
	KeyMetrics  *model.KeyMetrics `json:"key_metrics,omitempty"`
}

// UpdatePatientSummary merges updates into the patient with patientID
func (s *Store) UpdatePatientSummary(patientID string, updates PatientUpdate) (model.PatientSummary, error) {
	var updated model.PatientSummary
	_, err := s.mutate("updatePatientSummary", false, func(st *State) error {
		for i := range st.Patients {
			p := &st.Patients[i]
			if p.PatientID != patientID {
				continue
			}
			if updates.PatientName != nil {
				p.PatientName = *updates.PatientName
			}
			if updates.Age != nil {
				p.Age = *updates.Age
			}
			if updates.RiskScore != nil {
				p.RiskScore = *updates.RiskScore
			}
			if updates.LastSync != nil {
				p.LastSync = updates.LastSync.UTC()
			}
			if updates.Flags != nil {
				p.Flags = append([]string(nil), updates.Flags...)
			}
			if updates.Summary != nil {
				p.Summary = *updates.Summary
			}
			if updates.KeyMetrics != nil {
				p.KeyMetrics = *updates.KeyMetrics
			}
			updated = *p
			return nil
		}
		return fmt.Errorf("%w: patient %s", ErrNotFound, patientID)
	})
	return updated, err
}

// SetLoading toggles the loading flag
func (s *Store) SetLoading(loading bool) {
	s.mutate("setLoading", false, func(st *State) error {
		st.IsLoading = loading
		return nil
	})
}

// SetError sets or clears the error message
func (s *Store) SetError(message *string) {
	s.mutate("setError", false, func(st *State) error {
		if message == nil {
			st.Error = nil
			return nil
		}
		msg := *message
		st.Error = &msg
		return nil
	})
}
