package store

import (
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// State is one immutable version of the application state. Every action
// produces a new State; a published State is never modified afterwards, so
// callers may read it freely but must not write to it.
type State struct {
	SessionID string `json:"session_id,omitempty"`

	CurrentUser    *model.UserProfile   `json:"current_user"`
	CurrentRole    *model.UserRole      `json:"current_role"`
	OnboardingData model.OnboardingData `json:"onboarding_data"`
	OnboardingStep int                  `json:"onboarding_step"`

	LiveMetrics        *model.LiveMetrics        `json:"live_metrics"`
	HeartRateData      *model.HeartRateData      `json:"heart_rate_data"`
	HRVData            *model.HRVData            `json:"hrv_data"`
	RestingHRForecast  *model.RestingHRForecast  `json:"resting_hr_forecast"`
	SleepData          *model.SleepData          `json:"sleep_data"`
	ActivityData       *model.ActivityData       `json:"activity_data"`
	BaselineComparison *model.BaselineComparison `json:"baseline_comparison"`
	RiskScore          *model.RiskScore          `json:"risk_score"`

	Insights     []model.Insight     `json:"insights"`
	Doctors      []model.Doctor      `json:"doctors"`
	Medications  []model.Medication  `json:"medications"`
	DoseLogs     []model.DoseLog     `json:"dose_logs"`
	AdviceItems  []model.AdviceItem  `json:"advice_items"`
	ChatMessages []model.ChatMessage `json:"chat_messages"`
	Uploads      []model.UploadItem  `json:"uploads"`

	Patients []model.PatientSummary `json:"patients"`
	Alerts   []model.PatientAlert   `json:"alerts"`

	IsLoading bool    `json:"is_loading"`
	Error     *string `json:"error"`
}

// initialState is the empty state every store starts from
func initialState() State {
	return State{
		Insights:     []model.Insight{},
		Doctors:      []model.Doctor{},
		Medications:  []model.Medication{},
		DoseLogs:     []model.DoseLog{},
		AdviceItems:  []model.AdviceItem{},
		ChatMessages: []model.ChatMessage{},
		Uploads:      []model.UploadItem{},
		Patients:     []model.PatientSummary{},
		Alerts:       []model.PatientAlert{},
	}
}

// DoseLogsFor returns the dose logs recorded against one medication, oldest first
func (s State) DoseLogsFor(medicationID string) []model.DoseLog {
	logs := []model.DoseLog{}
	for _, log := range s.DoseLogs {
		if log.MedicationID == medicationID {
			logs = append(logs, log)
		}
	}
	return logs
}

// ReviewKind distinguishes the entries of the review queue
type ReviewKind string

const (
	ReviewKindAdvice ReviewKind = "advice"
	ReviewKindUpload ReviewKind = "upload"
)

// ReviewItem is one entry of the clinician review queue
type ReviewItem struct {
	Kind      ReviewKind        `json:"kind"`
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Advice    *model.AdviceItem `json:"advice,omitempty"`
	Upload    *model.UploadItem `json:"upload,omitempty"`
}

// ReviewQueue lists advice still awaiting a final decision followed by
// processed uploads nobody has reviewed yet. Both keep their list order,
// which is newest first.
func (s State) ReviewQueue() []ReviewItem {
	queue := []ReviewItem{}
	for i := range s.AdviceItems {
		item := s.AdviceItems[i]
		if item.ApprovalStatus.AwaitingReview() {
			queue = append(queue, ReviewItem{Kind: ReviewKindAdvice, ID: item.ID, CreatedAt: item.CreatedAt, Advice: &item})
		}
	}
	for i := range s.Uploads {
		upload := s.Uploads[i]
		if upload.Status == model.UploadStatusReady && upload.Reviewed == nil {
			queue = append(queue, ReviewItem{Kind: ReviewKindUpload, ID: upload.ID, CreatedAt: upload.UploadedAt, Upload: &upload})
		}
	}
	return queue
}

// UnresolvedAlerts returns the alerts without a resolved stamp
func (s State) UnresolvedAlerts() []model.PatientAlert {
	alerts := []model.PatientAlert{}
	for _, alert := range s.Alerts {
		if alert.Resolved == nil {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// Medication looks up a medication by id
func (s State) Medication(id string) (model.Medication, bool) {
	for _, med := range s.Medications {
		if med.ID == id {
			return med, true
		}
	}
	return model.Medication{}, false
}

// AdviceItem looks up an advice item by id
func (s State) AdviceItem(id string) (model.AdviceItem, bool) {
	for _, item := range s.AdviceItems {
		if item.ID == id {
			return item, true
		}
	}
	return model.AdviceItem{}, false
}

// Upload looks up an upload by id
func (s State) Upload(id string) (model.UploadItem, bool) {
	for _, upload := range s.Uploads {
		if upload.ID == id {
			return upload, true
		}
	}
	return model.UploadItem{}, false
}

// ChatMessage looks up a chat message by id
func (s State) ChatMessage(id string) (model.ChatMessage, bool) {
	for _, msg := range s.ChatMessages {
		if msg.ID == id {
			return msg, true
		}
	}
	return model.ChatMessage{}, false
}

// Patient looks up a patient summary by id
func (s State) Patient(id string) (model.PatientSummary, bool) {
	for _, p := range s.Patients {
		if p.PatientID == id {
			return p, true
		}
	}
	return model.PatientSummary{}, false
}
