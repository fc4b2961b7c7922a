package model

import "time"

// UserRole separates the consumer dashboard from the clinician dashboard
type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleDoctor UserRole = "doctor"
)

// Valid reports whether the role is one of the known roles
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleDoctor
}

// DeviceType identifies a wearable platform
type DeviceType string

const (
	DeviceTypeApple  DeviceType = "apple"
	DeviceTypeGoogle DeviceType = "google"
	DeviceTypeFitbit DeviceType = "fitbit"
)

// DeviceConnection is a simulated wearable link
type DeviceConnection struct {
	Type      DeviceType `json:"type"`
	Connected bool       `json:"connected"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	DeviceID  *string    `json:"device_id,omitempty"`
}

// UserProfile represents the signed-in person
type UserProfile struct {
	ID                  string             `json:"id" validate:"required"`
	Name                string             `json:"name" validate:"required"`
	Email               string             `json:"email" validate:"required,email"`
	Role                UserRole           `json:"role" validate:"required,oneof=user doctor"`
	Age                 *int               `json:"age,omitempty"`
	Gender              *string            `json:"gender,omitempty"`
	OnboardingCompleted bool               `json:"onboarding_completed"`
	DeviceConnections   []DeviceConnection `json:"device_connections"`
	CreatedAt           time.Time          `json:"created_at"`
	LastSync            *time.Time         `json:"last_sync,omitempty"`
}

// MetricPoint is a single time series sample
type MetricPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// LiveMetrics holds the vitals the background ticker perturbs
type LiveMetrics struct {
	HeartRate   float64   `json:"heart_rate"`
	HRV         float64   `json:"hrv"`
	RestingHR   float64   `json:"resting_hr"`
	SpO2        float64   `json:"spo2"`
	Steps       int       `json:"steps"`
	LastUpdated time.Time `json:"last_updated"`
}

// HeartRateBands are the reference bands drawn behind the heart rate chart
type HeartRateBands struct {
	Low    float64    `json:"low"`
	Normal [2]float64 `json:"normal"`
	High   float64    `json:"high"`
}

// HeartRateData is the 24h heart rate series
type HeartRateData struct {
	Current float64        `json:"current"`
	Points  []MetricPoint  `json:"points"`
	Bands   HeartRateBands `json:"bands"`
}

// HRVData is the weekly heart rate variability trend
type HRVData struct {
	Current      float64       `json:"current"`
	DailyAverage float64       `json:"daily_average"`
	WeeklyTrend  []MetricPoint `json:"weekly_trend"`
	Percentile   int           `json:"percentile"`
}

// ForecastBands are confidence bands around the resting heart rate
type ForecastBands struct {
	Band50 [2]float64 `json:"band50"`
	Band85 [2]float64 `json:"band85"`
	Band90 [2]float64 `json:"band90"`
}

// RestingHRForecast is the resting heart rate outlook
type RestingHRForecast struct {
	Current    float64       `json:"current"`
	Forecast24 ForecastBands `json:"forecast_24h"`
	Points     []MetricPoint `json:"points"`
}

// SleepStages are durations in hours. Each stage is sampled as an independent
// fraction of the total, so the four values need not sum to TotalSleep.
type SleepStages struct {
	Awake float64 `json:"awake"`
	Light float64 `json:"light"`
	Deep  float64 `json:"deep"`
	REM   float64 `json:"rem"`
}

// SleepNight summarizes the most recent night
type SleepNight struct {
	TotalSleep float64     `json:"total_sleep"`
	Stages     SleepStages `json:"stages"`
	Efficiency float64     `json:"efficiency"`
}

// SleepData is the sleep summary plus weekly pattern
type SleepData struct {
	LastNight     SleepNight    `json:"last_night"`
	SleepDebt     float64       `json:"sleep_debt"`
	WeeklyPattern []MetricPoint `json:"weekly_pattern"`
}

// ActivityData is the step summary
type ActivityData struct {
	Steps      int           `json:"steps"`
	Goal       int           `json:"goal"`
	Last14Days []MetricPoint `json:"last_14_days"`
	VO2Proxy   *float64      `json:"vo2_proxy,omitempty"`
}

// UserPercentiles rank the user against the peer cohort
type UserPercentiles struct {
	RestingHR       int `json:"resting_hr"`
	HRV             int `json:"hrv"`
	VO2Proxy        int `json:"vo2_proxy"`
	SleepEfficiency int `json:"sleep_efficiency"`
}

// CohortInfo labels the peer cohort
type CohortInfo struct {
	AgeRange   string `json:"age_range"`
	SampleSize int    `json:"sample_size"`
}

// BaselineComparison is the peer percentile view
type BaselineComparison struct {
	UserPercentiles UserPercentiles `json:"user_percentiles"`
	CohortInfo      CohortInfo      `json:"cohort_info"`
}

// RiskLevel buckets an overall risk score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskFactors are the four 0-100 factor scores
type RiskFactors struct {
	HeartRate int `json:"heart_rate"`
	HRV       int `json:"hrv"`
	Sleep     int `json:"sleep"`
	Activity  int `json:"activity"`
}

// RiskScore is the averaged factor score and its label
type RiskScore struct {
	Overall        int         `json:"overall"`
	Level          RiskLevel   `json:"level"`
	Factors        RiskFactors `json:"factors"`
	LastCalculated time.Time   `json:"last_calculated"`
}

// Severity is shared by insights, alerts and advice urgency
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// InsightType categorizes an insight card
type InsightType string

const (
	InsightTypeEducation      InsightType = "education"
	InsightTypeRecommendation InsightType = "recommendation"
	InsightTypeAlert          InsightType = "alert"
)

// Insight is a canned educational or alert card
type Insight struct {
	ID        string      `json:"id" validate:"required"`
	Type      InsightType `json:"type" validate:"required,oneof=education recommendation alert"`
	Title     string      `json:"title" validate:"required"`
	Content   string      `json:"content"`
	Severity  *Severity   `json:"severity,omitempty"`
	Category  string      `json:"category"`
	CreatedAt time.Time   `json:"created_at"`
	Dismissed bool        `json:"dismissed,omitempty"`
}

// Doctor is a directory entry
type Doctor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	OutcomeScore string   `json:"outcome_score"`
	Tags         []string `json:"tags"`
	Location     string   `json:"location"`
	Availability bool     `json:"availability"`
}

// Medication represents a medication entry. Dose logs live in a single
// collection on the store and are joined by medication ID on read.
type Medication struct {
	ID                  string                   `json:"id" validate:"required"`
	Name                string                   `json:"name" validate:"required"`
	Dosage              string                   `json:"dosage" validate:"required"`
	Frequency           string                   `json:"frequency" validate:"required"`
	StartDate           time.Time                `json:"start_date"`
	EndDate             *time.Time               `json:"end_date,omitempty"`
	Notes               *string                  `json:"notes,omitempty"`
	Color               string                   `json:"color"`
	ImpactTracking      *MedicationImpact        `json:"impact_tracking,omitempty"`
	ConsultationHistory []MedicationConsultation `json:"consultation_history,omitempty"`
}

// HeartRateChange is a before/after heart rate delta
type HeartRateChange struct {
	Before       float64 `json:"before"`
	After        float64 `json:"after"`
	Change       float64 `json:"change"`
	Significance string  `json:"significance"`
}

// BloodPressureChange is a before/after systolic/diastolic pair
type BloodPressureChange struct {
	Before [2]int `json:"before"`
	After  [2]int `json:"after"`
	Change string `json:"change"`
}

// ScalarChange is a generic before/after delta
type ScalarChange struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Change float64 `json:"change"`
}

// PhysiologicalChanges groups the tracked deltas
type PhysiologicalChanges struct {
	HeartRate         *HeartRateChange     `json:"heart_rate,omitempty"`
	BloodPressure     *BloodPressureChange `json:"blood_pressure,omitempty"`
	SleepQuality      *ScalarChange        `json:"sleep_quality,omitempty"`
	ActivityTolerance *ScalarChange        `json:"activity_tolerance,omitempty"`
}

// MedicationImpact tracks how a medication changed the patient's vitals
type MedicationImpact struct {
	MedicationID            string               `json:"medication_id"`
	StartDate               time.Time            `json:"start_date"`
	PhysiologicalChanges    PhysiologicalChanges `json:"physiological_changes"`
	SideEffectsReported     []string             `json:"side_effects_reported"`
	EffectivenessScore      int                  `json:"effectiveness_score"`
	RecommendationGenerated *string              `json:"recommendation_generated,omitempty"`
	LastAssessment          time.Time            `json:"last_assessment"`
}

// ConsultationRecommendation is the outcome of a medication check-in
type ConsultationRecommendation string

const (
	RecommendationContinue         ConsultationRecommendation = "continue"
	RecommendationAdjustDose       ConsultationRecommendation = "adjust_dose"
	RecommendationChangeMedication ConsultationRecommendation = "change_medication"
	RecommendationConsultDoctor    ConsultationRecommendation = "consult_doctor"
)

// MedicationConsultation records one medication check-in
type MedicationConsultation struct {
	ID                   string                     `json:"id"`
	MedicationID         string                     `json:"medication_id"`
	PatientReport        string                     `json:"patient_report"`
	Symptoms             []string                   `json:"symptoms"`
	SideEffects          []string                   `json:"side_effects"`
	Effectiveness        int                        `json:"effectiveness"`
	AgentResponse        string                     `json:"agent_response"`
	Recommendation       ConsultationRecommendation `json:"recommendation"`
	RecommendationReason string                     `json:"recommendation_reason"`
	Timestamp            time.Time                  `json:"timestamp"`
	FollowUpRequired     bool                       `json:"follow_up_required"`
	DoctorNotified       bool                       `json:"doctor_notified"`
}

// DoseLog is an immutable record of a scheduled dose
type DoseLog struct {
	MedicationID  string     `json:"medication_id" validate:"required"`
	ScheduledTime time.Time  `json:"scheduled_time" validate:"required"`
	TakenTime     *time.Time `json:"taken_time,omitempty"`
	Taken         bool       `json:"taken"`
	Notes         *string    `json:"notes,omitempty"`
}

// AdviceApprovalStatus is the single authoritative review state of an advice item
type AdviceApprovalStatus string

const (
	AdviceStatusPendingReview        AdviceApprovalStatus = "pending_review"
	AdviceStatusUnderReview          AdviceApprovalStatus = "under_review"
	AdviceStatusApproved             AdviceApprovalStatus = "approved"
	AdviceStatusNeedsClarification   AdviceApprovalStatus = "needs_clarification"
	AdviceStatusNotApproved          AdviceApprovalStatus = "not_approved"
	AdviceStatusRequiresConsultation AdviceApprovalStatus = "requires_consultation"
)

// EvidenceLevel grades the support behind an advice item
type EvidenceLevel string

const (
	EvidenceStrong   EvidenceLevel = "strong"
	EvidenceModerate EvidenceLevel = "moderate"
	EvidenceLimited  EvidenceLevel = "limited"
)

// AdviceReview is an append-only review record
type AdviceReview struct {
	ID                      string               `json:"id"`
	ReviewerID              string               `json:"reviewer_id" validate:"required"`
	ReviewerName            string               `json:"reviewer_name" validate:"required"`
	ReviewerCredentials     string               `json:"reviewer_credentials"`
	Status                  AdviceApprovalStatus `json:"status" validate:"required"`
	Timestamp               time.Time            `json:"timestamp"`
	Notes                   *string              `json:"notes,omitempty"`
	ClinicalReasoning       *string              `json:"clinical_reasoning,omitempty"`
	RequestedActions        []string             `json:"requested_actions,omitempty"`
	FollowUpRequired        *bool                `json:"follow_up_required,omitempty"`
	PatientNotificationSent *bool                `json:"patient_notification_sent,omitempty"`
}

// AdviceItem is a recommendation awaiting or past clinician review
type AdviceItem struct {
	ID                string               `json:"id" validate:"required"`
	Text              string               `json:"text" validate:"required"`
	Summary           string               `json:"summary"`
	Tags              []string             `json:"tags"`
	Category          string               `json:"category"`
	CreatedAt         time.Time            `json:"created_at"`
	UserID            string               `json:"user_id"`
	ApprovalStatus    AdviceApprovalStatus `json:"approval_status" validate:"required"`
	ReviewHistory     []AdviceReview       `json:"review_history"`
	UrgencyLevel      Severity             `json:"urgency_level" validate:"required,oneof=low medium high"`
	Confidence        int                  `json:"confidence" validate:"gte=0,lte=100"`
	EvidenceLevel     EvidenceLevel        `json:"evidence_level" validate:"required,oneof=strong moderate limited"`
	MedicationRelated *string              `json:"medication_related,omitempty"`
}

// ChatMessage is one turn of the assistant chat
type ChatMessage struct {
	ID            string      `json:"id" validate:"required"`
	Content       string      `json:"content" validate:"required"`
	Role          MessageRole `json:"role" validate:"required,oneof=user assistant"`
	Timestamp     time.Time   `json:"timestamp"`
	RelatedAdvice *string     `json:"related_advice,omitempty"`
}

// MessageRole represents the role of a message sender
type MessageRole string

const (
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleUser      MessageRole = "user"
)

// UploadStatus is the processing state of an uploaded file
type UploadStatus string

const (
	UploadStatusUploaded   UploadStatus = "uploaded"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusReady      UploadStatus = "ready"
	UploadStatusError      UploadStatus = "error"
)

// FileType is the inferred kind of an uploaded file
type FileType string

const (
	FileTypeECG   FileType = "ecg"
	FileTypeLab   FileType = "lab"
	FileTypePhoto FileType = "photo"
)

// UploadItem is an uploaded health document
type UploadItem struct {
	ID            string         `json:"id" validate:"required"`
	FileName      string         `json:"file_name" validate:"required"`
	FileType      FileType       `json:"file_type" validate:"required,oneof=ecg lab photo"`
	Status        UploadStatus   `json:"status" validate:"required"`
	UploadedAt    time.Time      `json:"uploaded_at"`
	ProcessedAt   *time.Time     `json:"processed_at,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	UserID        string         `json:"user_id"`
	Reviewed      *Stamp         `json:"reviewed,omitempty"`
}

// Stamp records who did something and when
type Stamp struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

// AlertType names the threshold that was breached
type AlertType string

const (
	AlertTypeSpO2Low   AlertType = "spo2_low"
	AlertTypeHRVDrop   AlertType = "hrv_drop"
	AlertTypeRHRSpike  AlertType = "rhr_spike"
	AlertTypeSleepDebt AlertType = "sleep_debt"
)

// PatientAlert is a threshold breach with independent acknowledge and resolve stamps
type PatientAlert struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	PatientName  string    `json:"patient_name"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Value        float64   `json:"value"`
	Threshold    float64   `json:"threshold"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged *Stamp    `json:"acknowledged,omitempty"`
	Resolved     *Stamp    `json:"resolved,omitempty"`
}

// KeyMetrics are the headline vitals on a patient card
type KeyMetrics struct {
	RestingHR  int     `json:"resting_hr"`
	HRV        int     `json:"hrv"`
	SpO2       float64 `json:"spo2"`
	SleepScore int     `json:"sleep_score"`
}

// PatientSummary is a row of the clinician roster
type PatientSummary struct {
	PatientID   string     `json:"patient_id"`
	PatientName string     `json:"patient_name"`
	Age         int        `json:"age"`
	RiskScore   RiskScore  `json:"risk_score"`
	LastSync    time.Time  `json:"last_sync"`
	Flags       []string   `json:"flags"`
	Summary     string     `json:"summary"`
	KeyMetrics  KeyMetrics `json:"key_metrics"`
}

// Demographics is the first onboarding section
type Demographics struct {
	Age    int     `json:"age" validate:"gte=0,lte=130"`
	Gender string  `json:"gender"`
	Height float64 `json:"height" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// MedicalHistory is the second onboarding section
type MedicalHistory struct {
	Conditions  []string `json:"conditions"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// Lifestyle is the third onboarding section
type Lifestyle struct {
	ActivityLevel string  `json:"activity_level"`
	Smoker        bool    `json:"smoker"`
	Alcohol       string  `json:"alcohol"`
	SleepHours    float64 `json:"sleep_hours" validate:"gte=0,lte=24"`
}

// SymptomReport is the last onboarding section
type SymptomReport struct {
	Current   []string          `json:"current"`
	Frequency map[string]string `json:"frequency"`
}

// OnboardingData is partial onboarding progress; nil sections are unanswered
type OnboardingData struct {
	Demographics   *Demographics   `json:"demographics,omitempty"`
	MedicalHistory *MedicalHistory `json:"medical_history,omitempty"`
	Lifestyle      *Lifestyle      `json:"lifestyle,omitempty"`
	Symptoms       *SymptomReport  `json:"symptoms,omitempty"`
}
