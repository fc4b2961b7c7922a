package synth

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

const (
	day = 24 * time.Hour

	// SeedUserID owns the seeded advice and uploads
	SeedUserID = "current-user"
	// SeedReviewerID is the clinician credited with seeded reviews and alert stamps
	SeedReviewerID = "doctor-1"
)

// Snapshot is one self-consistent bundle of synthetic health data
type Snapshot struct {
	User              model.UserProfile        `json:"user"`
	LiveMetrics       model.LiveMetrics        `json:"live_metrics"`
	HeartRate         model.HeartRateData      `json:"heart_rate_data"`
	HRV               model.HRVData            `json:"hrv_data"`
	RestingHRForecast model.RestingHRForecast  `json:"resting_hr_forecast"`
	Sleep             model.SleepData          `json:"sleep_data"`
	Activity          model.ActivityData       `json:"activity_data"`
	Baseline          model.BaselineComparison `json:"baseline_comparison"`
	RiskScore         model.RiskScore          `json:"risk_score"`
	Insights          []model.Insight          `json:"insights"`
	Doctors           []model.Doctor           `json:"doctors"`
	Medications       []model.Medication       `json:"medications"`
	AdviceItems       []model.AdviceItem       `json:"advice_items"`
	Uploads           []model.UploadItem       `json:"uploads"`
	Alerts            []model.PatientAlert     `json:"alerts"`
	Patients          []model.PatientSummary   `json:"patients"`
}

// Synthesizer fabricates health data from a single random stream. All Create
// methods draw from the same generator, so call order is part of the output.
// A Synthesizer is not safe for concurrent use; create one per goroutine.
type Synthesizer struct {
	rng  *Random
	seed int64
	now  time.Time
	live *model.LiveMetrics
}

// New creates a Synthesizer. now anchors every generated timestamp.
func New(seed int64, now time.Time) *Synthesizer {
	return &Synthesizer{
		rng:  NewRandom(seed),
		seed: seed,
		now:  now,
	}
}

// Initialize produces a full snapshot in a fixed order
func (s *Synthesizer) Initialize() Snapshot {
	user := s.CreateMockUser(model.UserRoleUser)
	live := s.CreateLiveMetrics()

	return Snapshot{
		User:              user,
		LiveMetrics:       live,
		HeartRate:         s.CreateHeartRateData(),
		HRV:               s.CreateHRVData(),
		RestingHRForecast: s.CreateRestingHRForecast(),
		Sleep:             s.CreateSleepData(),
		Activity:          s.CreateActivityData(),
		Baseline:          s.CreateBaselineComparison(),
		RiskScore:         s.CreateRiskScore(),
		Insights:          s.CreateInsights(),
		Doctors:           s.CreateDoctors(),
		Medications:       s.CreateMedications(),
		AdviceItems:       s.CreateAdviceItems(),
		Uploads:           s.CreateUploadItems(),
		Alerts:            s.CreatePatientAlerts(),
		Patients:          s.CreatePatientSummaries(),
	}
}

func (s *Synthesizer) ago(d time.Duration) time.Time {
	return s.now.Add(-d)
}

// CreateMockUser builds a profile for the given role
func (s *Synthesizer) CreateMockUser(role model.UserRole) model.UserProfile {
	names := userNames
	if role != model.UserRoleUser {
		names = doctorNames
	}
	name := Choice(s.rng, names)
	age := s.rng.Int(25, 65)
	gender := Choice(s.rng, genders)

	appleSync := s.ago(time.Duration(s.rng.Int(5, 60)) * time.Minute)
	fitbit := model.DeviceConnection{Type: model.DeviceTypeFitbit, Connected: s.rng.Bool(0.3)}
	if s.rng.Bool(0.5) {
		at := s.ago(time.Duration(s.rng.Int(30, 240)) * time.Minute)
		fitbit.LastSync = &at
	}

	createdAt := s.ago(time.Duration(s.rng.Int(30, 365)) * day)
	lastSync := s.ago(time.Duration(s.rng.Int(1, 15)) * time.Minute)

	return model.UserProfile{
		ID:                  fmt.Sprintf("user-%d-%d", s.now.UnixMilli(), s.seed),
		Name:                name,
		Email:               emailFor(name),
		Role:                role,
		Age:                 &age,
		Gender:              &gender,
		OnboardingCompleted: role != model.UserRoleUser,
		DeviceConnections: []model.DeviceConnection{
			{Type: model.DeviceTypeApple, Connected: true, LastSync: &appleSync},
			{Type: model.DeviceTypeGoogle, Connected: false},
			fitbit,
		},
		CreatedAt: createdAt,
		LastSync:  &lastSync,
	}
}

// emailFor turns "Dr. Sarah Wilson" into dr.sarah.wilson@example.com
func emailFor(name string) string {
	parts := strings.Fields(strings.ToLower(strings.ReplaceAll(name, ".", "")))
	return strings.Join(parts, ".") + "@example.com"
}

// CreateLiveMetrics samples fresh vitals and remembers them for the series
// that quote the current value
func (s *Synthesizer) CreateLiveMetrics() model.LiveMetrics {
	live := model.LiveMetrics{
		HeartRate:   float64(s.rng.Int(65, 85)),
		HRV:         float64(s.rng.Int(25, 65)),
		RestingHR:   float64(s.rng.Int(55, 75)),
		SpO2:        s.rng.Range(96, 99.5),
		Steps:       s.rng.Int(3000, 15000),
		LastUpdated: s.now,
	}
	s.live = &live
	return live
}

func (s *Synthesizer) currentLive() model.LiveMetrics {
	if s.live == nil {
		s.CreateLiveMetrics()
	}
	return *s.live
}

// CreateHeartRateData builds a 24h per-minute series
func (s *Synthesizer) CreateHeartRateData() model.HeartRateData {
	live := s.currentLive()
	points := GenerateTimeSeries(s.rng, s.ago(day), s.now, time.Minute, 75, 8, 0)

	return model.HeartRateData{
		Current: live.HeartRate,
		Points:  points,
		Bands: model.HeartRateBands{
			Low:    60,
			Normal: [2]float64{65, 85},
			High:   90,
		},
	}
}

// CreateHRVData builds a 7 day daily trend
func (s *Synthesizer) CreateHRVData() model.HRVData {
	live := s.currentLive()
	trend := GenerateTimeSeries(s.rng, s.ago(7*day), s.now, day, 45, 8, 0)

	dailyAverage := 45.0
	if n := len(trend); n > 0 && trend[n-1].Value != 0 {
		dailyAverage = trend[n-1].Value
	}

	return model.HRVData{
		Current:      live.HRV,
		DailyAverage: dailyAverage,
		WeeklyTrend:  trend,
		Percentile:   s.rng.Int(30, 85),
	}
}

// CreateRestingHRForecast builds bands around the current resting HR and a 14 day series
func (s *Synthesizer) CreateRestingHRForecast() model.RestingHRForecast {
	base := s.currentLive().RestingHR
	points := GenerateTimeSeries(s.rng, s.ago(14*day), s.now, day, base, 3, 0)

	return model.RestingHRForecast{
		Current: base,
		Forecast24: model.ForecastBands{
			Band50: [2]float64{base - 2, base + 2},
			Band85: [2]float64{base - 4, base + 4},
			Band90: [2]float64{base - 6, base + 6},
		},
		Points: points,
	}
}

// CreateSleepData samples last night's sleep. Stage durations are independent
// fractions of the total and are not renormalized.
func (s *Synthesizer) CreateSleepData() model.SleepData {
	total := s.rng.Range(6.5, 9)
	efficiency := s.rng.Range(0.78, 0.92)

	stages := model.SleepStages{
		Awake: round(total*s.rng.Range(0.05, 0.12), 1),
		Light: round(total*s.rng.Range(0.45, 0.55), 1),
		Deep:  round(total*s.rng.Range(0.15, 0.25), 1),
		REM:   round(total*s.rng.Range(0.20, 0.28), 1),
	}

	pattern := GenerateTimeSeries(s.rng, s.ago(7*day), s.now, day, total, 1.2, 0)

	return model.SleepData{
		LastNight: model.SleepNight{
			TotalSleep: round(total, 1),
			Stages:     stages,
			Efficiency: round(efficiency, 2),
		},
		SleepDebt:     math.Max(0, s.rng.Range(-1, 3)),
		WeeklyPattern: pattern,
	}
}

// CreateActivityData builds the step summary from the current live step count
func (s *Synthesizer) CreateActivityData() model.ActivityData {
	steps := s.currentLive().Steps
	goal := Choice(s.rng, stepGoals)
	history := GenerateTimeSeries(s.rng, s.ago(14*day), s.now, day, 9000, 3000, 0)
	vo2 := s.rng.Range(35, 55)

	return model.ActivityData{
		Steps:      steps,
		Goal:       goal,
		Last14Days: history,
		VO2Proxy:   &vo2,
	}
}

// CreateBaselineComparison samples peer percentiles
func (s *Synthesizer) CreateBaselineComparison() model.BaselineComparison {
	return model.BaselineComparison{
		UserPercentiles: model.UserPercentiles{
			RestingHR:       s.rng.Int(25, 85),
			HRV:             s.rng.Int(30, 80),
			VO2Proxy:        s.rng.Int(40, 90),
			SleepEfficiency: s.rng.Int(35, 88),
		},
		CohortInfo: model.CohortInfo{
			AgeRange:   "25-35",
			SampleSize: s.rng.Int(15000, 50000),
		},
	}
}

// CreateRiskScore samples the four factors and derives the overall score
func (s *Synthesizer) CreateRiskScore() model.RiskScore {
	factors := model.RiskFactors{
		HeartRate: s.rng.Int(20, 85),
		HRV:       s.rng.Int(15, 75),
		Sleep:     s.rng.Int(25, 90),
		Activity:  s.rng.Int(30, 80),
	}
	return ComputeRiskScore(factors, s.now)
}

// CreateInsights stamps the canned insight cards
func (s *Synthesizer) CreateInsights() []model.Insight {
	insights := make([]model.Insight, 0, len(insightCatalog))
	for i, tpl := range insightCatalog {
		insights = append(insights, model.Insight{
			ID:        fmt.Sprintf("insight-%d", i),
			Type:      tpl.kind,
			Title:     tpl.title,
			Content:   tpl.content,
			Severity:  tpl.severity,
			Category:  tpl.category,
			CreatedAt: s.ago(time.Duration(s.rng.Int(1, 48)) * time.Hour),
		})
	}
	return insights
}

// CreateDoctors builds the directory
func (s *Synthesizer) CreateDoctors() []model.Doctor {
	doctors := make([]model.Doctor, 0, len(doctorCatalog))
	for i, tpl := range doctorCatalog {
		tags := Choice(s.rng, doctorTags)
		doctors = append(doctors, model.Doctor{
			ID:           fmt.Sprintf("doctor-%d", i),
			Name:         tpl.name,
			Specialty:    tpl.specialty,
			OutcomeScore: tpl.outcome,
			Tags:         append([]string(nil), tags...),
			Location:     tpl.location,
			Availability: s.rng.Bool(0.8),
		})
	}
	return doctors
}

// CreateMedications builds the seeded medication list. The first entry
// carries an impact tracking record.
func (s *Synthesizer) CreateMedications() []model.Medication {
	meds := make([]model.Medication, 0, len(medicationCatalog))
	for i, tpl := range medicationCatalog {
		id := fmt.Sprintf("med-%d", i)
		start := s.ago(time.Duration(s.rng.Int(30, 365)) * day)

		med := model.Medication{
			ID:        id,
			Name:      tpl.name,
			Dosage:    tpl.dosage,
			Frequency: tpl.frequency,
			StartDate: start,
			Color:     tpl.color,
		}
		if s.rng.Bool(0.3) {
			end := s.now.Add(time.Duration(s.rng.Int(30, 180)) * day)
			med.EndDate = &end
		}
		if s.rng.Bool(0.4) {
			notes := "Take with food"
			med.Notes = &notes
		}
		if i == 0 {
			med.ImpactTracking = s.lisinoprilImpact(id, start)
		}
		meds = append(meds, med)
	}
	return meds
}

func (s *Synthesizer) lisinoprilImpact(medicationID string, start time.Time) *model.MedicationImpact {
	recommendation := "Current dosage appears optimal based on physiological response"
	return &model.MedicationImpact{
		MedicationID: medicationID,
		StartDate:    start,
		PhysiologicalChanges: model.PhysiologicalChanges{
			HeartRate: &model.HeartRateChange{Before: 85, After: 72, Change: -13, Significance: "positive"},
			BloodPressure: &model.BloodPressureChange{
				Before: [2]int{145, 92},
				After:  [2]int{128, 78},
				Change: "improved",
			},
			SleepQuality: &model.ScalarChange{Before: 6.2, After: 7.1, Change: 0.9},
		},
		SideEffectsReported:     []string{"Mild dizziness initially"},
		EffectivenessScore:      8,
		RecommendationGenerated: &recommendation,
		LastAssessment:          s.ago(7 * day),
	}
}

// CreateAdviceItems builds the seeded advice. Every status other than
// pending_review comes with one review record.
func (s *Synthesizer) CreateAdviceItems() []model.AdviceItem {
	items := make([]model.AdviceItem, 0, len(adviceCatalog))
	for i, tpl := range adviceCatalog {
		id := fmt.Sprintf("advice-%d", i)
		status := Choice(s.rng, seededAdviceStatuses)

		history := []model.AdviceReview{}
		if status != model.AdviceStatusPendingReview {
			history = append(history, s.seededReview(id, status))
		}

		item := model.AdviceItem{
			ID:             id,
			Text:           tpl.text,
			Summary:        tpl.summary,
			Tags:           append([]string(nil), tpl.tags...),
			Category:       tpl.category,
			CreatedAt:      s.ago(time.Duration(s.rng.Int(1, 72)) * time.Hour),
			UserID:         SeedUserID,
			ApprovalStatus: status,
			ReviewHistory:  history,
			UrgencyLevel:   tpl.urgency,
			Confidence:     tpl.confidence,
			EvidenceLevel:  tpl.evidence,
		}
		if tpl.medicationRelated != "" {
			related := tpl.medicationRelated
			item.MedicationRelated = &related
		}
		items = append(items, item)
	}
	return items
}

func (s *Synthesizer) seededReview(adviceID string, status model.AdviceApprovalStatus) model.AdviceReview {
	followUp := status == model.AdviceStatusNeedsClarification
	notified := true
	review := model.AdviceReview{
		ID:                      adviceID + "-review-0",
		ReviewerID:              SeedReviewerID,
		ReviewerName:            "Dr. Sarah Kim",
		ReviewerCredentials:     "MD, Internal Medicine",
		Status:                  status,
		Timestamp:               s.ago(time.Duration(s.rng.Int(1, 24)) * time.Hour),
		FollowUpRequired:        &followUp,
		PatientNotificationSent: &notified,
	}

	var notes string
	switch status {
	case model.AdviceStatusApproved:
		notes = "Clinically sound recommendation based on patient data"
		reasoning := "Evidence-based recommendation with low risk profile"
		review.ClinicalReasoning = &reasoning
	case model.AdviceStatusNeedsClarification:
		notes = "Please provide more details about patient symptoms"
		review.RequestedActions = []string{
			"Patient to provide symptom details",
			"Schedule follow-up in 2 weeks",
		}
	default:
		notes = "Under clinical review for safety assessment"
	}
	review.Notes = &notes
	return review
}

// CreateUploadItems builds the seeded uploads
func (s *Synthesizer) CreateUploadItems() []model.UploadItem {
	uploads := make([]model.UploadItem, 0, len(uploadCatalog))
	for i, tpl := range uploadCatalog {
		item := model.UploadItem{
			ID:         fmt.Sprintf("upload-%d", i),
			FileName:   tpl.fileName,
			FileType:   tpl.fileType,
			Status:     Choice(s.rng, seededUploadStatuses),
			UploadedAt: s.ago(time.Duration(s.rng.Int(1, 48)) * time.Hour),
			UserID:     SeedUserID,
		}
		if s.rng.Bool(0.7) {
			at := s.ago(time.Duration(s.rng.Int(0, 24)) * time.Hour)
			item.ProcessedAt = &at
		}
		if s.rng.Bool(0.6) {
			item.ExtractedData = map[string]any{
				"heart_rate": float64(78),
				"rhythm":     "Normal sinus rhythm",
			}
		}
		if s.rng.Bool(0.3) {
			notes := "Requires physician review"
			item.Notes = &notes
		}
		uploads = append(uploads, item)
	}
	return uploads
}

// CreatePatientAlerts builds the seeded threshold alerts
func (s *Synthesizer) CreatePatientAlerts() []model.PatientAlert {
	alerts := make([]model.PatientAlert, 0, len(alertCatalog))
	for i, tpl := range alertCatalog {
		alert := model.PatientAlert{
			ID:          fmt.Sprintf("alert-%d", i),
			PatientID:   tpl.patientID,
			PatientName: tpl.patientName,
			Type:        tpl.kind,
			Severity:    Choice(s.rng, severities),
			Message:     tpl.message,
			Value:       tpl.value,
			Threshold:   tpl.threshold,
			CreatedAt:   s.ago(time.Duration(s.rng.Int(1, 12)) * time.Hour),
		}
		if s.rng.Bool(0.4) {
			alert.Acknowledged = &model.Stamp{
				By: SeedReviewerID,
				At: s.ago(time.Duration(s.rng.Int(0, 6)) * time.Hour),
			}
		}
		if s.rng.Bool(0.2) {
			alert.Resolved = &model.Stamp{
				By: SeedReviewerID,
				At: s.ago(time.Duration(s.rng.Int(0, 3)) * time.Hour),
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

// CreatePatientSummaries builds the clinician roster. The narrative quotes
// the patient's own key metrics.
func (s *Synthesizer) CreatePatientSummaries() []model.PatientSummary {
	patients := make([]model.PatientSummary, 0, len(patientCatalog))
	for i, tpl := range patientCatalog {
		risk := s.CreateRiskScore()
		lastSync := s.ago(time.Duration(s.rng.Int(1, 60)) * time.Minute)
		flags := append([]string{}, Choice(s.rng, patientFlags)...)

		metrics := model.KeyMetrics{
			RestingHR:  s.rng.Int(55, 80),
			HRV:        s.rng.Int(30, 60),
			SpO2:       s.rng.Range(94, 99),
			SleepScore: s.rng.Int(65, 95),
		}

		patients = append(patients, model.PatientSummary{
			PatientID:   fmt.Sprintf("patient-%d", i),
			PatientName: tpl.name,
			Age:         tpl.age,
			RiskScore:   risk,
			LastSync:    lastSync,
			Flags:       flags,
			Summary: fmt.Sprintf("%s is a %d-year-old patient showing %s. Recent data shows HRV at %dms and resting HR at %dbpm.",
				tpl.name, tpl.age, riskNarratives[risk.Level], metrics.HRV, metrics.RestingHR),
			KeyMetrics: metrics,
		})
	}
	return patients
}
