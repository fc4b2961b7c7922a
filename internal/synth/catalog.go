package synth

import "github.com/vcscsvcscs/hope/apps/backend/pkg/model"

var (
	userNames   = []string{"Alex Chen", "Jordan Smith", "Sam Johnson"}
	doctorNames = []string{"Dr. Sarah Wilson", "Dr. Michael Brown", "Dr. Lisa Garcia"}
	genders     = []string{"male", "female", "other"}
	stepGoals   = []int{8000, 10000, 12000}
)

type insightTemplate struct {
	kind     model.InsightType
	title    string
	content  string
	severity *model.Severity
	category string
}

var insightCatalog = []insightTemplate{
	{
		kind:     model.InsightTypeEducation,
		title:    "Heart Rate Variability Explained",
		content:  "Your HRV of 45ms is within the normal range. Higher HRV generally indicates better recovery and stress resilience.",
		category: "Heart Health",
	},
	{
		kind:     model.InsightTypeRecommendation,
		title:    "Improve Your Sleep Quality",
		content:  "Your sleep efficiency could be improved. Try maintaining a consistent bedtime and avoiding screens 1 hour before sleep.",
		category: "Sleep",
	},
	{
		kind:     model.InsightTypeAlert,
		title:    "SpO2 Reading Below Normal",
		content:  "Your oxygen saturation dropped to 94% last night. Consider consulting with a healthcare provider if this persists.",
		severity: severityPtr(model.SeverityMedium),
		category: "Respiratory",
	},
}

type doctorTemplate struct {
	name, specialty, outcome, location string
}

var doctorCatalog = []doctorTemplate{
	{"Dr. Sarah Kim", "Cardiology", "A", "Downtown Medical Center"},
	{"Dr. Michael Rodriguez", "Internal Medicine", "A", "City Health Clinic"},
	{"Dr. Jennifer Liu", "Sleep Medicine", "B", "Sleep Wellness Center"},
	{"Dr. David Thompson", "Sports Medicine", "A", "Athletic Health Institute"},
	{"Dr. Maria Santos", "Endocrinology", "B", "Metro Diabetes Center"},
}

var doctorTags = [][]string{
	{"Preventive Care", "Telehealth"},
	{"Heart Disease", "Hypertension"},
	{"Sleep Disorders", "Insomnia"},
	{"Fitness", "Recovery"},
	{"Diabetes", "Metabolism"},
}

type medicationTemplate struct {
	name, dosage, frequency, color string
}

var medicationCatalog = []medicationTemplate{
	{"Lisinopril", "10mg", "Daily", "#3B82F6"},
	{"Metformin", "500mg", "Twice daily", "#10B981"},
	{"Vitamin D3", "2000 IU", "Daily", "#F59E0B"},
}

type adviceTemplate struct {
	text, summary     string
	tags              []string
	category          string
	urgency           model.Severity
	confidence        int
	evidence          model.EvidenceLevel
	medicationRelated string
}

var adviceCatalog = []adviceTemplate{
	{
		text:       "Consider reducing caffeine intake after 2 PM to improve sleep quality based on your sleep pattern analysis.",
		summary:    "Limit afternoon caffeine for better sleep",
		tags:       []string{"sleep", "lifestyle"},
		category:   "Sleep Health",
		urgency:    model.SeverityMedium,
		confidence: 78,
		evidence:   model.EvidenceModerate,
	},
	{
		text:       "Your heart rate during exercise suggests you could safely increase intensity by 10-15% while maintaining target zones.",
		summary:    "Safe to increase exercise intensity",
		tags:       []string{"exercise", "heart rate"},
		category:   "Fitness",
		urgency:    model.SeverityLow,
		confidence: 92,
		evidence:   model.EvidenceStrong,
	},
	{
		text:       "Based on your HRV trends showing stress patterns, consider adding 10 minutes of meditation to your morning routine.",
		summary:    "Morning meditation for stress management",
		tags:       []string{"stress", "hrv", "meditation"},
		category:   "Wellness",
		urgency:    model.SeverityMedium,
		confidence: 84,
		evidence:   model.EvidenceModerate,
	},
	{
		text:              "Your Lisinopril is showing excellent physiological response. Continue current dosage and monitor blood pressure.",
		summary:           "Continue current Lisinopril dosage",
		tags:              []string{"medication", "blood pressure"},
		category:          "Medication Management",
		urgency:           model.SeverityLow,
		confidence:        95,
		evidence:          model.EvidenceStrong,
		medicationRelated: "med-0",
	},
}

// seeded advice never starts in a terminal state other than approved
var seededAdviceStatuses = []model.AdviceApprovalStatus{
	model.AdviceStatusApproved,
	model.AdviceStatusPendingReview,
	model.AdviceStatusUnderReview,
	model.AdviceStatusNeedsClarification,
}

type uploadTemplate struct {
	fileName string
	fileType model.FileType
}

var uploadCatalog = []uploadTemplate{
	{"ecg_reading_morning.jpg", model.FileTypeECG},
	{"blood_work_results.pdf", model.FileTypeLab},
	{"rash_photo.jpg", model.FileTypePhoto},
}

var seededUploadStatuses = []model.UploadStatus{
	model.UploadStatusUploaded,
	model.UploadStatusProcessing,
	model.UploadStatusReady,
}

type alertTemplate struct {
	patientID, patientName string
	kind                   model.AlertType
	message                string
	value, threshold       float64
}

var alertCatalog = []alertTemplate{
	{"patient-0", "Alex Chen", model.AlertTypeSpO2Low, "SpO2 dropped to 93% during sleep", 93, 95},
	{"patient-1", "Jordan Smith", model.AlertTypeHRVDrop, "HRV decreased by 25% from baseline", 32, 40},
	{"patient-2", "Sam Johnson", model.AlertTypeRHRSpike, "Resting HR elevated to 85 bpm", 85, 75},
}

var severities = []model.Severity{model.SeverityLow, model.SeverityMedium, model.SeverityHigh}

type patientTemplate struct {
	name string
	age  int
}

var patientCatalog = []patientTemplate{
	{"Alex Chen", 32},
	{"Jordan Smith", 28},
	{"Sam Johnson", 45},
	{"Casey Brown", 38},
	{"Taylor Wilson", 29},
}

var patientFlags = [][]string{
	{"High BP", "Irregular Sleep"},
	{"Low HRV", "Sedentary"},
	{"Sleep Apnea Risk"},
	{"Stress Indicators"},
	{},
}

var riskNarratives = map[model.RiskLevel]string{
	model.RiskLevelLow:    "stable vitals with good overall health metrics",
	model.RiskLevelMedium: "some concerning trends that warrant monitoring",
	model.RiskLevelHigh:   "several risk factors requiring immediate attention",
}

func severityPtr(s model.Severity) *model.Severity {
	return &s
}
