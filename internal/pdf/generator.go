package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders patient summary reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// MedicationLine is a medication with its seven-day adherence
type MedicationLine struct {
	Medication    model.Medication
	AdherenceRate int
}

// ReportData contains all data needed for report generation. Empty
// sections are rendered with a placeholder line.
type ReportData struct {
	PatientName string
	Age         int
	GeneratedBy string
	GeneratedAt time.Time
	RiskScore   model.RiskScore
	KeyMetrics  model.KeyMetrics
	Flags       []string
	Summary     string
	Alerts      []model.PatientAlert
	Medications []MedicationLine
	Advice      []model.AdviceItem
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("report data is required")
	}
	g.logger.Info("generating PDF report",
		zap.String("patient_name", data.PatientName),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.addTitle(pdf, data)
	g.addRiskSection(pdf, data.RiskScore)
	g.addKeyMetrics(pdf, data.KeyMetrics)
	g.addClinicalSummary(pdf, data.Summary, data.Flags)
	g.addAlerts(pdf, data.Alerts)
	g.addMedicationList(pdf, data.Medications)
	g.addAdvice(pdf, data.Advice)
	g.addDisclaimer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, data *ReportData) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "HOPE Patient Summary", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	generatedAt := data.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Patient: %s", data.PatientName), "", 1, "L", false, 0, "")
	if data.Age > 0 {
		pdf.CellFormat(0, 8, fmt.Sprintf("Age: %d", data.Age), "", 1, "L", false, 0, "")
	}
	if data.GeneratedBy != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Exported by: %s", data.GeneratedBy), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addRiskSection(pdf *gofpdf.Fpdf, risk model.RiskScore) {
	g.addSectionHeader(pdf, "Risk Score")

	if risk.Level == "" {
		pdf.CellFormat(0, 8, "No risk score calculated.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Overall: %d (%s)", risk.Overall, risk.Level), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("  Heart rate: %d", risk.Factors.HeartRate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  HRV: %d", risk.Factors.HRV), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  Sleep: %d", risk.Factors.Sleep), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("  Activity: %d", risk.Factors.Activity), "", 1, "L", false, 0, "")
	if !risk.LastCalculated.IsZero() {
		pdf.CellFormat(0, 5, fmt.Sprintf("  Calculated: %s", risk.LastCalculated.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addKeyMetrics(pdf *gofpdf.Fpdf, metrics model.KeyMetrics) {
	g.addSectionHeader(pdf, "Key Metrics")

	rows := [][2]string{
		{"Resting heart rate", fmt.Sprintf("%d bpm", metrics.RestingHR)},
		{"Heart rate variability", fmt.Sprintf("%d ms", metrics.HRV)},
		{"SpO2", fmt.Sprintf("%.1f%%", metrics.SpO2)},
		{"Sleep score", fmt.Sprintf("%d", metrics.SleepScore)},
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Value", "1", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(70, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addClinicalSummary(pdf *gofpdf.Fpdf, summary string, flags []string) {
	g.addSectionHeader(pdf, "Clinical Summary")

	if summary == "" {
		pdf.CellFormat(0, 8, "No summary available.", "", 1, "L", false, 0, "")
	} else {
		pdf.MultiCell(0, 5, summary, "", "L", false)
	}

	if len(flags) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Flags", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, flag := range flags {
			pdf.CellFormat(0, 5, fmt.Sprintf("  - %s", flag), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addAlerts(pdf *gofpdf.Fpdf, alerts []model.PatientAlert) {
	g.addSectionHeader(pdf, "Alerts")

	if len(alerts) == 0 {
		pdf.CellFormat(0, 8, "No alerts recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	sorted := make([]model.PatientAlert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	for _, alert := range sorted {
		status := "open"
		switch {
		case alert.Resolved != nil:
			status = "resolved"
		case alert.Acknowledged != nil:
			status = "acknowledged"
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s [%s, %s]", alert.Message, alert.Severity, status), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Value %.1f against threshold %.1f on %s",
			alert.Value, alert.Threshold, alert.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	pdf.Ln(3)
}

// addMedicationList adds medication list section
func (g *PDFGenerator) addMedicationList(pdf *gofpdf.Fpdf, medications []MedicationLine) {
	g.addSectionHeader(pdf, "Medication List")

	if len(medications) == 0 {
		pdf.CellFormat(0, 8, "No medications recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, line := range medications {
		med := line.Medication
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, med.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Dosage: %s", med.Dosage), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Frequency: %s", med.Frequency), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Start Date: %s", med.StartDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
		if med.EndDate != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  End Date: %s", med.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("  7-day adherence: %d%%", line.AdherenceRate), "", 1, "L", false, 0, "")
		if med.Notes != nil && *med.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", *med.Notes), "", 1, "L", false, 0, "")
		}
		if n := len(med.ConsultationHistory); n > 0 {
			last := med.ConsultationHistory[n-1]
			pdf.CellFormat(0, 5, fmt.Sprintf("  Last consultation: %s (%s)",
				last.Recommendation, last.Timestamp.Format("2006-01-02")), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addAdvice(pdf *gofpdf.Fpdf, advice []model.AdviceItem) {
	g.addSectionHeader(pdf, "Advice")

	if len(advice) == 0 {
		pdf.CellFormat(0, 8, "No advice recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, item := range advice {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s [%s]", item.Summary, item.ApprovalStatus), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, item.Text, "", "L", false)
		pdf.Ln(2)
	}
	pdf.Ln(3)
}

func (g *PDFGenerator) addDisclaimer(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, "Synthetic demonstration data. Not for clinical use.", "", "C", false)
}
