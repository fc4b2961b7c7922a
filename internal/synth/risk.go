package synth

import (
	"math"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// RiskLabel buckets an overall score: low up to 33, medium up to 66, high above
func RiskLabel(score int) model.RiskLevel {
	switch {
	case score <= 33:
		return model.RiskLevelLow
	case score <= 66:
		return model.RiskLevelMedium
	default:
		return model.RiskLevelHigh
	}
}

// ComputeRiskScore averages the four factors, rounding halves up
func ComputeRiskScore(factors model.RiskFactors, at time.Time) model.RiskScore {
	sum := factors.HeartRate + factors.HRV + factors.Sleep + factors.Activity
	overall := int(math.Floor(float64(sum)/4 + 0.5))

	return model.RiskScore{
		Overall:        overall,
		Level:          RiskLabel(overall),
		Factors:        factors,
		LastCalculated: at,
	}
}
