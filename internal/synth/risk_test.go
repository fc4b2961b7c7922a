package synth

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

func TestRiskLabel_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskLevel
	}{
		{0, model.RiskLevelLow},
		{33, model.RiskLevelLow},
		{34, model.RiskLevelMedium},
		{66, model.RiskLevelMedium},
		{67, model.RiskLevelHigh},
		{100, model.RiskLevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLabel(tt.score), "score %d", tt.score)
	}
}

func TestComputeRiskScore_RoundsHalfUp(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	score := ComputeRiskScore(model.RiskFactors{HeartRate: 80, HRV: 40, Sleep: 70, Activity: 60}, at)

	assert.Equal(t, 63, score.Overall)
	assert.Equal(t, model.RiskLevelMedium, score.Level)
	assert.Equal(t, at, score.LastCalculated)
}

func TestCreateRiskScore_ReproducibleForDefaultSeed(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	score := New(DefaultSeed, now).CreateRiskScore()

	assert.Equal(t, model.RiskFactors{HeartRate: 47, HRV: 15, Sleep: 48, Activity: 41}, score.Factors)
	assert.Equal(t, 38, score.Overall)
	assert.Equal(t, model.RiskLevelMedium, score.Level)
	assert.Equal(t, score, New(DefaultSeed, now).CreateRiskScore())
}

// Feature: risk scoring, Property 3: overall score stays in range and matches its label
func TestProperty_RiskScoreBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("overall in [0,100] and label follows the inclusive buckets", prop.ForAll(
		func(hr, hrv, sleep, activity int) bool {
			score := ComputeRiskScore(model.RiskFactors{HeartRate: hr, HRV: hrv, Sleep: sleep, Activity: activity}, time.Time{})
			if score.Overall < 0 || score.Overall > 100 {
				return false
			}
			switch {
			case score.Overall <= 33:
				return score.Level == model.RiskLevelLow
			case score.Overall <= 66:
				return score.Level == model.RiskLevelMedium
			default:
				return score.Level == model.RiskLevelHigh
			}
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
