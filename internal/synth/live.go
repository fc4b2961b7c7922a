package synth

import (
	"math"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// Clamp bounds for the live vitals the ticker perturbs
const (
	MinHeartRate = 50
	MaxHeartRate = 120
	MinHRV       = 20
	MaxHRV       = 80
	MinSpO2      = 94
	MaxSpO2      = 100
)

// PerturbLiveMetrics applies one ticker step: heart rate drifts every tick,
// HRV on 10% of ticks, SpO2 on 5% and steps on 30%.
func PerturbLiveMetrics(r *Random, live model.LiveMetrics, now time.Time) model.LiveMetrics {
	live.HeartRate = clamp(live.HeartRate+r.Range(-2, 2), MinHeartRate, MaxHeartRate)

	if r.Bool(0.1) {
		live.HRV = clamp(live.HRV+r.Range(-1, 1), MinHRV, MaxHRV)
	}

	if r.Bool(0.05) {
		live.SpO2 = clamp(live.SpO2+r.Range(-0.2, 0.2), MinSpO2, MaxSpO2)
	}

	if r.Bool(0.3) {
		live.Steps += r.Int(5, 25)
	}

	live.LastUpdated = now
	return live
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
