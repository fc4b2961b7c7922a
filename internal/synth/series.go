package synth

import (
	"math"
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// GenerateTimeSeries walks from start to end (inclusive) in fixed steps. Each
// value is the previous value plus Range(-variance, variance) plus drift,
// clamped at zero and rounded to two decimals. Every point consumes two draws
// from r: the step, then the confidence.
func GenerateTimeSeries(r *Random, start, end time.Time, interval time.Duration, base, variance, drift float64) []model.MetricPoint {
	if interval <= 0 {
		panic("synth: time series interval must be positive")
	}

	var points []model.MetricPoint
	value := base
	for t := start; !t.After(end); t = t.Add(interval) {
		value += r.Range(-variance, variance) + drift
		value = math.Max(0, value)

		confidence := r.Range(0.8, 0.98)
		points = append(points, model.MetricPoint{
			Timestamp:  t,
			Value:      round(value, 2),
			Confidence: &confidence,
		})
	}
	return points
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
