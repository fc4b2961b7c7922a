package synth

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTimeSeries_InclusiveEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * day)

	points := GenerateTimeSeries(NewRandom(DefaultSeed), start, end, day, 45, 8, 0)

	require.Len(t, points, 8)
	assert.Equal(t, start, points[0].Timestamp)
	assert.Equal(t, end, points[7].Timestamp)
}

func TestGenerateTimeSeries_EmptyWhenStartAfterEnd(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	points := GenerateTimeSeries(NewRandom(DefaultSeed), start, start.Add(-time.Hour), time.Minute, 10, 1, 0)

	assert.Empty(t, points)
}

func TestGenerateTimeSeries_ClampsAtZero(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	points := GenerateTimeSeries(NewRandom(DefaultSeed), start, start.Add(time.Hour), time.Minute, 0, 1, -5)

	for _, p := range points {
		assert.Equal(t, 0.0, p.Value)
	}
}

// Feature: seeded generator, Property 2: time series are monotonic, evenly spaced and non-negative
func TestProperty_TimeSeriesShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	properties.Property("timestamps step by exactly the interval and values stay >= 0", prop.ForAll(
		func(seed int64, steps int, intervalMinutes int, base float64, variance float64, drift float64) bool {
			interval := time.Duration(intervalMinutes) * time.Minute
			end := start.Add(time.Duration(steps) * interval)
			points := GenerateTimeSeries(NewRandom(seed), start, end, interval, base, variance, drift)

			if len(points) != steps+1 {
				return false
			}
			for i, p := range points {
				if p.Value < 0 {
					return false
				}
				if p.Confidence == nil || *p.Confidence < 0.8 || *p.Confidence >= 0.98 {
					return false
				}
				if i > 0 && p.Timestamp.Sub(points[i-1].Timestamp) != interval {
					return false
				}
			}
			return true
		},
		gen.Int64Range(0, 1<<32),
		gen.IntRange(0, 200),
		gen.IntRange(1, 1440),
		gen.Float64Range(0, 10000),
		gen.Float64Range(0, 3000),
		gen.Float64Range(-50, 50),
	))

	properties.TestingRun(t)
}
