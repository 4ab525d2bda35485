package stats

import (
	"math"
	"reflect"
	"testing"
	"time"

	"staffcast/internal/history"
)

// monthlyObservations builds n consecutive monthly observations starting
// January 2022, with call volumes produced by gen(index, calendarMonth).
func monthlyObservations(n int, gen func(i, month int) float64) []history.Observation {
	observations := make([]history.Observation, n)
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, i, 0)
		observations[i] = history.Observation{
			Date:          date,
			TotalMembers:  10000,
			TotalCalls:    gen(i, int(date.Month())),
			AvgHandleTime: 6.2,
		}
	}
	return observations
}

// zero-sum additive monthly pattern used to synthesize seasonal series
var seasonalPattern = [13]float64{0, 60, -60, 30, -30, 10, -10, 45, -45, 15, -15, 25, -25}

func TestDecompose_RecoversAdditiveSeasonality(t *testing.T) {
	observations := monthlyObservations(36, func(i, month int) float64 {
		return 1000 + 5*float64(i) + seasonalPattern[month]
	})

	d := NewClassicalDecomposer()
	result := d.Decompose(observations)

	if result.Fallback {
		t.Fatal("Expected full decomposition for a 36-month series, got fallback")
	}
	for m := 1; m <= 12; m++ {
		if math.Abs(result.Indices[m]-seasonalPattern[m]) > 1e-6 {
			t.Errorf("Month %d: expected index %f, got %f", m, seasonalPattern[m], result.Indices[m])
		}
	}
	for i, r := range result.Residual {
		if math.Abs(r) > 1e-6 {
			t.Errorf("Expected zero residual at %d for a noiseless series, got %f", i, r)
		}
	}
}

func TestDecompose_ShortSeriesFallsBackFlat(t *testing.T) {
	observations := monthlyObservations(18, func(i, month int) float64 {
		return 1200 + 8*float64(i)
	})

	d := NewClassicalDecomposer()
	result := d.Decompose(observations)

	if !result.Fallback {
		t.Fatal("Expected fallback for an 18-month series")
	}
	for m := 1; m <= 12; m++ {
		if result.Indices[m] != 0 {
			t.Errorf("Month %d: expected flat index 0, got %f", m, result.Indices[m])
		}
	}
	if len(result.Trend) != 18 || len(result.Seasonal) != 18 || len(result.Residual) != 18 {
		t.Errorf("Expected diagnostic arrays of length 18, got %d/%d/%d",
			len(result.Trend), len(result.Seasonal), len(result.Residual))
	}
	// Sawtooth is zero-mean by construction
	sum := 0.0
	for _, s := range result.Seasonal {
		sum += s
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("Expected zero-mean fallback seasonal pattern, sum=%f", sum)
	}
}

func TestDecompose_Deterministic(t *testing.T) {
	observations := monthlyObservations(30, func(i, month int) float64 {
		return 900 + 3*float64(i) + seasonalPattern[month]
	})

	d := NewClassicalDecomposer()
	first := d.Decompose(observations)
	second := d.Decompose(observations)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
}

func TestDecompose_EmptySeries(t *testing.T) {
	d := NewClassicalDecomposer()
	result := d.Decompose(nil)

	if !result.Fallback {
		t.Error("Expected fallback for empty series")
	}
	if len(result.Indices) != 12 {
		t.Errorf("Expected all 12 months in the profile, got %d", len(result.Indices))
	}
}

func TestSeasonalProfile_DefaultsToZero(t *testing.T) {
	p := SeasonalProfile{}
	if got := p.Index(time.October); got != 0 {
		t.Errorf("Expected missing month to default to 0, got %f", got)
	}
}
