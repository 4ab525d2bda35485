package stats

import (
	"time"

	"staffcast/internal/history"
)

// MinDecompositionPoints is the smallest series that supports a full
// period-12 additive decomposition (two complete seasonal cycles).
const MinDecompositionPoints = 24

// SeasonalProfile maps calendar month (1-12) to an additive seasonal index.
// All 12 months are always present; months without data carry index 0.
type SeasonalProfile map[int]float64

// FlatProfile returns a profile with all 12 indices set to 0.
func FlatProfile() SeasonalProfile {
	p := make(SeasonalProfile, 12)
	for m := 1; m <= 12; m++ {
		p[m] = 0
	}
	return p
}

// Index returns the seasonal index for a calendar month, defaulting to 0.
func (p SeasonalProfile) Index(month time.Month) float64 {
	return p[int(month)]
}

// Decomposition holds the additive split observed = trend + seasonal + residual
// plus the per-month seasonal index profile derived from it.
type Decomposition struct {
	Trend    []float64       `json:"trend"`
	Seasonal []float64       `json:"seasonal"`
	Residual []float64       `json:"residual"`
	Indices  SeasonalProfile `json:"seasonal_indices"`
	Fallback bool            `json:"fallback"`
}

// Decomposer splits an ordered monthly series into trend, seasonal, and
// residual components. Implementations are pure: identical input yields
// identical output.
type Decomposer interface {
	Decompose(observations []history.Observation) Decomposition
}

// ClassicalDecomposer implements additive decomposition with a centered
// 2x12 moving-average trend. Series shorter than MinDecompositionPoints
// degrade to a synthetic low-amplitude pattern with zero seasonal indices.
type ClassicalDecomposer struct{}

// NewClassicalDecomposer creates the default call-volume decomposer.
func NewClassicalDecomposer() *ClassicalDecomposer {
	return &ClassicalDecomposer{}
}

func (d *ClassicalDecomposer) Decompose(observations []history.Observation) Decomposition {
	values := history.CallSeries(observations)
	if len(values) < MinDecompositionPoints {
		return syntheticPattern(values)
	}

	n := len(values)
	trend := centeredTrend(values)

	// Seasonal indices: mean detrended value per calendar month, centered to
	// zero so the indices carry no trend information.
	monthSums := make(map[int]float64)
	monthCounts := make(map[int]int)
	for i, o := range observations {
		m := int(o.Date.Month())
		monthSums[m] += values[i] - trend[i]
		monthCounts[m]++
	}

	indices := FlatProfile()
	total := 0.0
	present := 0
	for m := 1; m <= 12; m++ {
		if monthCounts[m] > 0 {
			indices[m] = monthSums[m] / float64(monthCounts[m])
			total += indices[m]
			present++
		}
	}
	if present > 0 {
		center := total / float64(present)
		for m := 1; m <= 12; m++ {
			if monthCounts[m] > 0 {
				indices[m] -= center
			}
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, o := range observations {
		seasonal[i] = indices[int(o.Date.Month())]
		residual[i] = values[i] - trend[i] - seasonal[i]
	}

	return Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Indices:  indices,
	}
}

// centeredTrend computes the 2x12 centered moving average and extends it
// linearly at both ends so every point carries a trend estimate.
func centeredTrend(values []float64) []float64 {
	n := len(values)
	trend := make([]float64, n)

	first, last := 6, n-7
	for i := first; i <= last; i++ {
		sum := 0.5*values[i-6] + 0.5*values[i+6]
		for j := i - 5; j <= i+5; j++ {
			sum += values[j]
		}
		trend[i] = sum / 12
	}

	// Linear extension using the slope at the nearest valid edge
	headSlope := trend[first+1] - trend[first]
	for i := first - 1; i >= 0; i-- {
		trend[i] = trend[i+1] - headSlope
	}
	tailSlope := trend[last] - trend[last-1]
	for i := last + 1; i < n; i++ {
		trend[i] = trend[i-1] + tailSlope
	}

	return trend
}

// syntheticPattern is the short-series fallback: a zero-mean sawtooth with
// fixed 0.1 amplitude scale, a linear trend between the series endpoints,
// and flat (zero) seasonal indices.
func syntheticPattern(values []float64) Decomposition {
	n := len(values)
	if n == 0 {
		return Decomposition{Indices: FlatProfile(), Fallback: true}
	}

	seasonal := make([]float64, n)
	mean := 0.0
	for i := 0; i < n; i++ {
		seasonal[i] = float64(i % 12)
		mean += seasonal[i]
	}
	mean /= float64(n)
	for i := range seasonal {
		seasonal[i] = (seasonal[i] - mean) * 0.1
	}

	trend := make([]float64, n)
	step := 0.0
	if n > 1 {
		step = (values[n-1] - values[0]) / float64(n-1)
	}
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		trend[i] = values[0] + step*float64(i)
		residual[i] = values[i] - trend[i] - seasonal[i]
	}

	return Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Indices:  FlatProfile(),
		Fallback: true,
	}
}
