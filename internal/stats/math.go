package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	if p <= 0 {
		return temp[0]
	}
	if p >= 100 {
		return temp[len(temp)-1]
	}

	rank := p / 100 * float64(len(temp)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return temp[lo]
	}
	frac := rank - float64(lo)
	return temp[lo] + (temp[hi]-temp[lo])*frac
}

// Median finds the median value in a slice of floats.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}
