package stats

import (
	"math"
	"testing"
)

func TestPercentile_InterpolatesBetweenRanks(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	if got := Percentile(values, 0); got != 1 {
		t.Errorf("Expected P0 to be 1, got %f", got)
	}
	if got := Percentile(values, 100); got != 10 {
		t.Errorf("Expected P100 to be 10, got %f", got)
	}
	if got := Percentile(values, 50); got != 5.5 {
		t.Errorf("Expected P50 to be 5.5, got %f", got)
	}
	if got := Percentile(values, 90); math.Abs(got-9.1) > 1e-9 {
		t.Errorf("Expected P90 to be 9.1, got %f", got)
	}
}

func TestPercentile_Empty(t *testing.T) {
	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 50)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Percentile mutated its input: %v", values)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Errorf("Expected odd-length median 3, got %f", got)
	}
	if got := Median([]float64{4, 1, 2, 3}); got != 2.5 {
		t.Errorf("Expected even-length median 2.5, got %f", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
}

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(values); got != 5 {
		t.Errorf("Expected mean 5, got %f", got)
	}
	if got := StdDev(values); got != 2 {
		t.Errorf("Expected stddev 2, got %f", got)
	}
	if got := StdDev([]float64{3, 3, 3}); got != 0 {
		t.Errorf("Expected stddev 0 for constant series, got %f", got)
	}
}
