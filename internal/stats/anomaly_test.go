package stats

import (
	"testing"
	"time"
)

func TestDetect_SmallSampleReturnsEmpty(t *testing.T) {
	observations := monthlyObservations(9, func(i, month int) float64 {
		return 1500
	})

	d := NewDistanceDetector()
	result, err := d.Detect(observations)
	if err != nil {
		t.Fatalf("Expected no error for small sample, got %v", err)
	}
	if len(result.Indices) != 0 || len(result.Scores) != 0 {
		t.Errorf("Expected empty result below the minimum sample, got %+v", result)
	}
}

func TestDetect_FlagsCallRateSpikes(t *testing.T) {
	observations := monthlyObservations(24, func(i, month int) float64 {
		if i == 5 || i == 17 {
			return 6000 // spike: 0.6 calls per member
		}
		return 1500 // steady 0.15 calls per member
	})

	d := NewDistanceDetector()
	result, err := d.Detect(observations)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(result.Scores) != 24 {
		t.Fatalf("Expected one score per observation, got %d", len(result.Scores))
	}
	// 10% contamination of 24 observations flags 3
	if len(result.Indices) != 3 {
		t.Errorf("Expected 3 flagged observations, got %d", len(result.Indices))
	}

	flagged := make(map[int]bool)
	for _, idx := range result.Indices {
		flagged[idx] = true
	}
	if !flagged[5] || !flagged[17] {
		t.Errorf("Expected spike months 5 and 17 to be flagged, got %v", result.Indices)
	}
	if result.Scores[5] <= result.Scores[4] {
		t.Errorf("Expected spike score %f to exceed neighbor score %f", result.Scores[5], result.Scores[4])
	}
}

func TestDetect_InvalidContamination(t *testing.T) {
	observations := monthlyObservations(12, func(i, month int) float64 {
		return 1500
	})

	d := &DistanceDetector{Contamination: 0.9}
	if _, err := d.Detect(observations); err == nil {
		t.Error("Expected error for contamination outside (0, 0.5]")
	}
}

func TestDetect_ConstantFeaturesDoNotPanic(t *testing.T) {
	// All observations identical: every feature column has zero variance
	observations := monthlyObservations(12, func(i, month int) float64 {
		return 1500
	})
	for i := range observations {
		observations[i].Date = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	}

	d := NewDistanceDetector()
	result, err := d.Detect(observations)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for i, s := range result.Scores {
		if s != 0 {
			t.Errorf("Expected zero score for constant features at %d, got %f", i, s)
		}
	}
}
