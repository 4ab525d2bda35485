package forecast

import (
	"math"
	"testing"
)

func weightSum(w map[string]float64) float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

func TestWeightTracker_InitialWeightsSumToOne(t *testing.T) {
	tracker := NewWeightTracker()
	if sum := weightSum(tracker.Snapshot()); math.Abs(sum-1) > 1e-9 {
		t.Errorf("Expected initial weights to sum to 1, got %f", sum)
	}
}

func TestWeightTracker_SumInvariantAfterUpdates(t *testing.T) {
	tracker := NewWeightTracker()

	updates := []map[string]float64{
		{ComponentSeasonal: 0.01, ComponentTrend: 0.2},
		{ComponentGrowth: 0.5, ComponentML: 0.02},
		{ComponentSeasonal: 0.1, ComponentTrend: 0.1, ComponentGrowth: 0.1, ComponentML: 0.1},
		{ComponentSeasonal: 0.04},
	}
	for _, u := range updates {
		tracker.Update(u)
		if sum := weightSum(tracker.Snapshot()); math.Abs(sum-1) > 1e-9 {
			t.Errorf("Weights sum %f after update %v", sum, u)
		}
	}
}

func TestWeightTracker_GoodComponentGainsShare(t *testing.T) {
	tracker := NewWeightTracker()
	before := tracker.Snapshot()

	tracker.Update(map[string]float64{ComponentSeasonal: 0.01})

	after := tracker.Snapshot()
	if after[ComponentSeasonal] <= before[ComponentSeasonal] {
		t.Errorf("Expected seasonal share to grow: %f -> %f", before[ComponentSeasonal], after[ComponentSeasonal])
	}
	if after[ComponentTrend] >= before[ComponentTrend] {
		t.Errorf("Expected trend share to shrink after renormalization: %f -> %f", before[ComponentTrend], after[ComponentTrend])
	}
}

func TestWeightTracker_PoorComponentLosesShare(t *testing.T) {
	tracker := NewWeightTracker()
	before := tracker.Snapshot()

	tracker.Update(map[string]float64{ComponentML: 0.4})

	after := tracker.Snapshot()
	if after[ComponentML] >= before[ComponentML] {
		t.Errorf("Expected ml share to shrink: %f -> %f", before[ComponentML], after[ComponentML])
	}
}

func TestWeightTracker_NeutralErrorHolds(t *testing.T) {
	tracker := NewWeightTracker()
	before := tracker.Snapshot()

	tracker.Update(map[string]float64{
		ComponentSeasonal: 0.1,
		ComponentTrend:    0.1,
		ComponentGrowth:   0.1,
		ComponentML:       0.1,
	})

	after := tracker.Snapshot()
	for component, w := range before {
		if math.Abs(after[component]-w) > 1e-9 {
			t.Errorf("%s: expected unchanged weight %f, got %f", component, w, after[component])
		}
	}
}

func TestWeightTracker_UnknownComponentIgnored(t *testing.T) {
	tracker := NewWeightTracker()
	tracker.Update(map[string]float64{"lunar_phase": 0.01})

	after := tracker.Snapshot()
	if len(after) != 4 {
		t.Errorf("Expected 4 tracked components, got %d", len(after))
	}
	if math.Abs(weightSum(after)-1) > 1e-9 {
		t.Errorf("Weights sum %f after unknown-component update", weightSum(after))
	}
}

func TestWeightTracker_SnapshotIsDetached(t *testing.T) {
	tracker := NewWeightTracker()
	snap := tracker.Snapshot()
	snap[ComponentSeasonal] = 99

	if tracker.Snapshot()[ComponentSeasonal] == 99 {
		t.Error("Snapshot mutation leaked into tracker state")
	}
}
