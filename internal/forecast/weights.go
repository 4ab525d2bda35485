package forecast

import "sync"

// Component names tracked by the adaptive weighting loop.
const (
	ComponentSeasonal = "seasonal"
	ComponentTrend    = "trend"
	ComponentGrowth   = "growth"
	ComponentML       = "ml_prediction"
)

// Error thresholds for the weight feedback loop: components under the good
// threshold gain weight, components over the poor threshold lose it.
const (
	goodErrorThreshold = 0.05
	poorErrorThreshold = 0.15
)

// WeightTracker owns the adaptive confidence weights across forecast
// components. All mutation goes through Update; weights always sum to 1.
// State is in-process only and resets on restart.
type WeightTracker struct {
	mu      sync.Mutex
	weights map[string]float64
}

// NewWeightTracker creates a tracker with the initial component weighting.
func NewWeightTracker() *WeightTracker {
	return &WeightTracker{
		weights: map[string]float64{
			ComponentSeasonal: 0.4,
			ComponentTrend:    0.3,
			ComponentGrowth:   0.2,
			ComponentML:       0.1,
		},
	}
}

// Update nudges component weights by recent error rate: below 5% the weight
// grows 10%, above 15% it shrinks 10%, in between it holds. All weights are
// then renormalized to sum to 1. Unknown component names are ignored.
func (t *WeightTracker) Update(componentErrors map[string]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for component, errRate := range componentErrors {
		w, ok := t.weights[component]
		if !ok {
			continue
		}
		switch {
		case errRate < goodErrorThreshold:
			t.weights[component] = w * 1.1
		case errRate > poorErrorThreshold:
			t.weights[component] = w * 0.9
		}
	}

	total := 0.0
	for _, w := range t.weights {
		total += w
	}
	if total > 0 {
		for component, w := range t.weights {
			t.weights[component] = w / total
		}
	}
}

// Snapshot returns a detached copy of the current weights.
func (t *WeightTracker) Snapshot() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]float64, len(t.weights))
	for component, w := range t.weights {
		out[component] = w
	}
	return out
}
