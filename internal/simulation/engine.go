// Package simulation quantifies forecast uncertainty by re-running a
// simplified monthly projection under randomized parameter perturbations
// and reducing the trajectories to per-month percentile bands.
package simulation

import (
	"math"
	"math/rand"
	"time"

	"staffcast/internal/stats"
)

// Inputs describes the simplified single-path projector: compounding member
// growth, a constant calls-per-member rate, and a coarse staff estimate.
type Inputs struct {
	ForecastMonths   int
	BaseMembers      float64
	MemberGrowthRate float64 // monthly %, before noise
	CallsPerMember   float64
	AvgHandleTime    float64 // minutes
	SeasonalFactor   float64
}

// Band holds the percentile spread for a single month of a single metric.
type Band struct {
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
}

// Result holds per-month bands for each projected metric, indexed by month
// offset (element 0 is the first forecast month).
type Result struct {
	Members []Band `json:"predicted_members"`
	Calls   []Band `json:"predicted_calls"`
	Staff   []Band `json:"required_staff"`
}

// Noise scales for the per-trial perturbations.
const (
	growthNoiseStdDev     = 0.5  // percentage points on the monthly growth rate
	seasonalNoiseStdDev   = 0.1  // multiplicative, centered on 1
	handleTimeNoiseStdDev = 0.05 // multiplicative, centered on 1
)

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine with a time-based seed.
func NewEngine() *Engine {
	return NewSeededEngine(time.Now().UnixNano())
}

// NewSeededEngine creates an engine with a fixed seed for reproducible runs.
func NewSeededEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// Run performs the requested number of perturbed projections and reduces
// them to percentile bands per month and metric.
func (e *Engine) Run(in Inputs, iterations int) Result {
	if iterations <= 0 || in.ForecastMonths <= 0 {
		return Result{}
	}

	months := in.ForecastMonths
	memberSamples := newSampleGrid(months, iterations)
	callSamples := newSampleGrid(months, iterations)
	staffSamples := newSampleGrid(months, iterations)

	for i := 0; i < iterations; i++ {
		growth := in.MemberGrowthRate + e.rng.NormFloat64()*growthNoiseStdDev
		seasonal := in.SeasonalFactor * (1 + e.rng.NormFloat64()*seasonalNoiseStdDev)
		handleTime := in.AvgHandleTime * (1 + e.rng.NormFloat64()*handleTimeNoiseStdDev)

		for m := 0; m < months; m++ {
			members := in.BaseMembers * math.Pow(1+growth/100, float64(m+1))
			calls := members * in.CallsPerMember * seasonal
			staff := math.Max(1, math.Floor(calls*handleTime/8000))

			memberSamples[m][i] = members
			callSamples[m][i] = calls
			staffSamples[m][i] = staff
		}
	}

	return Result{
		Members: reduceToBands(memberSamples),
		Calls:   reduceToBands(callSamples),
		Staff:   reduceToBands(staffSamples),
	}
}

func newSampleGrid(months, iterations int) [][]float64 {
	grid := make([][]float64, months)
	for m := range grid {
		grid[m] = make([]float64, iterations)
	}
	return grid
}

// reduceToBands computes the band for each month from its full sample.
// Applying the percentile function to one shared sample guarantees
// p10 <= p25 <= median <= p75 <= p90.
func reduceToBands(samples [][]float64) []Band {
	bands := make([]Band, len(samples))
	for m, sample := range samples {
		bands[m] = Band{
			P10:    stats.Percentile(sample, 10),
			P25:    stats.Percentile(sample, 25),
			Median: stats.Percentile(sample, 50),
			P75:    stats.Percentile(sample, 75),
			P90:    stats.Percentile(sample, 90),
		}
	}
	return bands
}
