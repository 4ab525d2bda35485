package stats

import (
	"fmt"
	"math"
	"sort"

	"staffcast/internal/history"
)

// MinAnomalyPoints is the smallest sample that supports anomaly scoring.
const MinAnomalyPoints = 10

// AnomalyResult identifies unusual historical periods.
type AnomalyResult struct {
	Indices []int     `json:"indices"` // positions of flagged observations
	Scores  []float64 `json:"scores"`  // per-observation score, higher is more anomalous
}

// AnomalyDetector flags historical periods whose feature profile deviates
// from the rest of the sample. Detection is best-effort: callers treat any
// error as "no anomalies detected".
type AnomalyDetector interface {
	Detect(observations []history.Observation) (AnomalyResult, error)
}

// DistanceDetector scores observations by their Euclidean distance in a
// z-score normalized feature space and flags the top contamination fraction.
type DistanceDetector struct {
	Contamination float64 // fraction of the sample assumed anomalous
}

// NewDistanceDetector creates a detector with the default 10% contamination.
func NewDistanceDetector() *DistanceDetector {
	return &DistanceDetector{Contamination: 0.1}
}

func (d *DistanceDetector) Detect(observations []history.Observation) (AnomalyResult, error) {
	if len(observations) < MinAnomalyPoints {
		return AnomalyResult{}, nil
	}
	if d.Contamination <= 0 || d.Contamination > 0.5 {
		return AnomalyResult{}, fmt.Errorf("contamination %.2f out of range (0, 0.5]", d.Contamination)
	}

	n := len(observations)

	// TODO: day-of-week is constant on month-granularity data and contributes
	// nothing after normalization; review whether it earns its place here.
	features := [][]float64{
		make([]float64, n), // calls per member
		make([]float64, n), // calendar month
		make([]float64, n), // year
		make([]float64, n), // day of week
	}
	for i, o := range observations {
		features[0][i] = o.CallsPerMember()
		features[1][i] = float64(o.Date.Month())
		features[2][i] = float64(o.Date.Year())
		features[3][i] = float64(o.Date.Weekday())
	}

	// Zero mean, unit variance per feature. Constant columns normalize to 0
	// and drop out of the distance.
	for _, col := range features {
		m := Mean(col)
		sd := StdDev(col)
		for i := range col {
			if sd > 0 {
				col[i] = (col[i] - m) / sd
			} else {
				col[i] = 0
			}
		}
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, col := range features {
			sum += col[i] * col[i]
		}
		scores[i] = math.Sqrt(sum)
	}

	flagCount := int(math.Ceil(d.Contamination * float64(n)))
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	indices := make([]int, 0, flagCount)
	for _, idx := range order[:flagCount] {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	return AnomalyResult{Indices: indices, Scores: scores}, nil
}
