package stats

import (
	"math"

	"staffcast/internal/history"
)

// QualityScore rates a historical series between 0 (unusable) and 1 (clean).
// Penalties: missing values (weight 0.3), samples below a year of coverage
// (0.05 per missing month), and extreme per-column outliers beyond the
// 1st/99th percentile (weight 0.1 per column).
func QualityScore(observations []history.Observation) float64 {
	if len(observations) == 0 {
		return 0
	}

	n := len(observations)
	columns := [][]float64{
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
	}
	missing := 0
	for i, o := range observations {
		vals := []float64{o.TotalMembers, o.TotalCalls, o.AvgHandleTime}
		for c, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				missing++
				v = 0
			}
			columns[c][i] = v
		}
	}

	score := 1.0
	score -= float64(missing) / float64(n*len(columns)) * 0.3

	if n < 12 {
		score -= float64(12-n) * 0.05
	}

	for _, col := range columns {
		q01 := Percentile(col, 1)
		q99 := Percentile(col, 99)
		outliers := 0
		for _, v := range col {
			if v > q99 || v < q01 {
				outliers++
			}
		}
		score -= float64(outliers) / float64(n) * 0.1
	}

	return math.Max(0, math.Min(1, score))
}
