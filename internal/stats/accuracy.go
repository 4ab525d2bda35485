package stats

import "math"

// Metrics holds the standard forecast accuracy measures. Percentage metrics
// (MAPE, WMAPE, SMAPE) are expressed 0-100.
type Metrics struct {
	MAPE     float64 `json:"mape"`
	MAE      float64 `json:"mae"`
	RMSE     float64 `json:"rmse"`
	WMAPE    float64 `json:"wmape"`
	SMAPE    float64 `json:"smape"`
	RSquared float64 `json:"r_squared"`
}

// Accuracy scores predicted against actual values. Undefined-denominator
// cases (empty input, zero actual sum, zero variance) yield 0 for the
// affected metric rather than an error. Mismatched lengths are truncated
// to the shorter series.
func Accuracy(actual, predicted []float64) Metrics {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return Metrics{}
	}

	var absErrSum, sqErrSum, mapeSum, smapeSum, actualSum float64
	for i := 0; i < n; i++ {
		diff := actual[i] - predicted[i]
		abs := math.Abs(diff)
		absErrSum += abs
		sqErrSum += diff * diff
		actualSum += actual[i]

		denom := math.Abs(actual[i])
		if denom < 1e-10 {
			denom = 1e-10
		}
		mapeSum += abs / denom

		sDenom := math.Abs(actual[i]) + math.Abs(predicted[i])
		if sDenom > 0 {
			smapeSum += 2 * abs / sDenom
		}
	}

	m := Metrics{
		MAPE:  mapeSum / float64(n) * 100,
		MAE:   absErrSum / float64(n),
		RMSE:  math.Sqrt(sqErrSum / float64(n)),
		SMAPE: smapeSum / float64(n) * 100,
	}

	if actualSum != 0 {
		m.WMAPE = absErrSum / actualSum * 100
	}

	actualMean := actualSum / float64(n)
	ssTot := 0.0
	for i := 0; i < n; i++ {
		d := actual[i] - actualMean
		ssTot += d * d
	}
	if ssTot != 0 {
		m.RSquared = 1 - sqErrSum/ssTot
	}

	return m
}

// HorizonThreshold pairs a forecast horizon band with its acceptable MAPE.
type HorizonThreshold struct {
	Name      string  `json:"name"`
	MaxMonths int     `json:"max_months"`
	MAPELimit float64 `json:"mape_limit"`
}

// WithinThreshold classifies a forecast horizon into its threshold band and
// reports whether the achieved MAPE is acceptable for that band. Horizons
// beyond every band fall into the last (longest) one.
func WithinThreshold(m Metrics, horizonMonths int, bands []HorizonThreshold) (HorizonThreshold, bool) {
	if len(bands) == 0 {
		return HorizonThreshold{}, true
	}
	band := bands[len(bands)-1]
	for _, b := range bands {
		if horizonMonths <= b.MaxMonths {
			band = b
			break
		}
	}
	return band, m.MAPE <= band.MAPELimit
}
