package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Observation is one month of operational history for a plan's contact center.
type Observation struct {
	Date          time.Time `json:"date"`
	TotalMembers  float64   `json:"total_members"`
	TotalCalls    float64   `json:"total_calls"`
	AvgHandleTime float64   `json:"avg_handle_time"` // minutes
}

// CallsPerMember returns the observed call rate, guarding against zero membership.
func (o Observation) CallsPerMember() float64 {
	if o.TotalMembers < 1 {
		return o.TotalCalls
	}
	return o.TotalCalls / o.TotalMembers
}

// Hash returns a deterministic content hash over the series, used as the
// cache identity for derived seasonal profiles.
func Hash(observations []Observation) string {
	h := sha256.New()
	for _, o := range observations {
		fmt.Fprintf(h, "%s|%g|%g|%g\n", o.Date.Format("2006-01"), o.TotalMembers, o.TotalCalls, o.AvgHandleTime)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CallSeries extracts the monthly call volumes in series order.
func CallSeries(observations []Observation) []float64 {
	series := make([]float64, len(observations))
	for i, o := range observations {
		series[i] = o.TotalCalls
	}
	return series
}
