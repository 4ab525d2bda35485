package forecast

import (
	"time"

	"staffcast/internal/config"
)

// calendarMultiplier looks up the Medicare calendar call multiplier for a
// month. Months outside every named period carry a neutral 1.0.
func calendarMultiplier(periods []config.CalendarPeriod, month time.Month) float64 {
	for _, p := range periods {
		for _, m := range p.Months {
			if m == int(month) {
				return p.CallMultiplier
			}
		}
	}
	return 1.0
}
