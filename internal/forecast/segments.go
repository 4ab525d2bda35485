package forecast

// SegmentMix blends per-segment call rates into a single calls-per-member
// figure, weighted by each segment's share of total membership.
type SegmentMix struct {
	rates       map[string]float64 // per 1000 members
	defaultRate float64
}

// NewSegmentMix creates a mix model over the configured rate table.
// Segments missing from the table use defaultRate.
func NewSegmentMix(rates map[string]float64, defaultRate float64) *SegmentMix {
	return &SegmentMix{rates: rates, defaultRate: defaultRate}
}

// CallsPerMember computes the blended call rate for a member distribution
// (segment name -> member count) after applying percentage adjustments.
// Returns 0 for an empty membership.
func (s *SegmentMix) CallsPerMember(distribution map[string]float64, adjustments SegmentAdjustments) float64 {
	total := 0.0
	for _, members := range distribution {
		total += members
	}
	if total == 0 {
		return 0
	}

	adjustmentMap := adjustments.byName()

	weighted := 0.0
	for segment, members := range distribution {
		base := s.defaultRate
		if rate, ok := s.rates[segment]; ok {
			base = rate
		}
		adjusted := base * (1 + adjustmentMap[segment]/100)
		weighted += adjusted * members / total
	}

	// Rates are per 1000 members
	return weighted / 1000
}
