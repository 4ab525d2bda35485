package forecast

import "math"

// StaffRequirement is the Erlang-C sizing output for a single month.
type StaffRequirement struct {
	Agents       int
	Utilization  float64
	ServiceLevel float64
}

// maxAgentSearchSteps bounds the incremental search. If the target service
// level is unreachable within the cap, the best agent count found is
// returned with its achieved level instead of failing.
const maxAgentSearchSteps = 100

// RequiredAgents finds the minimum agent count that answers the target share
// of calls within the target time. callVolume is calls per hour,
// avgHandleTime is in minutes, targetAnswerTime in seconds.
//
// The search is deterministic: identical inputs always return the same count.
func RequiredAgents(callVolume, avgHandleTime, targetServiceLevel float64, targetAnswerTime int) StaffRequirement {
	if callVolume <= 0 || avgHandleTime <= 0 {
		return StaffRequirement{}
	}

	// Offered traffic in Erlangs
	traffic := callVolume * avgHandleTime / 60
	if traffic <= 0 {
		return StaffRequirement{Agents: 1, ServiceLevel: 1}
	}

	// Stability requires more agents than Erlangs of traffic
	agents := int(math.Ceil(traffic))
	if agents < 1 {
		agents = 1
	}
	for float64(agents) <= traffic {
		agents++
	}

	answerTimeMin := float64(targetAnswerTime) / 60
	achieved := waitProbability(agents, traffic, answerTimeMin, avgHandleTime)
	for step := 0; step < maxAgentSearchSteps && achieved < targetServiceLevel; step++ {
		agents++
		achieved = waitProbability(agents, traffic, answerTimeMin, avgHandleTime)
	}

	return StaffRequirement{
		Agents:       agents,
		Utilization:  traffic / float64(agents),
		ServiceLevel: achieved,
	}
}

// waitProbability is P(wait <= answerTime) for the given staffing level.
func waitProbability(agents int, traffic, answerTimeMin, avgHandleTime float64) float64 {
	pQueue := erlangC(agents, traffic)
	return 1 - pQueue*math.Exp(-(float64(agents)-traffic)*answerTimeMin/avgHandleTime)
}

// erlangC returns the probability an arriving call has to queue. Computed
// through the Erlang-B recurrence, which stays inside float range at any
// realistic agent count; the direct factorial form overflows past ~170
// agents.
func erlangC(agents int, traffic float64) float64 {
	b := 1.0
	for k := 1; k <= agents; k++ {
		b = traffic * b / (float64(k) + traffic*b)
	}

	denom := float64(agents) - traffic*(1-b)
	if denom <= 0 {
		return 1
	}
	return float64(agents) * b / denom
}
