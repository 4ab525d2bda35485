// Package forecast projects membership, call volume, and staffing needs for
// a Medicare Advantage contact center from a scenario parameter set and
// historical monthly observations.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"staffcast/internal/cache"
	"staffcast/internal/config"
	"staffcast/internal/history"
	"staffcast/internal/simulation"
	"staffcast/internal/stats"
)

// Engine composes the forecasting models per scenario: decomposition of
// history, anomaly screening, segment-weighted demand, Erlang-C staffing,
// and Monte Carlo uncertainty bands. Safe for concurrent use.
type Engine struct {
	cfg        config.EngineConfig
	store      cache.Store // nil disables caching
	decomposer stats.Decomposer
	detector   stats.AnomalyDetector
	segments   *SegmentMix
	weights    *WeightTracker

	simSeed    int64
	simSeeded  bool
	flight     singleflight.Group
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithCache attaches a cache-aside store for forecast runs and seasonal
// profiles. The engine stays fully functional without one.
func WithCache(store cache.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithDecomposer substitutes the seasonal decomposition strategy.
func WithDecomposer(d stats.Decomposer) Option {
	return func(e *Engine) { e.decomposer = d }
}

// WithAnomalyDetector substitutes the historical anomaly screening strategy.
func WithAnomalyDetector(d stats.AnomalyDetector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithSimulationSeed fixes the Monte Carlo seed for reproducible runs.
func WithSimulationSeed(seed int64) Option {
	return func(e *Engine) {
		e.simSeed = seed
		e.simSeeded = true
	}
}

// NewEngine creates an engine from an explicit configuration value.
func NewEngine(cfg config.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		decomposer: stats.NewClassicalDecomposer(),
		detector:   stats.NewDistanceDetector(),
		segments:   NewSegmentMix(cfg.SegmentCallRates, cfg.DefaultSegmentCallRate),
		weights:    NewWeightTracker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights exposes the adaptive component-weight tracker.
func (e *Engine) Weights() *WeightTracker {
	return e.weights
}

// Generate produces the month-by-month forecast for a scenario. Identical
// scenarios share one in-flight computation and hit the cache afterwards.
// The only fatal failures are parameter validation and context cancellation;
// every other irregularity degrades to a documented default and shows up in
// the run metadata.
func (e *Engine) Generate(ctx context.Context, scenario Scenario, observations []history.Observation) (*Run, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	if scenario.ForecastMonths > e.cfg.MaxForecastMonths {
		return nil, &ValidationError{Err: fmt.Errorf("forecast_months %d exceeds configured maximum %d", scenario.ForecastMonths, e.cfg.MaxForecastMonths)}
	}
	if scenario.MonteCarloIterations > e.cfg.MaxMonteCarloIterations {
		return nil, &ValidationError{Err: fmt.Errorf("monte_carlo_iterations %d exceeds configured maximum %d", scenario.MonteCarloIterations, e.cfg.MaxMonteCarloIterations)}
	}

	fingerprint := scenario.Fingerprint()
	if run, ok := e.cachedRun(ctx, fingerprint); ok {
		log.Info().Str("scenario", scenario.Name).Msg("Returning cached forecast")
		return run, nil
	}

	// Concurrent requests for the same fingerprint share one computation
	v, err, _ := e.flight.Do(fingerprint, func() (any, error) {
		return e.compute(ctx, fingerprint, scenario, observations)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Run), nil
}

func (e *Engine) compute(ctx context.Context, fingerprint string, scenario Scenario, observations []history.Observation) (*Run, error) {
	start := time.Now()

	// Another flight may have finished between the caller's lookup and Do
	if run, ok := e.cachedRun(ctx, fingerprint); ok {
		return run, nil
	}

	anomalies := e.detectAnomalies(observations)
	profile := e.seasonalProfile(ctx, observations)
	base := baseMetrics(observations)

	months := make([]MonthForecast, 0, scenario.ForecastMonths)
	for offset := 1; offset <= scenario.ForecastMonths; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		months = append(months, e.forecastMonth(scenario, base, profile, offset))
	}

	if scenario.MonteCarloIterations > 0 {
		bands := e.runSimulation(scenario, base)
		applyBands(months, bands)
	}

	run := &Run{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Scenario:    scenario,
		Months:      months,
		Metadata: Metadata{
			ComputationSeconds: math.Round(time.Since(start).Seconds()*1000) / 1000,
			AnomalyCount:       len(anomalies.Indices),
			DataQualityScore:   stats.QualityScore(observations),
			ComponentWeights:   e.weights.Snapshot(),
		},
		CreatedAt: time.Now().UTC(),
	}

	// Cache only complete results; a cancelled run must never leave a
	// partial entry behind.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.storeRun(ctx, fingerprint, run)

	log.Info().
		Str("scenario", scenario.Name).
		Int("months", len(run.Months)).
		Float64("seconds", run.Metadata.ComputationSeconds).
		Msg("Forecast generated")
	return run, nil
}

// baseline holds the starting metrics derived from the latest observation,
// or the planning defaults when history is empty.
type baseline struct {
	Members        float64
	CallsPerMember float64
	HandleTime     float64
	GrowthTrend    float64
}

func baseMetrics(observations []history.Observation) baseline {
	if len(observations) == 0 {
		return baseline{
			Members:        10000,
			CallsPerMember: 0.15,
			HandleTime:     6.2,
			GrowthTrend:    0.025,
		}
	}

	latest := observations[len(observations)-1]
	handleTime := latest.AvgHandleTime
	if handleTime <= 0 {
		handleTime = 6.2
	}

	return baseline{
		Members:        latest.TotalMembers,
		CallsPerMember: latest.TotalCalls / math.Max(latest.TotalMembers, 1),
		HandleTime:     handleTime,
		GrowthTrend:    growthTrend(observations),
	}
}

// growthTrend is the mean month-over-month member growth rate, defaulting
// to 2.5% with fewer than three observations.
func growthTrend(observations []history.Observation) float64 {
	if len(observations) < 3 {
		return 0.025
	}

	var rates []float64
	for i := 1; i < len(observations); i++ {
		prev := observations[i-1].TotalMembers
		if prev > 0 {
			rates = append(rates, (observations[i].TotalMembers-prev)/prev)
		}
	}
	if len(rates) == 0 {
		return 0.025
	}
	return stats.Mean(rates)
}

func (e *Engine) forecastMonth(scenario Scenario, base baseline, profile stats.SeasonalProfile, offset int) MonthForecast {
	month := monthFloor(scenario.BaseMonth).AddDate(0, offset, 0)

	growthFactor := math.Pow(1+scenario.MemberGrowthRate/100, float64(offset))
	members := base.Members * growthFactor

	seasonalMultiplier := 1 + profile.Index(month.Month())
	calMultiplier := calendarMultiplier(e.cfg.CalendarPeriods, month.Month())

	distribution := map[string]float64{
		SegmentHighlyEngaged:     members * 0.25,
		SegmentReactiveEngagers:  members * 0.35,
		SegmentContentComplacent: members * 0.25,
		SegmentUnengaged:         members * 0.15,
	}
	callsPerMember := e.segments.CallsPerMember(distribution, scenario.SegmentAdjustments)

	f := scenario.CallVolumeFactors
	totalFactor := f.SeasonalFactor * f.EngagementImpact * f.ProductMixImpact * f.RegulatoryImpact *
		seasonalMultiplier * calMultiplier
	calls := members * callsPerMember * totalFactor

	sp := scenario.StaffingParameters
	req := RequiredAgents(calls, sp.AvgHandleTime, sp.TargetServiceLevel, sp.TargetAnswerTime)

	supervisors := int(float64(req.Agents) * sp.SupervisorRatio)
	if supervisors < 1 {
		supervisors = 1
	}

	return MonthForecast{
		Month:               month.Format("2006-01"),
		PredictedMembers:    int(members),
		PredictedCalls:      int(calls),
		CallsPerMember:      callsPerMember,
		RequiredStaff:       req.Agents,
		RequiredSupervisors: supervisors,
		AgentUtilization:    req.Utilization,
		ServiceLevel:        req.ServiceLevel,
	}
}

// detectAnomalies screens history best-effort: any failure degrades to an
// empty anomaly set.
func (e *Engine) detectAnomalies(observations []history.Observation) stats.AnomalyResult {
	result, err := e.detector.Detect(observations)
	if err != nil {
		log.Warn().Err(err).Msg("Anomaly detection failed, proceeding with zero anomalies")
		return stats.AnomalyResult{}
	}
	return result
}

// seasonalProfile returns the 12-month seasonal index profile for the
// series, cached under its content hash. Short histories yield a flat
// profile rather than a decomposition error.
func (e *Engine) seasonalProfile(ctx context.Context, observations []history.Observation) stats.SeasonalProfile {
	if len(observations) < stats.MinDecompositionPoints {
		return stats.FlatProfile()
	}

	key := cache.SeasonalKey(history.Hash(observations))
	if e.store != nil {
		data, err := e.store.Get(ctx, key)
		switch {
		case err == nil:
			var profile stats.SeasonalProfile
			if json.Unmarshal(data, &profile) == nil && len(profile) == 12 {
				return profile
			}
			log.Warn().Str("key", key).Msg("Discarding malformed cached seasonal profile")
		case !errors.Is(err, cache.ErrNotFound):
			log.Warn().Err(err).Msg("Seasonal cache read failed, recomputing")
		}
	}

	profile := e.decomposer.Decompose(observations).Indices

	if e.store != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := e.store.Set(ctx, key, data, e.cfg.SeasonalCacheTTL); err != nil {
				log.Warn().Err(err).Msg("Seasonal cache write failed")
			}
		}
	}
	return profile
}

func (e *Engine) runSimulation(scenario Scenario, base baseline) simulation.Result {
	sim := simulation.NewEngine()
	if e.simSeeded {
		sim = simulation.NewSeededEngine(e.simSeed)
	}
	return sim.Run(simulation.Inputs{
		ForecastMonths:   scenario.ForecastMonths,
		BaseMembers:      base.Members,
		MemberGrowthRate: scenario.MemberGrowthRate,
		CallsPerMember:   base.CallsPerMember,
		AvgHandleTime:    scenario.StaffingParameters.AvgHandleTime,
		SeasonalFactor:   scenario.CallVolumeFactors.SeasonalFactor,
	}, scenario.MonteCarloIterations)
}

func applyBands(months []MonthForecast, bands simulation.Result) {
	for i := range months {
		if i < len(bands.Members) {
			m, c, s := bands.Members[i], bands.Calls[i], bands.Staff[i]
			months[i].MembersBand = &m
			months[i].CallsBand = &c
			months[i].StaffBand = &s
		}
	}
}

func (e *Engine) cachedRun(ctx context.Context, fingerprint string) (*Run, bool) {
	if e.store == nil {
		return nil, false
	}

	data, err := e.store.Get(ctx, cache.ForecastKey(fingerprint))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warn().Err(err).Msg("Forecast cache read failed, recomputing")
		}
		return nil, false
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		log.Warn().Err(err).Msg("Discarding malformed cached forecast")
		return nil, false
	}
	return &run, true
}

func (e *Engine) storeRun(ctx context.Context, fingerprint string, run *Run) {
	if e.store == nil {
		return
	}

	data, err := json.Marshal(run)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode forecast for caching")
		return
	}
	if err := e.store.Set(ctx, cache.ForecastKey(fingerprint), data, e.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("Forecast cache write failed")
	}
}
