package forecast

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a scenario parameter outside its allowed bounds.
// Out-of-range values are rejected outright, never clamped. This is the only
// failure class that aborts a forecast request.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Segment names used across the engine. The rate table in the configuration
// is keyed by these.
const (
	SegmentHighlyEngaged     = "Highly Engaged"
	SegmentReactiveEngagers  = "Reactive Engagers"
	SegmentContentComplacent = "Content & Complacent"
	SegmentUnengaged         = "Unengaged"
)

// SegmentAdjustments are percentage deltas applied to each segment's base
// call rate.
type SegmentAdjustments struct {
	HighlyEngaged     float64 `json:"highly_engaged" validate:"gte=-50,lte=100"`
	ReactiveEngagers  float64 `json:"reactive_engagers" validate:"gte=-50,lte=100"`
	ContentComplacent float64 `json:"content_complacent" validate:"gte=-50,lte=100"`
	Unengaged         float64 `json:"unengaged" validate:"gte=-50,lte=100"`
}

func (a SegmentAdjustments) byName() map[string]float64 {
	return map[string]float64{
		SegmentHighlyEngaged:     a.HighlyEngaged,
		SegmentReactiveEngagers:  a.ReactiveEngagers,
		SegmentContentComplacent: a.ContentComplacent,
		SegmentUnengaged:         a.Unengaged,
	}
}

// CallVolumeFactors are independent multiplicative adjustments to projected
// call volume.
type CallVolumeFactors struct {
	SeasonalFactor   float64 `json:"seasonal_factor" validate:"gte=0.1,lte=3"`
	EngagementImpact float64 `json:"engagement_impact" validate:"gte=0.1,lte=3"`
	ProductMixImpact float64 `json:"product_mix_impact" validate:"gte=0.1,lte=3"`
	RegulatoryImpact float64 `json:"regulatory_impact" validate:"gte=0.1,lte=3"`
}

// StaffingParameters drive the Erlang-C staffing calculation.
type StaffingParameters struct {
	AvgHandleTime      float64 `json:"avg_handle_time" validate:"gte=1,lte=20"` // minutes
	HoursPerAgent      int     `json:"hours_per_agent" validate:"gte=80,lte=200"`
	UtilizationTarget  float64 `json:"utilization_target" validate:"gte=0.5,lte=0.95"`
	SupervisorRatio    float64 `json:"supervisor_ratio" validate:"gte=0.05,lte=0.25"`
	TargetServiceLevel float64 `json:"target_service_level" validate:"gte=0.5,lte=0.99"`
	TargetAnswerTime   int     `json:"target_answer_time" validate:"gte=5,lte=60"` // seconds
}

// Scenario is the immutable parameter set for one forecast request.
type Scenario struct {
	Name                 string             `json:"name" validate:"required,max=255"`
	Description          string             `json:"description,omitempty" validate:"max=1000"`
	BaseMonth            time.Time          `json:"base_month" validate:"required"`
	ForecastMonths       int                `json:"forecast_months" validate:"gte=1,lte=24"`
	MemberGrowthRate     float64            `json:"member_growth_rate" validate:"gte=-10,lte=20"` // monthly %
	SegmentAdjustments   SegmentAdjustments `json:"segment_adjustments"`
	CallVolumeFactors    CallVolumeFactors  `json:"call_volume_factors"`
	StaffingParameters   StaffingParameters `json:"staffing_parameters"`
	MonteCarloIterations int                `json:"monte_carlo_iterations" validate:"gte=0,lte=10000"` // 0 disables bands
	ConfidenceLevel      float64            `json:"confidence_level" validate:"gte=0.8,lte=0.99"`
}

var validate = validator.New()

// DefaultScenario returns a scenario with the standard planning defaults
// anchored at the given base month.
func DefaultScenario(name string, baseMonth time.Time) Scenario {
	return Scenario{
		Name:             name,
		BaseMonth:        monthFloor(baseMonth),
		ForecastMonths:   12,
		MemberGrowthRate: 2.5,
		CallVolumeFactors: CallVolumeFactors{
			SeasonalFactor:   1.0,
			EngagementImpact: 1.0,
			ProductMixImpact: 1.0,
			RegulatoryImpact: 1.0,
		},
		StaffingParameters: StaffingParameters{
			AvgHandleTime:      6.2,
			HoursPerAgent:      160,
			UtilizationTarget:  0.85,
			SupervisorRatio:    0.12,
			TargetServiceLevel: 0.8,
			TargetAnswerTime:   20,
		},
		MonteCarloIterations: 1000,
		ConfidenceLevel:      0.9,
	}
}

// Validate checks every parameter against its bounds and rejects base months
// that precede the current calendar month.
func (s Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return &ValidationError{Err: err}
	}
	if monthFloor(s.BaseMonth).Before(monthFloor(time.Now())) {
		return &ValidationError{Err: fmt.Errorf("base_month %s precedes the current month", s.BaseMonth.Format("2006-01"))}
	}
	return nil
}

// Fingerprint returns the deterministic identity hash over every scenario
// field, used as the cache and coalescing key.
func (s Scenario) Fingerprint() string {
	// Struct JSON encoding has a fixed field order, so the digest is stable
	payload, _ := json.Marshal(s)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func monthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
