package forecast

import (
	"time"

	"staffcast/internal/simulation"
)

// MonthForecast is the projection for a single forecast month. The band
// fields are present only when the scenario requested Monte Carlo runs.
type MonthForecast struct {
	Month               string  `json:"month"` // YYYY-MM
	PredictedMembers    int     `json:"predicted_members"`
	PredictedCalls      int     `json:"predicted_calls"`
	CallsPerMember      float64 `json:"calls_per_member"`
	RequiredStaff       int     `json:"required_staff"`
	RequiredSupervisors int     `json:"required_supervisors"`
	AgentUtilization    float64 `json:"agent_utilization"`
	ServiceLevel        float64 `json:"service_level"`

	MembersBand *simulation.Band `json:"members_band,omitempty"`
	CallsBand   *simulation.Band `json:"calls_band,omitempty"`
	StaffBand   *simulation.Band `json:"staff_band,omitempty"`
}

// Metadata describes how a run was produced.
type Metadata struct {
	ComputationSeconds float64            `json:"computation_time"`
	AnomalyCount       int                `json:"anomaly_count"`
	DataQualityScore   float64            `json:"data_quality_score"`
	ComponentWeights   map[string]float64 `json:"component_weights"`
}

// Run is one completed forecast. Treated as immutable once returned; a
// cached run is handed back verbatim until its TTL expires.
type Run struct {
	ID          string          `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Scenario    Scenario        `json:"scenario"`
	Months      []MonthForecast `json:"months"`
	Metadata    Metadata        `json:"metadata"`
	CreatedAt   time.Time       `json:"created_at"`
}
