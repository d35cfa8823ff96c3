package models

// NoResult is the agent count reported when no staffing could be computed.
const NoResult = -1

// RequestInput is a staffing request as supplied by a caller.
// A nil field means the value was not supplied.
type RequestInput struct {
	Name                    string
	CallsPerInterval        *float64
	IntervalSeconds         *float64
	AvgHandleTimeSeconds    *float64
	ServiceLevelGoalPercent *float64
	TargetAnswerTimeSeconds *float64
	MaxOccupancyPercent     *float64
	ShrinkagePercent        *float64
}

// StaffingRequest is a validated request with every default applied.
// Only staffing.Validate produces one.
type StaffingRequest struct {
	Name                    string  `json:"name,omitempty" yaml:"name,omitempty"`
	CallsPerInterval        float64 `json:"calls_per_interval" yaml:"calls_per_interval"`
	IntervalSeconds         float64 `json:"interval_seconds" yaml:"interval_seconds"`
	AvgHandleTimeSeconds    float64 `json:"avg_handle_time_seconds" yaml:"avg_handle_time_seconds"`
	ServiceLevelGoalPercent float64 `json:"service_level_goal_percent" yaml:"service_level_goal_percent"`
	TargetAnswerTimeSeconds float64 `json:"target_answer_time_seconds" yaml:"target_answer_time_seconds"`
	MaxOccupancyPercent     float64 `json:"max_occupancy_percent" yaml:"max_occupancy_percent"`
	ShrinkagePercent        float64 `json:"shrinkage_percent" yaml:"shrinkage_percent"`
}

// Staffing holds everything derived from a request once the optimum is known.
// ServiceLevel, Occupancy are fractions in [0,1]; ASA is in seconds.
type Staffing struct {
	TrafficIntensity float64         `json:"traffic_intensity_erlangs" yaml:"traffic_intensity_erlangs"`
	RequiredAgents   int             `json:"required_agents" yaml:"required_agents"`
	ServiceLevel     float64         `json:"service_level" yaml:"service_level"`
	ASA              float64         `json:"asa_seconds" yaml:"asa_seconds"`
	Occupancy        float64         `json:"occupancy" yaml:"occupancy"`
	Detail           []ScenarioEntry `json:"detail" yaml:"detail"`
}

// ScenarioEntry describes one staffing alternative around the optimum.
type ScenarioEntry struct {
	AgentCount             int     `json:"agents" yaml:"agents"`
	AgentsWithShrinkage    int     `json:"agents_with_shrinkage" yaml:"agents_with_shrinkage"`
	OccupancyPercent       float64 `json:"occupancy_percent" yaml:"occupancy_percent"`
	ServiceLevelPercent    float64 `json:"service_level_percent" yaml:"service_level_percent"`
	ASASeconds             float64 `json:"asa_seconds" yaml:"asa_seconds"`
	ImmediateAnswerPercent float64 `json:"immediate_answer_percent" yaml:"immediate_answer_percent"`
	Offset                 int     `json:"optimum_offset" yaml:"optimum_offset"`
	// Applicable is false when AgentCount <= 0; every metric is then zero.
	Applicable bool `json:"applicable" yaml:"applicable"`
	// Overloaded marks occupancy >= 100%, where ASA is undefined.
	Overloaded bool `json:"overloaded" yaml:"overloaded"`
}

// Result is the outcome of evaluating one RequestInput.
// Staffing is either fully populated or nil. Name is copied from the input
// even when validation fails.
type Result struct {
	Name     string
	Request  *StaffingRequest
	Staffing *Staffing
	Errors   []error
	Warnings []Warning
}

// Valid reports whether staffing figures were computed.
func (r *Result) Valid() bool {
	return r != nil && r.Staffing != nil
}

// RequiredAgents returns the optimum agent count, or NoResult.
func (r *Result) RequiredAgents() int {
	if !r.Valid() {
		return NoResult
	}
	return r.Staffing.RequiredAgents
}

// Warning records an optional field that was replaced by its default.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// BatchRow is one parsed line of a batch input file.
type BatchRow struct {
	Line  int
	Input RequestInput
}
