package staffing

import (
	"fmt"
	"math"

	"erlang-staffing/config"
	customerrors "erlang-staffing/errors"
	"erlang-staffing/models"
)

// Request field names, as used in messages and metric labels.
const (
	FieldCallsPerInterval        = "calls_per_interval"
	FieldIntervalSeconds         = "interval_seconds"
	FieldAvgHandleTimeSeconds    = "avg_handle_time_seconds"
	FieldServiceLevelGoalPercent = "service_level_goal_percent"
	FieldTargetAnswerTimeSeconds = "target_answer_time_seconds"
	FieldMaxOccupancyPercent     = "max_occupancy_percent"
	FieldShrinkagePercent        = "shrinkage_percent"
)

// Validation is the outcome of checking a RequestInput.
// Request is nil exactly when Errors is non-empty.
type Validation struct {
	Request  *models.StaffingRequest
	Errors   []error
	Warnings []models.Warning
}

// Valid reports whether a usable request was produced.
func (v Validation) Valid() bool {
	return v.Request != nil
}

// Validate checks the mandatory fields and fills optional ones from d.
// A zero call volume is rejected like any other non-positive value; an absent
// optional field, or one out of range, takes its default and adds a warning.
// An absent shrinkage takes its default without a warning.
func Validate(in models.RequestInput, d config.Defaults) Validation {
	var v Validation

	calls, err := mandatory(FieldCallsPerInterval, in.CallsPerInterval)
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
	aht, err := mandatory(FieldAvgHandleTimeSeconds, in.AvgHandleTimeSeconds)
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
	if len(v.Errors) > 0 {
		return v
	}

	req := models.StaffingRequest{
		Name:                 in.Name,
		CallsPerInterval:     calls,
		AvgHandleTimeSeconds: aht,
	}
	req.IntervalSeconds = v.optional(FieldIntervalSeconds, in.IntervalSeconds,
		float64(d.IntervalSeconds), validInterval)
	req.ServiceLevelGoalPercent = v.optional(FieldServiceLevelGoalPercent, in.ServiceLevelGoalPercent,
		d.ServiceLevelGoalPercent, percent)
	req.TargetAnswerTimeSeconds = v.optional(FieldTargetAnswerTimeSeconds, in.TargetAnswerTimeSeconds,
		d.TargetAnswerTimeSeconds, func(x float64) bool { return x > 0 && x <= 3600 })
	req.MaxOccupancyPercent = v.optional(FieldMaxOccupancyPercent, in.MaxOccupancyPercent,
		d.MaxOccupancyPercent, percent)
	req.ShrinkagePercent = d.ShrinkagePercent
	if in.ShrinkagePercent != nil {
		req.ShrinkagePercent = v.optional(FieldShrinkagePercent, in.ShrinkagePercent,
			d.ShrinkagePercent, func(x float64) bool { return x >= 0 && x < 100 })
	}

	v.Request = &req
	return v
}

func mandatory(field string, value *float64) (float64, error) {
	switch {
	case value == nil:
		return 0, &customerrors.ValidationError{Field: field, Err: customerrors.ErrMissingField}
	case math.IsNaN(*value) || math.IsInf(*value, 0):
		return 0, &customerrors.ValidationError{Field: field, Value: value, Err: customerrors.ErrNonNumeric}
	case *value <= 0:
		return 0, &customerrors.ValidationError{Field: field, Value: value, Err: customerrors.ErrNotPositive}
	}
	return *value, nil
}

func (v *Validation) optional(field string, value *float64, fallback float64, ok func(float64) bool) float64 {
	if value == nil {
		v.Warnings = append(v.Warnings, models.Warning{
			Field:   field,
			Message: fmt.Sprintf("%s not supplied, default used [%g]", field, fallback),
		})
		return fallback
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) || !ok(*value) {
		v.Warnings = append(v.Warnings, models.Warning{
			Field:   field,
			Message: fmt.Sprintf("%g is an invalid %s, default used [%g]", *value, field, fallback),
		})
		return fallback
	}
	return *value
}

func validInterval(x float64) bool {
	return x == 900 || x == 1800 || x == 3600
}

func percent(x float64) bool {
	return x > 0 && x <= 100
}
