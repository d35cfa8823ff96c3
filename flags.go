package main

import (
	"strconv"

	"github.com/spf13/pflag"

	"erlang-staffing/models"
)

// optionalFloat is a float flag that stays nil unless it is set on the
// command line, so the calculator can tell "not supplied" from zero.
type optionalFloat struct {
	target **float64
}

func (o optionalFloat) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return strconv.FormatFloat(**o.target, 'g', -1, 64)
}

func (o optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*o.target = &v
	return nil
}

func (o optionalFloat) Type() string {
	return "float"
}

// requestFlags binds one flag per request field to in.
func requestFlags(fs *pflag.FlagSet, in *models.RequestInput) {
	fs.StringVar(&in.Name, "name", "", "Label for the request")
	fs.Var(optionalFloat{&in.CallsPerInterval}, "calls", "Calls expected in the interval (required)")
	fs.Var(optionalFloat{&in.AvgHandleTimeSeconds}, "aht", "Average handle time in seconds (required)")
	fs.Var(optionalFloat{&in.IntervalSeconds}, "interval", "Interval length in seconds: 900|1800|3600")
	fs.Var(optionalFloat{&in.ServiceLevelGoalPercent}, "svl-goal", "Service level goal in percent")
	fs.Var(optionalFloat{&in.TargetAnswerTimeSeconds}, "asa-goal", "Target answer time in seconds")
	fs.Var(optionalFloat{&in.MaxOccupancyPercent}, "max-occ", "Maximum agent occupancy in percent")
	fs.Var(optionalFloat{&in.ShrinkagePercent}, "shrinkage", "Shrinkage in percent")
}
