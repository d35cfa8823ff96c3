package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Built-in fallbacks used when no configuration file overrides them.
const (
	DefaultIntervalSeconds  = 1800
	DefaultServiceLevelGoal = 80
	DefaultTargetAnswerTime = 20
	DefaultMaxOccupancy     = 100
	DefaultMaxAgents        = 2500
	DefaultShrinkagePercent = 0
	DefaultWorkers          = 4
	DefaultLogLevel         = "info"
	DefaultConfigFileName   = "config.yaml"
	envPrefix               = "ERLANG_"
)

// Defaults supplies the values used for optional request fields and the
// bounds of the agent search.
type Defaults struct {
	IntervalSeconds         int     `yaml:"interval" validate:"oneof=900 1800 3600"`
	ServiceLevelGoalPercent float64 `yaml:"svl_goal" validate:"gt=0,lte=100"`
	TargetAnswerTimeSeconds float64 `yaml:"asa_goal" validate:"gt=0,lte=3600"`
	MaxOccupancyPercent     float64 `yaml:"max_occ" validate:"gt=0,lte=100"`
	MaxAgents               int     `yaml:"max_agents" validate:"min=1"`
	ShrinkagePercent        float64 `yaml:"shrinkage" validate:"gte=0,lt=100"`
	Workers                 int     `yaml:"workers" validate:"min=1"`
	LogLevel                string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Builtin returns the defaults used when nothing is configured.
func Builtin() Defaults {
	return Defaults{
		IntervalSeconds:         DefaultIntervalSeconds,
		ServiceLevelGoalPercent: DefaultServiceLevelGoal,
		TargetAnswerTimeSeconds: DefaultTargetAnswerTime,
		MaxOccupancyPercent:     DefaultMaxOccupancy,
		MaxAgents:               DefaultMaxAgents,
		ShrinkagePercent:        DefaultShrinkagePercent,
		Workers:                 DefaultWorkers,
		LogLevel:                DefaultLogLevel,
	}
}

// Load builds the defaults from the built-in values, the YAML file at path and
// ERLANG_* environment variables, in that order.
// An empty path reads config.yaml from the working directory if it exists.
func Load(path string) (Defaults, error) {
	cfg := Builtin()

	filePath := path
	if filePath == "" {
		filePath = DefaultConfigFileName
	}
	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults{}, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
		}
	case path != "" || !os.IsNotExist(err):
		return Defaults{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Defaults{}, err
	}

	if err := Validate(&cfg); err != nil {
		return Defaults{}, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range.
func Validate(cfg *Defaults) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyEnv(cfg *Defaults) error {
	ints := map[string]*int{
		"INTERVAL":   &cfg.IntervalSeconds,
		"MAX_AGENTS": &cfg.MaxAgents,
		"WORKERS":    &cfg.Workers,
	}
	for key, dst := range ints {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	floats := map[string]*float64{
		"SVL_GOAL":  &cfg.ServiceLevelGoalPercent,
		"ASA_GOAL":  &cfg.TargetAnswerTimeSeconds,
		"MAX_OCC":   &cfg.MaxOccupancyPercent,
		"SHRINKAGE": &cfg.ShrinkagePercent,
	}
	for key, dst := range floats {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = f
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
