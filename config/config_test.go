package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuiltin(t *testing.T) {
	cfg := Builtin()
	assert.Equal(t, 1800, cfg.IntervalSeconds)
	assert.Equal(t, 80.0, cfg.ServiceLevelGoalPercent)
	assert.Equal(t, 20.0, cfg.TargetAnswerTimeSeconds)
	assert.Equal(t, 100.0, cfg.MaxOccupancyPercent)
	assert.Equal(t, 2500, cfg.MaxAgents)
	assert.Equal(t, 0.0, cfg.ShrinkagePercent)
	assert.NoError(t, Validate(&cfg))
}

func TestLoad_FileOverridesBuiltin(t *testing.T) {
	path := writeConfig(t, `
interval: 900
svl_goal: 90
asa_goal: 15
max_occ: 85
max_agents: 1000
shrinkage: 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.IntervalSeconds)
	assert.Equal(t, 90.0, cfg.ServiceLevelGoalPercent)
	assert.Equal(t, 15.0, cfg.TargetAnswerTimeSeconds)
	assert.Equal(t, 85.0, cfg.MaxOccupancyPercent)
	assert.Equal(t, 1000, cfg.MaxAgents)
	assert.Equal(t, 30.0, cfg.ShrinkagePercent)
	// untouched keys keep their built-in values
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_PartialFile(t *testing.T) {
	path := writeConfig(t, "max_agents: 300\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.MaxAgents)
	assert.Equal(t, 1800, cfg.IntervalSeconds)
	assert.Equal(t, 100.0, cfg.MaxOccupancyPercent)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "max_agents: 300\nsvl_goal: 70\n")
	t.Setenv("ERLANG_MAX_AGENTS", "400")
	t.Setenv("ERLANG_MAX_OCC", "92.5")
	t.Setenv("ERLANG_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.MaxAgents)
	assert.Equal(t, 92.5, cfg.MaxOccupancyPercent)
	assert.Equal(t, 70.0, cfg.ServiceLevelGoalPercent)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	path := writeConfig(t, "max_agents: 300\n")
	t.Setenv("ERLANG_MAX_AGENTS", "lots")

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ERLANG_MAX_AGENTS")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_NoPathAndNoFileUsesBuiltin(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Builtin(), cfg)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "interval: [1800\n")

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := map[string]func(*Defaults){
		"Interval":      func(d *Defaults) { d.IntervalSeconds = 600 },
		"ServiceLevel":  func(d *Defaults) { d.ServiceLevelGoalPercent = 0 },
		"ServiceLevel2": func(d *Defaults) { d.ServiceLevelGoalPercent = 101 },
		"AnswerTime":    func(d *Defaults) { d.TargetAnswerTimeSeconds = -1 },
		"MaxOccupancy":  func(d *Defaults) { d.MaxOccupancyPercent = 120 },
		"MaxAgents":     func(d *Defaults) { d.MaxAgents = 0 },
		"Shrinkage":     func(d *Defaults) { d.ShrinkagePercent = 100 },
		"Workers":       func(d *Defaults) { d.Workers = 0 },
		"LogLevel":      func(d *Defaults) { d.LogLevel = "verbose" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Builtin()
			mutate(&cfg)
			err := Validate(&cfg)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

// chdir mirrors testing.T.Chdir (go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
