package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erlang-staffing/models"
)

// run executes the root command in an empty directory so no config.yaml is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRequestFlags(t *testing.T) {
	var in models.RequestInput
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	requestFlags(fs, &in)

	require.NoError(t, fs.Parse([]string{"--calls", "342", "--aht=430", "--max-occ", "0"}))
	require.NotNil(t, in.CallsPerInterval)
	assert.Equal(t, 342.0, *in.CallsPerInterval)
	assert.Equal(t, 430.0, *in.AvgHandleTimeSeconds)
	require.NotNil(t, in.MaxOccupancyPercent)
	assert.Equal(t, 0.0, *in.MaxOccupancyPercent)
	assert.Nil(t, in.IntervalSeconds)
	assert.Nil(t, in.ShrinkagePercent)

	assert.Equal(t, "342", fs.Lookup("calls").Value.String())
	assert.Equal(t, "", fs.Lookup("interval").Value.String())

	assert.Error(t, fs.Parse([]string{"--calls", "many"}))
}

func TestCalcCommand(t *testing.T) {
	out, err := run(t, "calc", "--name", "billing", "--calls", "342", "--aht", "430", "--format", "json")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "billing", decoded[0]["name"])
	assert.Equal(t, float64(90), decoded[0]["required_agents"])
	assert.Len(t, decoded[0]["warnings"], 4)
}

func TestCalcCommand_BinaryStrategy(t *testing.T) {
	out, err := run(t, "calc", "--calls", "342", "--aht", "430", "--strategy", "binary")
	require.NoError(t, err)
	assert.Contains(t, out, "<<< OPTIMUM")
	assert.Contains(t, out, "090 agents")
}

func TestCalcCommand_Errors(t *testing.T) {
	tests := map[string][]string{
		"MissingCalls":    {"calc", "--aht", "430"},
		"Unreachable":     {"calc", "--calls", "342", "--aht", "430", "--max-occ", "1"},
		"UnknownFormat":   {"calc", "--calls", "342", "--aht", "430", "--format", "xml"},
		"UnknownStrategy": {"calc", "--calls", "342", "--aht", "430", "--strategy", "random"},
		"UnexpectedArg":   {"calc", "extra"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestCalcCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_agents: 89\n"), 0644))

	out, err := run(t, "calc", "--calls", "342", "--aht", "430", "--config", path)
	assert.Error(t, err)
	assert.Contains(t, out, "capacity unreachable")
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.csv")
	content := `# name, calls, interval, aht, svl_goal, asa_goal, max_occ, shrinkage
reference, 342, 1800, 430, 80, 20, 100, 30
tight, 342, 1800, 430, 80, 20, 85
broken, , 1800, 430, 80, 20, 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := run(t, "batch", path, "--format", "yaml", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "name: reference")
	assert.Contains(t, out, "required_agents: 90")
	assert.Contains(t, out, "required_agents: 97")
	assert.Contains(t, out, "calls_per_interval: mandatory value missing")
}

func TestBatchCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(malformed, []byte("a,1,2\n"), 0644))

	_, err := run(t, "batch", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "batch", malformed)
	assert.Error(t, err)

	_, err = run(t, "batch")
	assert.Error(t, err)
}

// pushgateway records every push it receives.
type pushgateway struct {
	mu     sync.Mutex
	paths  []string
	bodies [][]byte
}

func (p *pushgateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, r.Method+" "+r.URL.Path)
	p.bodies = append(p.bodies, body)
	w.WriteHeader(http.StatusOK)
}

func TestCalcCommand_PushesMetricsOnEveryOutcome(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
		outcome string
	}{
		"Valid":       {args: []string{"--calls", "342", "--aht", "430"}, outcome: "valid"},
		"Invalid":     {args: []string{"--aht", "430"}, wantErr: true, outcome: "invalid"},
		"Unreachable": {args: []string{"--calls", "342", "--aht", "430", "--max-occ", "1"}, wantErr: true, outcome: "capacity_unreachable"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gateway := &pushgateway{}
			server := httptest.NewServer(gateway)
			defer server.Close()

			args := append([]string{"calc", "--push-url", server.URL}, tt.args...)
			_, err := run(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			gateway.mu.Lock()
			defer gateway.mu.Unlock()
			require.Len(t, gateway.paths, 1)
			assert.Equal(t, "PUT /metrics/job/erlang_staffing", gateway.paths[0])
			assert.Contains(t, string(gateway.bodies[0]), "staffing_requests_evaluated_total")
			assert.Contains(t, string(gateway.bodies[0]), tt.outcome)
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
