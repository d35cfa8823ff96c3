package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"erlang-staffing/models"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "csv", "yaml"}

// ResultView holds prepared result data used by the structured formatters
type ResultView struct {
	Name           string                  `json:"name,omitempty" yaml:"name,omitempty"`
	Valid          bool                    `json:"valid" yaml:"valid"`
	RequiredAgents int                     `json:"required_agents" yaml:"required_agents"`
	Request        *models.StaffingRequest `json:"request,omitempty" yaml:"request,omitempty"`
	Staffing       *models.Staffing        `json:"staffing,omitempty" yaml:"staffing,omitempty"`
	Errors         []string                `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings       []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// prepareResults flattens results into views, converting errors to strings
func prepareResults(results []*models.Result) []ResultView {
	views := make([]ResultView, 0, len(results))
	for _, r := range results {
		view := ResultView{
			Name:           requestName(r),
			Valid:          r.Valid(),
			RequiredAgents: r.RequiredAgents(),
			Request:        r.Request,
			Staffing:       r.Staffing,
		}
		for _, err := range r.Errors {
			view.Errors = append(view.Errors, err.Error())
		}
		for _, w := range r.Warnings {
			view.Warnings = append(view.Warnings, w.String())
		}
		views = append(views, view)
	}
	return views
}

// Format renders results in the named format.
func Format(format string, results []*models.Result) (string, error) {
	switch format {
	case "text":
		return FormatText(results), nil
	case "json":
		return FormatJSON(results)
	case "csv":
		return FormatCSV(results), nil
	case "yaml":
		return FormatYAML(results)
	default:
		return "", fmt.Errorf("format must be one of: %s (got: %s)", strings.Join(Formats, ", "), format)
	}
}

// FormatText returns the text representation of the results
func FormatText(results []*models.Result) string {
	var sb strings.Builder

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("⚠️  %s\n", w))
		}

		if r.Request == nil {
			sb.WriteString(fmt.Sprintf("Invalid request %q: %s\n", requestName(r), joinErrors(r.Errors)))
			continue
		}

		req := r.Request
		sb.WriteString(fmt.Sprintf("For %g calls in %g seconds with a SL goal of %g%% in %g secs:\n",
			req.CallsPerInterval, req.IntervalSeconds, req.ServiceLevelGoalPercent, req.TargetAnswerTimeSeconds))
		sb.WriteString(fmt.Sprintf("Max occupancy %g%%, shrinkage of %g%% is assumed.\n",
			req.MaxOccupancyPercent, req.ShrinkagePercent))

		if !r.Valid() {
			sb.WriteString(fmt.Sprintf("No staffing level found: %s\n", joinErrors(r.Errors)))
			continue
		}

		sb.WriteString(fmt.Sprintf("Traffic intensity: %.2f erlangs\n", r.Staffing.TrafficIntensity))
		sb.WriteString(strings.Repeat("=", 94))
		sb.WriteString("\n")
		for _, e := range r.Staffing.Detail {
			sb.WriteString(formatTextLine(e))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatTextLine formats a single scenario line for text output
func formatTextLine(e models.ScenarioEntry) string {
	if !e.Applicable {
		return fmt.Sprintf("%+d: n/a", e.Offset)
	}

	asa := fmt.Sprintf("%.1fs", e.ASASeconds)
	if e.Overloaded {
		asa = "overloaded"
	}
	line := fmt.Sprintf("%03d agents (%03d w/shrinkage): SL %5.1f%%  ASA %-10s  OCC %5.1f%%  IMM %5.1f%%",
		e.AgentCount, e.AgentsWithShrinkage, e.ServiceLevelPercent, asa,
		e.OccupancyPercent, e.ImmediateAnswerPercent)
	if e.Offset == 0 {
		line += " <<< OPTIMUM"
	}
	return line
}

// FormatJSON returns the JSON representation of the results
func FormatJSON(results []*models.Result) (string, error) {
	jsonBytes, err := json.MarshalIndent(prepareResults(results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(jsonBytes) + "\n", nil
}

// FormatYAML returns the YAML representation of the results
func FormatYAML(results []*models.Result) (string, error) {
	yamlBytes, err := yaml.Marshal(prepareResults(results))
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(yamlBytes), nil
}

// FormatCSV returns the CSV representation of the results, one row per scenario
func FormatCSV(results []*models.Result) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Request", "Agents", "Agents w/Shrinkage", "Occupancy", "Service Level",
		"ASA", "Immediate Answer", "Optimum Offset", "Status",
	})

	for _, r := range results {
		writeResultToCSV(writer, r)
	}

	writer.Flush()
	return sb.String()
}

// writeResultToCSV writes a single result's scenarios to CSV
func writeResultToCSV(writer *csv.Writer, r *models.Result) {
	name := requestName(r)

	if !r.Valid() {
		writer.Write([]string{name, "", "", "", "", "", "", "", "invalid: " + joinErrors(r.Errors)})
		return
	}

	for _, e := range r.Staffing.Detail {
		if !e.Applicable {
			writer.Write([]string{name, "", "", "", "", "", "", fmt.Sprintf("%+d", e.Offset), "n/a"})
			continue
		}

		status := ""
		switch {
		case e.Offset == 0:
			status = "optimum"
		case e.Overloaded:
			status = "overloaded"
		}
		asa := fmt.Sprintf("%.1f", e.ASASeconds)
		if e.Overloaded {
			asa = ""
		}

		writer.Write([]string{
			name,
			fmt.Sprintf("%03d", e.AgentCount),
			fmt.Sprintf("%03d", e.AgentsWithShrinkage),
			fmt.Sprintf("%.1f%%", e.OccupancyPercent),
			fmt.Sprintf("%.1f%%", e.ServiceLevelPercent),
			asa,
			fmt.Sprintf("%.1f%%", e.ImmediateAnswerPercent),
			fmt.Sprintf("%+d", e.Offset),
			status,
		})
	}
}

func requestName(r *models.Result) string {
	if r.Name == "" && r.Request != nil {
		return r.Request.Name
	}
	return r.Name
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
