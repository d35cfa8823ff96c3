package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"erlang-staffing/errors"
	"erlang-staffing/metrics"
	"erlang-staffing/models"
)

// Columns in a batch file, in order. Shrinkage may be omitted.
var Columns = []string{
	"name", "calls", "interval", "aht", "svl_goal", "asa_goal", "max_occ", "shrinkage",
}

// Parse reads CSV data from the reader and returns one BatchRow per request.
// Lines starting with '#' are headers/comments. Blank cells are treated as
// not supplied, so the calculator applies defaults (or rejects a missing
// mandatory value). A cell that is present but not a number is carried as NaN,
// which the calculator rejects for that row alone. Only a malformed file or a
// row with the wrong number of fields is a ParseError.
//
// Example:
//
//	# name, calls, interval, aht, svl_goal, asa_goal, max_occ, shrinkage
//	Billing 09:00, 342, 1800, 430, 80, 20, 100, 30
//	Billing 09:30, 410, , 430, , , 85
func Parse(r io.Reader) ([]models.BatchRow, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []models.BatchRow

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("csv").Inc()
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		lineNum, _ := reader.FieldPos(0)

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}
		if isBlank(record) {
			continue
		}

		if len(record) != len(Columns) && len(record) != len(Columns)-1 {
			metrics.ParserErrorsTotal.WithLabelValues("field_count").Inc()
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    errors.ErrInvalidFieldCount,
			}
		}

		row := models.BatchRow{Line: lineNum}
		row.Input.Name = strings.TrimSpace(record[0])

		targets := []**float64{
			&row.Input.CallsPerInterval,
			&row.Input.IntervalSeconds,
			&row.Input.AvgHandleTimeSeconds,
			&row.Input.ServiceLevelGoalPercent,
			&row.Input.TargetAnswerTimeSeconds,
			&row.Input.MaxOccupancyPercent,
			&row.Input.ShrinkagePercent,
		}
		for i, cell := range record[1:] {
			value, ok := parseNumber(cell)
			if !ok {
				metrics.ParserErrorsTotal.WithLabelValues("number").Inc()
			}
			*targets[i] = value
		}

		rows = append(rows, row)
		metrics.ParserRecordsTotal.Inc()
	}

	return rows, nil
}

// parseNumber returns nil for a blank cell and NaN for one that is not a number.
func parseNumber(cell string) (*float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		nan := math.NaN()
		return &nan, false
	}
	return &v, true
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
