// Package metrics provides Prometheus observability metrics for the staffing calculator.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// Outcome label values for RequestsEvaluatedTotal.
const (
	OutcomeValid               = "valid"
	OutcomeInvalid             = "invalid"
	OutcomeCapacityUnreachable = "capacity_unreachable"
)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// RequestsEvaluatedTotal counts evaluated staffing requests by outcome.
// A rising capacity_unreachable count means goals or MAX_AGENTS need revisiting.
var RequestsEvaluatedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "requests_evaluated_total",
	Help:      "Staffing requests evaluated, by outcome",
}, []string{"outcome"})

// RequiredAgents tracks the distribution of optimum agent counts.
var RequiredAgents = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffing",
	Name:      "required_agents",
	Help:      "Minimum agent count meeting all goals, per valid request",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
})

// TrafficIntensityErlangs tracks the offered load of valid requests.
var TrafficIntensityErlangs = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffing",
	Name:      "traffic_intensity_erlangs",
	Help:      "Offered load in erlangs, per valid request",
	Buckets:   []float64{0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
})

// ValidationWarningsTotal counts optional fields replaced by defaults.
var ValidationWarningsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "validation_warnings_total",
	Help:      "Optional request fields replaced by a default, by field",
}, []string{"field"})

// ValidationErrorsTotal counts mandatory fields that made a request invalid.
var ValidationErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "validation_errors_total",
	Help:      "Mandatory request fields that were missing or unusable, by field",
}, []string{"field"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// SearchEvaluations tracks how many candidate agent counts a search examined.
var SearchEvaluations = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "search",
	Name:      "evaluations",
	Help:      "Candidate agent counts evaluated per search, by strategy",
	Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500, 1000, 2500},
}, []string{"strategy"})

// SearchDurationSeconds tracks time spent finding the optimum.
var SearchDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "search",
	Name:      "duration_seconds",
	Help:      "Time taken to find the minimum agent count",
	Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV records successfully parsed",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// BatchDurationSeconds tracks time to evaluate a whole batch.
var BatchDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "batch",
	Name:      "duration_seconds",
	Help:      "Time taken to evaluate a batch of staffing requests",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
})

// BatchRowsInFlight tracks rows currently being evaluated.
var BatchRowsInFlight = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "batch",
	Name:      "rows_in_flight",
	Help:      "Batch rows currently being evaluated",
})

// BatchUnreachableRows tracks rows of the last batch that could not be staffed.
var BatchUnreachableRows = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "batch",
	Name:      "unreachable_rows",
	Help:      "Rows in the last batch whose goals could not be met within MAX_AGENTS",
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetBatchGauges resets the batch gauges before a new batch run.
func ResetBatchGauges() {
	BatchRowsInFlight.Set(0)
	BatchUnreachableRows.Set(0)
}
