package staffing

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"erlang-staffing/config"
	"erlang-staffing/erlang"
	customerrors "erlang-staffing/errors"
	"erlang-staffing/metrics"
	"erlang-staffing/models"
)

// Calculator turns staffing requests into results. It holds no mutable state,
// so one Calculator may evaluate requests from many goroutines.
type Calculator struct {
	defaults config.Defaults
	strategy Strategy
	logger   *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithStrategy selects the agent search strategy. The default is LinearStrategy.
func WithStrategy(s Strategy) Option {
	return func(c *Calculator) { c.strategy = s }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

// NewCalculator creates a Calculator that fills optional fields from d and
// caps the search at d.MaxAgents.
func NewCalculator(d config.Defaults, opts ...Option) *Calculator {
	c := &Calculator{
		defaults: d,
		strategy: LinearStrategy,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Defaults returns the defaults the calculator was built with.
func (c *Calculator) Defaults() config.Defaults {
	return c.defaults
}

// Evaluate validates in and, when it is usable, computes the staffing optimum
// and the scenario window around it. Invalid input and unreachable goals are
// reported through the Result, never as a panic.
func (c *Calculator) Evaluate(in models.RequestInput) *models.Result {
	logger := c.logger.With(zap.String("request", in.Name))

	v := Validate(in, c.defaults)
	result := &models.Result{
		Name:     in.Name,
		Errors:   v.Errors,
		Warnings: v.Warnings,
	}
	for _, w := range v.Warnings {
		metrics.ValidationWarningsTotal.WithLabelValues(w.Field).Inc()
		logger.Warn("Default substituted", zap.String("field", w.Field), zap.String("detail", w.Message))
	}
	if !v.Valid() {
		for _, err := range v.Errors {
			var verr *customerrors.ValidationError
			if errors.As(err, &verr) {
				metrics.ValidationErrorsTotal.WithLabelValues(verr.Field).Inc()
			}
		}
		metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		logger.Info("Request invalid", zap.Errors("errors", v.Errors))
		return result
	}

	result.Request = v.Request
	staffing, err := c.compute(*v.Request, logger)
	if err != nil {
		result.Errors = append(result.Errors, err)
		if errors.Is(err, customerrors.ErrCapacityUnreachable) {
			metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeCapacityUnreachable).Inc()
			logger.Warn("Goals unreachable within agent limit",
				zap.Int("max_agents", c.defaults.MaxAgents),
				zap.Error(err))
		} else {
			metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			logger.Error("Staffing computation failed", zap.Error(err))
		}
		return result
	}

	result.Staffing = staffing
	metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeValid).Inc()
	metrics.RequiredAgents.Observe(float64(staffing.RequiredAgents))
	metrics.TrafficIntensityErlangs.Observe(staffing.TrafficIntensity)
	return result
}

func (c *Calculator) compute(req models.StaffingRequest, logger *zap.Logger) (*models.Staffing, error) {
	load, err := erlang.TrafficIntensity(req.CallsPerInterval, req.IntervalSeconds, req.AvgHandleTimeSeconds)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome, err := Search(req, load, c.defaults.MaxAgents, c.strategy)
	metrics.SearchDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.SearchEvaluations.WithLabelValues(c.strategy.String()).Observe(float64(outcome.Evaluations))
	if err != nil {
		return nil, err
	}
	m := outcome.Agents

	sl, err := erlang.ServiceLevel(m, load, req.TargetAnswerTimeSeconds, req.AvgHandleTimeSeconds)
	if err != nil {
		return nil, err
	}
	asa, err := erlang.AverageSpeedOfAnswer(m, load, req.AvgHandleTimeSeconds)
	if err != nil {
		return nil, err
	}
	occ, err := erlang.Occupancy(m, load)
	if err != nil {
		return nil, err
	}
	detail, err := Scenarios(req, load, m)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenarios: %w", err)
	}

	logger.Debug("Optimum found",
		zap.Float64("erlangs", load),
		zap.Int("agents", m),
		zap.Int("evaluations", outcome.Evaluations),
		zap.Stringer("strategy", c.strategy))

	return &models.Staffing{
		TrafficIntensity: load,
		RequiredAgents:   m,
		ServiceLevel:     sl,
		ASA:              asa,
		Occupancy:        occ,
		Detail:           detail,
	}, nil
}
