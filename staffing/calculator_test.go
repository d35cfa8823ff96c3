package staffing_test

import (
	"errors"
	"testing"

	"erlang-staffing/config"
	customerrors "erlang-staffing/errors"
	"erlang-staffing/metrics"
	"erlang-staffing/models"
	"erlang-staffing/staffing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCalculator_Reference(t *testing.T) {
	before := testutil.ToFloat64(metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeValid))

	calc := staffing.NewCalculator(config.Builtin())
	result := calc.Evaluate(referenceInput())

	require.True(t, result.Valid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 90, result.RequiredAgents())

	s := result.Staffing
	assert.InDelta(t, 81.7, s.TrafficIntensity, 1e-9)
	assert.InDelta(t, 0.814523721445271, s.ServiceLevel, 1e-9)
	assert.InDelta(t, 14.136327774844924, s.ASA, 1e-9)
	assert.InDelta(t, 0.9077777777777779, s.Occupancy, 1e-9)
	assert.Less(t, s.Occupancy, 1.0)
	require.Len(t, s.Detail, 11)
	assert.Equal(t, 85, s.Detail[0].AgentCount)
	assert.Equal(t, 95, s.Detail[10].AgentCount)
	assert.Equal(t, 0, s.Detail[5].Offset)

	after := testutil.ToFloat64(metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeValid))
	assert.Equal(t, before+1, after)
}

func TestCalculator_BinaryStrategyMatches(t *testing.T) {
	linear := staffing.NewCalculator(config.Builtin())
	binary := staffing.NewCalculator(config.Builtin(), staffing.WithStrategy(staffing.BinaryStrategy))

	assert.Equal(t, linear.Evaluate(referenceInput()).Staffing, binary.Evaluate(referenceInput()).Staffing)
}

func TestCalculator_InvalidInput(t *testing.T) {
	tests := map[string]func(*models.RequestInput){
		"NilCalls":    func(in *models.RequestInput) { in.CallsPerInterval = nil },
		"ZeroAHT":     func(in *models.RequestInput) { in.AvgHandleTimeSeconds = f(0) },
		"NegativeAHT": func(in *models.RequestInput) { in.AvgHandleTimeSeconds = f(-430) },
		"NilBoth": func(in *models.RequestInput) {
			in.CallsPerInterval = nil
			in.AvgHandleTimeSeconds = nil
		},
	}

	calc := staffing.NewCalculator(config.Builtin())
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := referenceInput()
			mutate(&in)

			result := calc.Evaluate(in)
			assert.False(t, result.Valid())
			assert.Equal(t, "reference", result.Name)
			assert.Nil(t, result.Request)
			assert.Nil(t, result.Staffing)
			assert.Equal(t, models.NoResult, result.RequiredAgents())
			assert.NotEmpty(t, result.Errors)
		})
	}
}

func TestCalculator_CapacityUnreachable(t *testing.T) {
	before := testutil.ToFloat64(metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeCapacityUnreachable))

	core, logs := observer.New(zap.WarnLevel)
	calc := staffing.NewCalculator(config.Builtin(), staffing.WithLogger(zap.New(core)))

	in := referenceInput()
	in.MaxOccupancyPercent = f(1)
	result := calc.Evaluate(in)

	assert.False(t, result.Valid())
	assert.Nil(t, result.Staffing)
	require.NotNil(t, result.Request)
	assert.Equal(t, models.NoResult, result.RequiredAgents())
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0], customerrors.ErrCapacityUnreachable))

	assert.Equal(t, 1, logs.FilterMessage("Goals unreachable within agent limit").Len())
	after := testutil.ToFloat64(metrics.RequestsEvaluatedTotal.WithLabelValues(metrics.OutcomeCapacityUnreachable))
	assert.Equal(t, before+1, after)
}

func TestCalculator_ConfiguredMaxAgents(t *testing.T) {
	d := config.Builtin()
	d.MaxAgents = 89
	calc := staffing.NewCalculator(d)

	result := calc.Evaluate(referenceInput())
	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)

	var capErr *customerrors.CapacityError
	require.True(t, errors.As(result.Errors[0], &capErr))
	assert.Equal(t, 89, capErr.MaxAgents)

	d.MaxAgents = 90
	assert.Equal(t, 90, staffing.NewCalculator(d).Evaluate(referenceInput()).RequiredAgents())
}

func TestCalculator_DefaultsProduceWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	calc := staffing.NewCalculator(config.Builtin(), staffing.WithLogger(zap.New(core)))

	before := testutil.ToFloat64(metrics.ValidationWarningsTotal.WithLabelValues(staffing.FieldIntervalSeconds))
	result := calc.Evaluate(models.RequestInput{
		CallsPerInterval:     f(342),
		AvgHandleTimeSeconds: f(430),
	})

	require.True(t, result.Valid())
	assert.Equal(t, 90, result.RequiredAgents())
	assert.Len(t, result.Warnings, 4)
	assert.Equal(t, 4, logs.FilterMessage("Default substituted").Len())
	after := testutil.ToFloat64(metrics.ValidationWarningsTotal.WithLabelValues(staffing.FieldIntervalSeconds))
	assert.Equal(t, before+1, after)
}

func TestCalculator_Defaults(t *testing.T) {
	d := config.Builtin()
	d.MaxAgents = 10
	assert.Equal(t, d, staffing.NewCalculator(d).Defaults())
}
