package staffing

import (
	"errors"
	"math"

	"erlang-staffing/erlang"
	customerrors "erlang-staffing/errors"
	"erlang-staffing/models"
)

// ScenarioSpread is how many alternatives are reported on each side of the optimum.
const ScenarioSpread = 5

// Scenarios evaluates the agent counts required-5 .. required+5 for req.
// Counts of zero or less are reported as not applicable without being evaluated.
func Scenarios(req models.StaffingRequest, load float64, required int) ([]models.ScenarioEntry, error) {
	entries := make([]models.ScenarioEntry, 0, 2*ScenarioSpread+1)
	for offset := -ScenarioSpread; offset <= ScenarioSpread; offset++ {
		entry, err := scenario(req, load, required+offset, offset)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scenario(req models.StaffingRequest, load float64, m, offset int) (models.ScenarioEntry, error) {
	entry := models.ScenarioEntry{AgentCount: m, Offset: offset}
	if m <= 0 {
		return entry, nil
	}
	entry.Applicable = true
	entry.AgentsWithShrinkage = WithShrinkage(m, req.ShrinkagePercent)

	occ, err := erlang.Occupancy(m, load)
	if err != nil {
		return models.ScenarioEntry{}, err
	}
	sl, err := erlang.ServiceLevel(m, load, req.TargetAnswerTimeSeconds, req.AvgHandleTimeSeconds)
	if err != nil {
		return models.ScenarioEntry{}, err
	}
	imm, err := erlang.ImmediateAnswer(m, load)
	if err != nil {
		return models.ScenarioEntry{}, err
	}
	asa, err := erlang.AverageSpeedOfAnswer(m, load, req.AvgHandleTimeSeconds)
	switch {
	case errors.Is(err, customerrors.ErrOverloaded):
		entry.Overloaded = true
	case err != nil:
		return models.ScenarioEntry{}, err
	default:
		entry.ASASeconds = asa
	}

	entry.OccupancyPercent = occ * 100
	entry.ServiceLevelPercent = sl * 100
	entry.ImmediateAnswerPercent = imm * 100
	return entry, nil
}

// shrinkageEpsilon absorbs float noise so exact products such as 100 * 110%
// are not rounded up to the next agent.
const shrinkageEpsilon = 1e-9

// WithShrinkage grosses an agent count up for time lost to breaks, training
// and absence: ceil(m * (100 + shrinkage) / 100).
func WithShrinkage(m int, shrinkagePercent float64) int {
	return int(math.Ceil(float64(m)*(100+shrinkagePercent)/100 - shrinkageEpsilon))
}
