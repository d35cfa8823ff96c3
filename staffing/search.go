package staffing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"erlang-staffing/erlang"
	customerrors "erlang-staffing/errors"
	"erlang-staffing/models"
)

// Strategy selects how Search walks the candidate agent counts.
type Strategy int

// enumeration of Strategy
const (
	// LinearStrategy scans upward from the offered load.
	LinearStrategy Strategy = iota
	// BinaryStrategy bisects [ceil(load), maxAgents]. Every goal is monotone
	// in the agent count, so it finds the same minimum as a scan.
	BinaryStrategy
)

func (s Strategy) String() string {
	switch s {
	case LinearStrategy:
		return "linear"
	case BinaryStrategy:
		return "binary"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "linear" or "binary" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "":
		return LinearStrategy, nil
	case "binary":
		return BinaryStrategy, nil
	default:
		return 0, fmt.Errorf("unsupported search strategy: %q", name)
	}
}

// SearchOutcome is the minimal agent count and the number of candidates examined.
type SearchOutcome struct {
	Agents      int
	Evaluations int
}

// goals are the request targets expressed as fractions and seconds.
type goals struct {
	load         float64
	aht          float64
	answerTime   float64
	serviceLevel float64
	maxOccupancy float64
}

func newGoals(req models.StaffingRequest, load float64) goals {
	return goals{
		load:         load,
		aht:          req.AvgHandleTimeSeconds,
		answerTime:   req.TargetAnswerTimeSeconds,
		serviceLevel: req.ServiceLevelGoalPercent / 100,
		maxOccupancy: req.MaxOccupancyPercent / 100,
	}
}

// met reports whether m agents satisfy every goal. An overloaded queue never does.
func (g goals) met(m int) (bool, error) {
	occ, err := erlang.Occupancy(m, g.load)
	if err != nil {
		return false, err
	}
	if occ >= 1 || occ > g.maxOccupancy {
		return false, nil
	}

	sl, err := erlang.ServiceLevel(m, g.load, g.answerTime, g.aht)
	if err != nil {
		return false, err
	}
	if sl < g.serviceLevel {
		return false, nil
	}

	asa, err := erlang.AverageSpeedOfAnswer(m, g.load, g.aht)
	if errors.Is(err, customerrors.ErrOverloaded) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return asa <= g.answerTime, nil
}

// Search finds the smallest agent count, at most maxAgents, that meets every
// goal of req for the given offered load. When none does it returns a
// *errors.CapacityError.
func Search(req models.StaffingRequest, load float64, maxAgents int, strategy Strategy) (SearchOutcome, error) {
	if maxAgents < 1 {
		return SearchOutcome{}, fmt.Errorf("%w: max agents %d", customerrors.ErrDomain, maxAgents)
	}
	if load < 0 || math.IsNaN(load) || math.IsInf(load, 0) {
		return SearchOutcome{}, fmt.Errorf("%w: load %v", customerrors.ErrDomain, load)
	}
	unreachable := &customerrors.CapacityError{MaxAgents: maxAgents, TrafficIntensity: load}

	if load >= float64(maxAgents) {
		return SearchOutcome{}, unreachable
	}
	// below ceil(load) agents the queue is always overloaded
	start := max(1, int(math.Ceil(load)))

	g := newGoals(req, load)
	switch strategy {
	case LinearStrategy:
		return linearSearch(g, start, maxAgents, unreachable)
	case BinaryStrategy:
		return binarySearch(g, start, maxAgents, unreachable)
	default:
		return SearchOutcome{}, fmt.Errorf("unsupported search strategy: %v", strategy)
	}
}

func linearSearch(g goals, start, maxAgents int, unreachable error) (SearchOutcome, error) {
	evaluations := 0
	for m := start; m <= maxAgents; m++ {
		evaluations++
		ok, err := g.met(m)
		if err != nil {
			return SearchOutcome{Evaluations: evaluations}, err
		}
		if ok {
			return SearchOutcome{Agents: m, Evaluations: evaluations}, nil
		}
	}
	return SearchOutcome{Evaluations: evaluations}, unreachable
}

func binarySearch(g goals, lo, hi int, unreachable error) (SearchOutcome, error) {
	evaluations := 1
	ok, err := g.met(hi)
	if err != nil {
		return SearchOutcome{Evaluations: evaluations}, err
	}
	if !ok {
		return SearchOutcome{Evaluations: evaluations}, unreachable
	}

	// invariant: hi meets every goal, everything below lo does not
	for lo < hi {
		mid := lo + (hi-lo)/2
		evaluations++
		ok, err := g.met(mid)
		if err != nil {
			return SearchOutcome{Evaluations: evaluations}, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return SearchOutcome{Agents: hi, Evaluations: evaluations}, nil
}
