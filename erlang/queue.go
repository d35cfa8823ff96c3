package erlang

import (
	"fmt"
	"math"

	"erlang-staffing/errors"
)

// ErlangC returns the probability that an arriving call has to wait when
// u erlangs are offered to m agents. An unstable queue (u >= m) yields 1.
func ErlangC(m int, u float64) (float64, error) {
	rho, err := queueOccupancy(m, u)
	if err != nil {
		return 0, err
	}
	if rho >= 1 {
		return 1, nil
	}
	b, err := ErlangB(m, u)
	if err != nil {
		return 0, err
	}
	c := b / (1 - rho*(1-b))
	return clamp01(c), nil
}

// ServiceLevel returns the probability a call is answered within
// targetAnswerTime seconds: 1 - C * exp(-(m-u) * target / aht).
// It is 0 for an overloaded queue.
func ServiceLevel(m int, u, targetAnswerTime, aht float64) (float64, error) {
	if !(targetAnswerTime >= 0) || !(aht > 0) {
		return 0, fmt.Errorf("%w: target %v, handle time %v", errors.ErrDomain, targetAnswerTime, aht)
	}
	c, err := ErlangC(m, u)
	if err != nil {
		return 0, err
	}
	if u >= float64(m) {
		return 0, nil
	}
	sl := 1 - c*math.Exp(-(float64(m)-u)*targetAnswerTime/aht)
	return clamp01(sl), nil
}

// AverageSpeedOfAnswer returns the mean wait in seconds, C * aht / (m * (1 - rho)).
// It returns errors.ErrOverloaded when rho >= 1.
func AverageSpeedOfAnswer(m int, u, aht float64) (float64, error) {
	if !(aht > 0) {
		return 0, fmt.Errorf("%w: handle time %v", errors.ErrDomain, aht)
	}
	rho, err := queueOccupancy(m, u)
	if err != nil {
		return 0, err
	}
	if rho >= 1 {
		return 0, fmt.Errorf("%w: %.2f erlangs on %d agents", errors.ErrOverloaded, u, m)
	}
	c, err := ErlangC(m, u)
	if err != nil {
		return 0, err
	}
	return c * aht / (float64(m) * (1 - rho)), nil
}

// ImmediateAnswer returns the probability a call is answered without waiting.
func ImmediateAnswer(m int, u float64) (float64, error) {
	c, err := ErlangC(m, u)
	if err != nil {
		return 0, err
	}
	return 1 - c, nil
}

func queueOccupancy(m int, u float64) (float64, error) {
	if m < 1 {
		return 0, fmt.Errorf("%w: %d agents", errors.ErrDomain, m)
	}
	return Occupancy(m, u)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
