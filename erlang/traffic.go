package erlang

import (
	"fmt"
	"math"

	"erlang-staffing/errors"
)

// TrafficIntensity converts a call volume over an interval into offered load
// in erlangs: calls / intervalSeconds * aht.
func TrafficIntensity(calls, intervalSeconds, aht float64) (float64, error) {
	if !(intervalSeconds > 0) || math.IsInf(intervalSeconds, 0) {
		return 0, fmt.Errorf("%w: interval %v", errors.ErrDomain, intervalSeconds)
	}
	if !(calls >= 0) || !(aht >= 0) || math.IsInf(calls, 0) || math.IsInf(aht, 0) {
		return 0, fmt.Errorf("%w: calls %v, handle time %v", errors.ErrDomain, calls, aht)
	}
	return calls / intervalSeconds * aht, nil
}

// Occupancy returns the fraction of agent capacity used, u/m.
func Occupancy(m int, u float64) (float64, error) {
	if m <= 0 {
		return 0, fmt.Errorf("%w: occupancy at %d agents", errors.ErrDomain, m)
	}
	if err := checkLoad(m, u); err != nil {
		return 0, err
	}
	return u / float64(m), nil
}
