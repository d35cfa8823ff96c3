// Package erlang implements the M/M/c queueing formulas used for staffing:
// Poisson probabilities, offered load, and the Erlang-C family of metrics.
//
// Every function is pure and rejects arguments outside its domain with
// errors.ErrDomain. None of them materialises a factorial, so agent counts
// in the thousands are safe.
package erlang

import (
	"fmt"
	"math"

	"erlang-staffing/errors"
)

// Factorial returns n! as a float64. It overflows to +Inf past 170!.
func Factorial(n int) (float64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: factorial of %d", errors.ErrDomain, n)
	}
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result, nil
}

// PoissonPMF returns P(X = k) for X ~ Poisson(u).
func PoissonPMF(k int, u float64) (float64, error) {
	if err := checkLoad(k, u); err != nil {
		return 0, err
	}
	if u == 0 {
		if k == 0 {
			return 1, nil
		}
		return 0, nil
	}
	logTerm := -u
	for i := 1; i <= k; i++ {
		logTerm += math.Log(u / float64(i))
	}
	return math.Exp(logTerm), nil
}

// PoissonCDF returns P(X <= m) for X ~ Poisson(u).
// Terms are accumulated in log space so e^-u cannot underflow for large loads.
func PoissonCDF(m int, u float64) (float64, error) {
	if err := checkLoad(m, u); err != nil {
		return 0, err
	}
	if u == 0 {
		return 1, nil
	}
	logTerm := -u
	logSum := logTerm
	for k := 1; k <= m; k++ {
		logTerm += math.Log(u / float64(k))
		logSum = logAddExp(logSum, logTerm)
	}
	return math.Min(1, math.Exp(logSum)), nil
}

// ErlangB returns the blocking probability of an m-server loss system
// offered u erlangs, using B(0)=1, B(n) = u*B(n-1) / (n + u*B(n-1)).
func ErlangB(m int, u float64) (float64, error) {
	if err := checkLoad(m, u); err != nil {
		return 0, err
	}
	b := 1.0
	for n := 1; n <= m; n++ {
		b = u * b / (float64(n) + u*b)
	}
	return b, nil
}

func logAddExp(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

func checkLoad(n int, u float64) error {
	if n < 0 {
		return fmt.Errorf("%w: count %d is negative", errors.ErrDomain, n)
	}
	if u < 0 || math.IsNaN(u) || math.IsInf(u, 0) {
		return fmt.Errorf("%w: load %v", errors.ErrDomain, u)
	}
	return nil
}
