package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a request field that cannot be used.
// Value is nil when the field was not supplied at all.
type ValidationError struct {
	Field string
	Value *float64
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %g)", e.Field, e.Err, *e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CapacityError is returned when no agent count up to MaxAgents meets every goal.
type CapacityError struct {
	MaxAgents        int
	TrafficIntensity float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: no agent count up to %d meets all goals for %.2f erlangs",
		ErrCapacityUnreachable, e.MaxAgents, e.TrafficIntensity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityUnreachable
}

// Define specific error types for better error handling
var (
	ErrDomain              = fmt.Errorf("argument outside function domain")
	ErrOverloaded          = fmt.Errorf("queue overloaded: occupancy at or above 100%%")
	ErrCapacityUnreachable = fmt.Errorf("capacity unreachable")
	ErrMissingField        = fmt.Errorf("mandatory value missing")
	ErrNonNumeric          = fmt.Errorf("value is not a finite number")
	ErrNotPositive         = fmt.Errorf("value must be greater than zero")

	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
)
