package mc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a market or simulation input outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDegenerateInput reports a sample for which the estimator's statistics are undefined.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrRandomSource reports a draw source that is exhausted or misconfigured.
	ErrRandomSource = errors.New("random source failure")
	// ErrUnknownEstimator reports a registry lookup for a name that is not registered.
	ErrUnknownEstimator = errors.New("unknown estimator")
)

// ParameterError names the offending field. It unwraps to ErrInvalidParameter.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(field string, value float64, reason string) error {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}
