package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite indicates the derivative or state left the finite range.
	ErrNonFinite = errors.New("solver: non-finite state")

	// ErrStepTooSmall indicates the adaptive step underflowed MinDt
	// without meeting tolerance.
	ErrStepTooSmall = errors.New("solver: step size below minimum")

	// ErrBadGrid indicates a sample grid that is not strictly increasing.
	ErrBadGrid = errors.New("solver: sample grid must be strictly increasing")
)

// IntegrationFailure reports where an integration gave up. Y holds the
// last finite accepted state, so callers can inspect the trajectory tail
// instead of receiving NaN-filled output.
type IntegrationFailure struct {
	TimeS   float64
	Y       State
	Wrapped error
}

func (e *IntegrationFailure) Error() string {
	return fmt.Sprintf("integration failed at t=%.6gs: %v", e.TimeS, e.Wrapped)
}

func (e *IntegrationFailure) Unwrap() error { return e.Wrapped }
