package solver

import "math"

// State is a point of the ODE trajectory.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dy/dt = f(y, t).
type System interface {
	// Derive returns dy/dt at (y, t). It must not retain or mutate y.
	Derive(y State, t float64) State
	Dim() int
}

// Stepper advances a state by one fixed step.
type Stepper interface {
	Step(sys System, y State, t, dt float64) State
}

// AdaptiveStepper additionally estimates local error so the driver can
// accept or reject steps. StepAdaptive returns the candidate state, the
// error ratio (<= 1 means the step meets tolerance) and a suggested
// next step size.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, y State, t, dt, rtol, atol float64) (next State, errRatio, dtNext float64)
}

// Options tune the adaptive driver.
type Options struct {
	Rtol      float64
	Atol      float64
	InitialDt float64 // 0 means derived from the grid span
	MinDt     float64
	MaxDt     float64 // 0 means unbounded
}

// DefaultOptions are the tolerances used for channel kinetics runs.
func DefaultOptions() Options {
	return Options{
		Rtol:  1e-6,
		Atol:  1e-9,
		MinDt: 1e-12,
	}
}
