package engine

import (
	"fmt"

	"github.com/san-kum/ionsim/internal/solver"
)

// Cursor steps one trajectory incrementally at a fixed dt, for callers
// that consume samples as they are produced (the live view). A Cursor
// owns its trajectory state and is not safe for concurrent use; the
// engine behind it is untouched.
type Cursor struct {
	e   *Engine
	st  solver.Stepper
	y   solver.State
	tS  float64
	dtS float64
	sys odeSystem
}

// NewCursor starts a trajectory at t=0 with the standard initial
// conditions, advancing dtMs per Step.
func (e *Engine) NewCursor(dtMs float64) *Cursor {
	return &Cursor{
		e:   e,
		st:  solver.NewDormandPrince(),
		y:   e.initialState(),
		dtS: dtMs / 1000,
		sys: odeSystem{e: e},
	}
}

// Step advances one fixed step and returns the derived sample at the
// new time.
func (c *Cursor) Step() (Sample, error) {
	next := c.st.Step(c.sys, c.y, c.tS, c.dtS)
	if !next.IsValid() {
		return Sample{}, fmt.Errorf("engine: %w at t=%.4gms", solver.ErrNonFinite, c.tS*1000)
	}
	c.y = next
	c.tS += c.dtS
	return c.e.sampleAt(c.tS, c.y), nil
}

// Now returns the derived sample at the cursor's current time without
// advancing.
func (c *Cursor) Now() Sample {
	return c.e.sampleAt(c.tS, c.y)
}

// Reset rewinds the cursor to t=0.
func (c *Cursor) Reset() {
	c.y = c.e.initialState()
	c.tS = 0
}
