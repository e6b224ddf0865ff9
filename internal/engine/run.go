package engine

import (
	"context"
	"fmt"

	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/solver"
)

// RunConfig describes one simulation run.
type RunConfig struct {
	DurationMS float64
	Steps      int            // number of output samples, >= 2
	Stepper    solver.Stepper // nil selects adaptive Dormand-Prince
	Options    solver.Options // zero-value fields take solver defaults
}

// Run integrates the coupled system over [0, DurationMS] and returns
// the post-processed traces sampled at Steps evenly spaced times.
//
// Initial conditions: all probability in state 0, concentrations from
// the protocol's holding values. The engine itself is not mutated; the
// trajectory is owned by this call.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.DurationMS <= 0 {
		return nil, fmt.Errorf("engine: duration must be positive, got %g", cfg.DurationMS)
	}
	if cfg.Steps < 2 {
		return nil, fmt.Errorf("engine: steps must be >= 2, got %d", cfg.Steps)
	}

	st := cfg.Stepper
	if st == nil {
		st = solver.NewDormandPrince()
	}

	grid := solver.Linspace(0, cfg.DurationMS/1000, cfg.Steps)
	y0 := e.initialState()

	trajectory, err := solver.Solve(ctx, odeSystem{e: e}, y0, grid, st, cfg.Options)
	if err != nil {
		return nil, err
	}

	return e.postprocess(grid, trajectory), nil
}

// initialState builds [1, 0, ..., 0, K_in, K_out].
func (e *Engine) initialState() solver.State {
	n := e.NumStates()
	y0 := make(solver.State, n+2)
	y0[0] = 1
	y0[n] = e.stimulus.Holding(channel.VarInternalKMM)
	y0[n+1] = e.stimulus.Holding(channel.VarExternalKMM)
	return y0
}
