package solver

import (
	"context"
	"math"
)

// Solve integrates sys from grid[0] to grid[len-1], returning the state
// at every grid time. The internal step size is chosen by the stepper
// (adaptive when it implements AdaptiveStepper) and is independent of
// the grid: steps are clamped so each sample time is hit exactly.
//
// On stiffness explosion or a non-finite state the returned error is an
// *IntegrationFailure carrying the failing time and the last finite
// accepted state. No partial or NaN-filled output is returned.
func Solve(ctx context.Context, sys System, y0 State, grid []float64, st Stepper, opts Options) ([]State, error) {
	if len(grid) == 0 {
		return nil, ErrBadGrid
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return nil, ErrBadGrid
		}
	}

	def := DefaultOptions()
	if opts.Rtol <= 0 {
		opts.Rtol = def.Rtol
	}
	if opts.Atol <= 0 {
		opts.Atol = def.Atol
	}
	if opts.MinDt <= 0 {
		opts.MinDt = def.MinDt
	}
	span := grid[len(grid)-1] - grid[0]
	if opts.MaxDt <= 0 {
		opts.MaxDt = span
	}
	if opts.InitialDt <= 0 {
		opts.InitialDt = span / 1000
	}

	if !y0.IsValid() {
		return nil, &IntegrationFailure{TimeS: grid[0], Y: y0.Clone(), Wrapped: ErrNonFinite}
	}

	out := make([]State, len(grid))
	y := y0.Clone()
	t := grid[0]
	out[0] = y.Clone()

	ad, adaptive := st.(AdaptiveStepper)
	dt := opts.InitialDt
	snap := span * 1e-14

	for gi := 1; gi < len(grid); gi++ {
		ts := grid[gi]
		for {
			if ts-t <= snap {
				t = ts
				break
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			h := math.Min(dt, ts-t)

			if !adaptive {
				next := st.Step(sys, y, t, h)
				if !next.IsValid() {
					return nil, &IntegrationFailure{TimeS: t, Y: y.Clone(), Wrapped: ErrNonFinite}
				}
				y = next
				t += h
				continue
			}

			next, errRatio, dtNext := ad.StepAdaptive(sys, y, t, h, opts.Rtol, opts.Atol)
			if !next.IsValid() {
				// derivative blew up inside the stages; retry smaller
				dt = h / 2
				if dt < opts.MinDt {
					return nil, &IntegrationFailure{TimeS: t, Y: y.Clone(), Wrapped: ErrNonFinite}
				}
				continue
			}
			if errRatio > 1 {
				dt = dtNext
				if dt < opts.MinDt {
					return nil, &IntegrationFailure{TimeS: t, Y: y.Clone(), Wrapped: ErrStepTooSmall}
				}
				continue
			}

			y = next
			t += h
			dt = math.Min(math.Max(dtNext, opts.MinDt), opts.MaxDt)
		}
		out[gi] = y.Clone()
	}

	return out, nil
}

// Linspace returns n evenly spaced samples over [from, to], inclusive
// of both endpoints. n must be >= 2.
func Linspace(from, to float64, n int) []float64 {
	grid := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range grid {
		grid[i] = from + float64(i)*step
	}
	grid[n-1] = to
	return grid
}
