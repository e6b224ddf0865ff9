// Package solver provides the numerical integration primitives for the
// engine: a [State] vector, the [System] interface (dy/dt = f(y, t)),
// fixed-step steppers (Euler, RK4), the adaptive Dormand-Prince 4(5)
// stepper, and [Solve], which drives a stepper across a caller-supplied
// sample grid.
//
// Steppers are stateless and safe to share; the mutable trajectory
// lives entirely inside a Solve call.
package solver
