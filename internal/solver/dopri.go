package solver

import "math"

// Dormand-Prince 4(5) coefficients.
var (
	dpA2 = 1.0 / 5.0
	dpA3 = 3.0 / 10.0
	dpA4 = 4.0 / 5.0
	dpA5 = 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31 = 3.0 / 40.0
	dpB32 = 9.0 / 40.0
	dpB41 = 44.0 / 45.0
	dpB42 = -56.0 / 15.0
	dpB43 = 32.0 / 9.0
	dpB51 = 19372.0 / 6561.0
	dpB52 = -25360.0 / 2187.0
	dpB53 = 64448.0 / 6561.0
	dpB54 = -212.0 / 729.0
	dpB61 = 9017.0 / 3168.0
	dpB62 = -355.0 / 33.0
	dpB63 = 46732.0 / 5247.0
	dpB64 = 49.0 / 176.0
	dpB65 = -5103.0 / 18656.0

	dpC1 = 35.0 / 384.0
	dpC3 = 500.0 / 1113.0
	dpC4 = 125.0 / 192.0
	dpC5 = -2187.0 / 6784.0
	dpC6 = 11.0 / 84.0

	dpE1 = dpC1 - 5179.0/57600.0
	dpE3 = dpC3 - 7571.0/16695.0
	dpE4 = dpC4 - 393.0/640.0
	dpE5 = dpC5 + 92097.0/339200.0
	dpE6 = dpC6 - 187.0/2100.0
	dpE7 = -1.0 / 40.0
)

// DormandPrince is the adaptive explicit Runge-Kutta 4(5) stepper used
// for production runs. It is stateless; step-size memory belongs to the
// Solve driver.
type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step takes a single fixed step, discarding the error estimate. Used
// by fixed-dt callers like the live view.
func (d *DormandPrince) Step(sys System, y State, t, dt float64) State {
	next, _, _ := d.StepAdaptive(sys, y, t, dt, 1e-6, 1e-9)
	return next
}

// StepAdaptive evaluates the seven stages, forms the 5th-order solution
// and the embedded 4th-order error estimate, and returns the candidate
// state, errRatio (accept when <= 1) and a suggested next step size.
func (d *DormandPrince) StepAdaptive(sys System, y State, t, dt, rtol, atol float64) (State, float64, float64) {
	n := len(y)

	k1 := sys.Derive(y, t)

	y2 := make(State, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + dt*dpB21*k1[i]
	}
	k2 := sys.Derive(y2, t+dpA2*dt)

	y3 := make(State, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + dt*(dpB31*k1[i]+dpB32*k2[i])
	}
	k3 := sys.Derive(y3, t+dpA3*dt)

	y4 := make(State, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + dt*(dpB41*k1[i]+dpB42*k2[i]+dpB43*k3[i])
	}
	k4 := sys.Derive(y4, t+dpA4*dt)

	y5 := make(State, n)
	for i := 0; i < n; i++ {
		y5[i] = y[i] + dt*(dpB51*k1[i]+dpB52*k2[i]+dpB53*k3[i]+dpB54*k4[i])
	}
	k5 := sys.Derive(y5, t+dpA5*dt)

	y6 := make(State, n)
	for i := 0; i < n; i++ {
		y6[i] = y[i] + dt*(dpB61*k1[i]+dpB62*k2[i]+dpB63*k3[i]+dpB64*k4[i]+dpB65*k5[i])
	}
	k6 := sys.Derive(y6, t+dt)

	next := make(State, n)
	for i := 0; i < n; i++ {
		next[i] = y[i] + dt*(dpC1*k1[i]+dpC3*k3[i]+dpC4*k4[i]+dpC5*k5[i]+dpC6*k6[i])
	}

	k7 := sys.Derive(next, t+dt)

	errRatio := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dpE1*k1[i] + dpE3*k3[i] + dpE4*k4[i] + dpE5*k5[i] + dpE6*k6[i] + dpE7*k7[i])
		scale := atol + rtol*math.Max(math.Abs(y[i]), math.Abs(next[i]))
		errRatio = math.Max(errRatio, math.Abs(errEst)/scale)
	}

	var dtNext float64
	switch {
	case errRatio > 1:
		dtNext = dt * math.Max(d.minScale, d.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		dtNext = dt * math.Min(d.maxScale, d.safety*math.Pow(errRatio, -0.2))
	default:
		dtNext = dt * d.maxScale
	}

	return next, errRatio, dtNext
}
