package solver

// RK4 is the classical fixed-step fourth-order Runge-Kutta stepper.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Step(sys System, y State, t, dt float64) State {
	n := len(y)

	k1 := sys.Derive(y, t)

	y2 := make(State, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + 0.5*dt*k1[i]
	}
	k2 := sys.Derive(y2, t+0.5*dt)

	y3 := make(State, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + 0.5*dt*k2[i]
	}
	k3 := sys.Derive(y3, t+0.5*dt)

	y4 := make(State, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + dt*k3[i]
	}
	k4 := sys.Derive(y4, t+dt)

	next := make(State, n)
	for i := 0; i < n; i++ {
		next[i] = y[i] + dt/6.0*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}
