package solver

// Euler is the explicit first-order stepper. Kept as the cheapest
// baseline for smoke runs and live views; accuracy-sensitive runs use
// DormandPrince.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(sys System, y State, t, dt float64) State {
	dy := sys.Derive(y, t)
	next := make(State, len(y))
	for i := range y {
		next[i] = y[i] + dt*dy[i]
	}
	return next
}
