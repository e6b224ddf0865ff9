package engine

import (
	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/solver"
)

// odeSystem adapts an Engine to solver.System. The value is stateless;
// every intermediate of Derive is local to the call.
type odeSystem struct {
	e *Engine
}

func (s odeSystem) Dim() int { return s.e.NumStates() + 2 }

// Derive computes the coupled right-hand side: probability flow through
// the generator matrix plus electrodiffusion of potassium driven by the
// instantaneous channel current.
func (s odeSystem) Derive(y solver.State, t float64) solver.State {
	e := s.e
	n := len(e.cond)

	tMs := t * 1000
	v := e.stimulus.ValueAt(channel.VarVoltageMV, tMs)

	p := y[:n]
	internalK := y[n]
	externalK := y[n+1]

	q := e.buildGenerator(v)

	dydt := make(solver.State, n+2)
	for row := 0; row < n; row++ {
		sum := 0.0
		for col := 0; col < n; col++ {
			sum += q[row*n+col] * p[col]
		}
		dydt[row] = sum
	}

	nernst := NernstPotentialMV(internalK, externalK)

	conductanceNS := 0.0
	for i := 0; i < n; i++ {
		conductanceNS += e.cond[i] * p[i]
	}
	currentPA := conductanceNS * (v - nernst)

	// pA -> A -> mol/s -> mmol/s; outward current moves K+ out of the cell.
	fluxMmolS := currentPA * 1e-12 / (valenceZ * faradayF) * 1000
	dydt[n] = -fluxMmolS / e.volInt
	dydt[n+1] = fluxMmolS / e.volExt

	return dydt
}
