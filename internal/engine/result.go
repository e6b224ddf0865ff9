package engine

import (
	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/solver"
)

// Result bundles the sampled traces of one run. Probabilities is
// indexed [sample][state index]. Immutable once returned.
type Result struct {
	TimeMS             []float64
	VoltageMV          []float64
	Probabilities      [][]float64
	TotalConductanceNS []float64
	TotalCurrentPA     []float64
	InternalKMM        []float64
	ExternalKMM        []float64
	NernstPotentialMV  []float64
	StateIndex         map[string]int
}

// Len returns the number of samples.
func (r *Result) Len() int { return len(r.TimeMS) }

// Sample is one fully derived point of a trajectory.
type Sample struct {
	TimeMS             float64
	VoltageMV          float64
	Probabilities      []float64
	TotalConductanceNS float64
	TotalCurrentPA     float64
	InternalKMM        float64
	ExternalKMM        float64
	NernstPotentialMV  float64
}

// Sample returns the i-th sample of the result.
func (r *Result) Sample(i int) Sample {
	return Sample{
		TimeMS:             r.TimeMS[i],
		VoltageMV:          r.VoltageMV[i],
		Probabilities:      r.Probabilities[i],
		TotalConductanceNS: r.TotalConductanceNS[i],
		TotalCurrentPA:     r.TotalCurrentPA[i],
		InternalKMM:        r.InternalKMM[i],
		ExternalKMM:        r.ExternalKMM[i],
		NernstPotentialMV:  r.NernstPotentialMV[i],
	}
}

// postprocess re-derives the physical observables from the raw
// trajectory: voltage through the stimulus evaluator, Nernst potential
// with the non-positive-concentration guard, conductance as the
// probability-weighted sum, and current from the Ohmic driving force.
func (e *Engine) postprocess(gridS []float64, trajectory []solver.State) *Result {
	m := len(gridS)

	res := &Result{
		TimeMS:             make([]float64, m),
		VoltageMV:          make([]float64, m),
		Probabilities:      make([][]float64, m),
		TotalConductanceNS: make([]float64, m),
		TotalCurrentPA:     make([]float64, m),
		InternalKMM:        make([]float64, m),
		ExternalKMM:        make([]float64, m),
		NernstPotentialMV:  make([]float64, m),
		StateIndex:         e.StateIndex(),
	}

	for i, tS := range gridS {
		s := e.sampleAt(tS, trajectory[i])
		res.TimeMS[i] = s.TimeMS
		res.VoltageMV[i] = s.VoltageMV
		res.Probabilities[i] = s.Probabilities
		res.TotalConductanceNS[i] = s.TotalConductanceNS
		res.TotalCurrentPA[i] = s.TotalCurrentPA
		res.InternalKMM[i] = s.InternalKMM
		res.ExternalKMM[i] = s.ExternalKMM
		res.NernstPotentialMV[i] = s.NernstPotentialMV
	}
	return res
}

// sampleAt derives all observables for one raw trajectory point.
func (e *Engine) sampleAt(tS float64, y solver.State) Sample {
	n := e.NumStates()
	tMs := tS * 1000

	p := make([]float64, n)
	copy(p, y[:n])
	internalK := y[n]
	externalK := y[n+1]

	v := e.stimulus.ValueAt(channel.VarVoltageMV, tMs)
	nernst := NernstPotentialMV(internalK, externalK)

	g := 0.0
	for i := 0; i < n; i++ {
		g += e.cond[i] * p[i]
	}

	return Sample{
		TimeMS:             tMs,
		VoltageMV:          v,
		Probabilities:      p,
		TotalConductanceNS: g,
		TotalCurrentPA:     g * (v - nernst),
		InternalKMM:        internalK,
		ExternalKMM:        externalK,
		NernstPotentialMV:  nernst,
	}
}
