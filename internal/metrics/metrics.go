// Package metrics derives scalar summaries from simulation traces.
package metrics

import (
	"math"

	"github.com/san-kum/ionsim/internal/engine"
)

// Metric accumulates one scalar over a trajectory, sample by sample.
type Metric interface {
	Name() string
	Observe(s engine.Sample)
	Value() float64
	Reset()
}

// PeakCurrent tracks the largest absolute current seen, in pA.
type PeakCurrent struct {
	peak float64
}

func (m *PeakCurrent) Name() string { return "peak_current_pA" }

func (m *PeakCurrent) Observe(s engine.Sample) {
	if a := math.Abs(s.TotalCurrentPA); a > m.peak {
		m.peak = a
	}
}

func (m *PeakCurrent) Value() float64 { return m.peak }
func (m *PeakCurrent) Reset()         { m.peak = 0 }

// TransferredCharge integrates the current over time by the trapezoid
// rule. pA integrated over ms gives the charge directly in pC.
type TransferredCharge struct {
	charge   float64
	lastT    float64
	lastI    float64
	hasPrior bool
}

func (m *TransferredCharge) Name() string { return "transferred_charge_pC" }

func (m *TransferredCharge) Observe(s engine.Sample) {
	if m.hasPrior {
		m.charge += 0.5 * (m.lastI + s.TotalCurrentPA) * (s.TimeMS - m.lastT)
	}
	m.lastT = s.TimeMS
	m.lastI = s.TotalCurrentPA
	m.hasPrior = true
}

func (m *TransferredCharge) Value() float64 { return m.charge }
func (m *TransferredCharge) Reset()         { *m = TransferredCharge{} }

// MeanProbability averages the occupancy of one state across samples.
type MeanProbability struct {
	stateID string
	index   int
	sum     float64
	count   int
}

// NewMeanProbability builds the metric for the state at the given
// column of the probability vector.
func NewMeanProbability(stateID string, index int) *MeanProbability {
	return &MeanProbability{stateID: stateID, index: index}
}

func (m *MeanProbability) Name() string { return "mean_p_" + m.stateID }

func (m *MeanProbability) Observe(s engine.Sample) {
	if m.index < len(s.Probabilities) {
		m.sum += s.Probabilities[m.index]
		m.count++
	}
}

func (m *MeanProbability) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *MeanProbability) Reset() {
	m.sum = 0
	m.count = 0
}

// ProbabilityDrift tracks the worst deviation of the probability sum
// from one, a cheap conservation check on the integrator.
type ProbabilityDrift struct {
	worst float64
}

func (m *ProbabilityDrift) Name() string { return "max_probability_drift" }

func (m *ProbabilityDrift) Observe(s engine.Sample) {
	sum := 0.0
	for _, p := range s.Probabilities {
		sum += p
	}
	if d := math.Abs(sum - 1); d > m.worst {
		m.worst = d
	}
}

func (m *ProbabilityDrift) Value() float64 { return m.worst }
func (m *ProbabilityDrift) Reset()         { m.worst = 0 }

// Standard returns the default metric set for a result's state map:
// peak current, transferred charge, probability drift, and the mean
// occupancy of every state in the index.
func Standard(stateIndex map[string]int) []Metric {
	ms := []Metric{
		&PeakCurrent{},
		&TransferredCharge{},
		&ProbabilityDrift{},
	}
	for id, idx := range stateIndex {
		ms = append(ms, NewMeanProbability(id, idx))
	}
	return ms
}

// Collect feeds every sample of a result through the metrics and
// returns name -> value.
func Collect(res *engine.Result, ms []Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < res.Len(); i++ {
		s := res.Sample(i)
		for _, m := range ms {
			m.Observe(s)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
