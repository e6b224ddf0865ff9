package channel

// Stimulus answers "what is variable X at time t" for one protocol.
// It is read-only after construction and safe for concurrent use.
type Stimulus struct {
	epochs  []Epoch
	holding map[string]float64
}

// NewStimulus builds an evaluator over p, resolving defaulted volumes.
func NewStimulus(p *Protocol) *Stimulus {
	return &Stimulus{
		epochs: p.Epochs,
		holding: map[string]float64{
			VarVoltageMV:       p.HoldingValues.VoltageMV,
			VarInternalKMM:     p.HoldingValues.InternalKMM,
			VarExternalKMM:     p.HoldingValues.ExternalKMM,
			VarVolumeInternalL: p.InternalVolumeL(),
			VarVolumeExternalL: p.ExternalVolumeL(),
		},
	}
}

// ValueAt returns the value of variable at tMs. An epoch overrides the
// holding value while StartTimeMS <= tMs < StartTimeMS+DurationMS;
// epochs are scanned in declaration order and the first match wins, so
// overlapping epochs resolve to the earliest-declared one. Overrides
// are steps: the epoch value applies unramped for the whole interval.
func (s *Stimulus) ValueAt(variable string, tMs float64) float64 {
	for _, e := range s.epochs {
		if e.Variable != variable {
			continue
		}
		if e.StartTimeMS <= tMs && tMs < e.StartTimeMS+e.DurationMS {
			return e.Value
		}
	}
	return s.holding[variable]
}

// Holding returns the resolved baseline value of variable.
func (s *Stimulus) Holding(variable string) float64 {
	return s.holding[variable]
}
