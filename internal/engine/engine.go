package engine

import (
	"fmt"
	"math"

	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/ratexpr"
)

// Physical constants for monovalent potassium at 20 C.
const (
	gasConstantR   = 8.314   // J/(mol*K)
	faradayF       = 96485.0 // C/mol
	temperatureK   = 293.15
	valenceZ       = 1.0
	rtOverZFVoltsM = gasConstantR * temperatureK / (valenceZ * faradayF)
)

// compiledTransition is a transition with its rate function resolved to
// state indices and a compiled closure.
type compiledTransition struct {
	from, to   int
	rate       ratexpr.Func
	multiplier float64
}

// Engine holds the immutable, precompiled form of one model+protocol
// pair. Safe for concurrent reuse across runs.
type Engine struct {
	model       *channel.Model
	protocol    *channel.Protocol
	stimulus    *channel.Stimulus
	stateIdx    map[string]int
	cond        []float64
	transitions []compiledTransition
	rates       map[string]ratexpr.Func
	volInt      float64
	volExt      float64
}

// New compiles every unique rate equation once and resolves the
// topology to index form. The model and protocol are trusted to be
// internally consistent (their constructors guarantee it); only the
// equations themselves can still fail here.
func New(model *channel.Model, protocol *channel.Protocol) (*Engine, error) {
	rates := make(map[string]ratexpr.Func, len(model.RateFunctions))
	for _, fn := range model.RateFunctions {
		if _, ok := rates[fn.ID]; ok {
			continue
		}
		f, err := ratexpr.Compile(fn.Equation)
		if err != nil {
			return nil, fmt.Errorf("engine: rate function %q: %w", fn.ID, err)
		}
		rates[fn.ID] = f
	}

	idx := model.StateIndex()
	transitions := make([]compiledTransition, len(model.Transitions))
	for i, tr := range model.Transitions {
		transitions[i] = compiledTransition{
			from:       idx[tr.From],
			to:         idx[tr.To],
			rate:       rates[tr.RateFunctionID],
			multiplier: tr.Multiplier,
		}
	}

	return &Engine{
		model:       model,
		protocol:    protocol,
		stimulus:    channel.NewStimulus(protocol),
		stateIdx:    idx,
		cond:        model.Conductances(),
		transitions: transitions,
		rates:       rates,
		volInt:      protocol.InternalVolumeL(),
		volExt:      protocol.ExternalVolumeL(),
	}, nil
}

// NumStates returns the number of conformational states.
func (e *Engine) NumStates() int { return len(e.cond) }

// StateIndex returns a copy of the state-id to index mapping.
func (e *Engine) StateIndex() map[string]int {
	idx := make(map[string]int, len(e.stateIdx))
	for k, v := range e.stateIdx {
		idx[k] = v
	}
	return idx
}

// Model returns the channel model this engine was built from.
func (e *Engine) Model() *channel.Model { return e.model }

// Protocol returns the stimulus protocol this engine was built from.
func (e *Engine) Protocol() *channel.Protocol { return e.protocol }

// NernstPotentialMV computes the potassium equilibrium potential for
// the given concentrations (mM). Non-positive concentrations, which can
// transiently arise from numerical overshoot, yield 0 rather than a
// non-finite logarithm.
func NernstPotentialMV(internalKMM, externalKMM float64) float64 {
	if internalKMM <= 0 || externalKMM <= 0 {
		return 0
	}
	return rtOverZFVoltsM * math.Log(externalKMM/internalKMM) * 1000
}
