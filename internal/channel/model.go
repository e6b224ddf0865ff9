package channel

import "fmt"

// State is one conformational configuration of the channel.
type State struct {
	ID          string
	Name        string
	Conductance float64 // nS, >= 0
}

// RateFunction is a reusable voltage-dependent rate formula, referenced
// from transitions by ID.
type RateFunction struct {
	ID       string
	Equation string
}

// Transition is a directed rate path between two states. The effective
// rate is the referenced function evaluated at V, times Multiplier.
type Transition struct {
	From           string
	To             string
	RateFunctionID string
	Multiplier     float64 // > 0
}

// Model is an immutable channel topology. State order is significant:
// it defines the state index, and index 0 is the initially occupied
// state of every run.
type Model struct {
	ChannelID     string
	States        []State
	RateFunctions []RateFunction
	Transitions   []Transition
}

// NewModel validates the topology and returns an immutable Model.
// Checks: at least one state and one rate function, unique IDs,
// non-negative conductances, positive multipliers, and every transition
// endpoint and rate-function reference resolving to a declared ID.
func NewModel(channelID string, states []State, rateFns []RateFunction, transitions []Transition) (*Model, error) {
	if channelID == "" {
		return nil, fmt.Errorf("%w: empty channel id", ErrInvalidModel)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidModel)
	}
	if len(rateFns) == 0 {
		return nil, fmt.Errorf("%w: no rate functions", ErrInvalidModel)
	}

	stateIDs := make(map[string]bool, len(states))
	for i, s := range states {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: state %d has empty id", ErrInvalidModel, i)
		}
		if stateIDs[s.ID] {
			return nil, fmt.Errorf("%w: duplicate state id %q", ErrInvalidModel, s.ID)
		}
		if s.Conductance < 0 {
			return nil, fmt.Errorf("%w: state %q has negative conductance %g", ErrInvalidModel, s.ID, s.Conductance)
		}
		stateIDs[s.ID] = true
	}

	fnIDs := make(map[string]bool, len(rateFns))
	for i, f := range rateFns {
		if f.ID == "" {
			return nil, fmt.Errorf("%w: rate function %d has empty id", ErrInvalidModel, i)
		}
		if fnIDs[f.ID] {
			return nil, fmt.Errorf("%w: duplicate rate function id %q", ErrInvalidModel, f.ID)
		}
		fnIDs[f.ID] = true
	}

	for i, tr := range transitions {
		if !stateIDs[tr.From] {
			return nil, fmt.Errorf("%w: transition %d: %q is not a defined state id", ErrInvalidModel, i, tr.From)
		}
		if !stateIDs[tr.To] {
			return nil, fmt.Errorf("%w: transition %d: %q is not a defined state id", ErrInvalidModel, i, tr.To)
		}
		if !fnIDs[tr.RateFunctionID] {
			return nil, fmt.Errorf("%w: transition %d: %q is not a defined rate function id", ErrInvalidModel, i, tr.RateFunctionID)
		}
		if tr.Multiplier <= 0 {
			return nil, fmt.Errorf("%w: transition %d: multiplier must be positive, got %g", ErrInvalidModel, i, tr.Multiplier)
		}
	}

	m := &Model{
		ChannelID:     channelID,
		States:        append([]State(nil), states...),
		RateFunctions: append([]RateFunction(nil), rateFns...),
		Transitions:   append([]Transition(nil), transitions...),
	}
	return m, nil
}

// NumStates returns the number of conformational states.
func (m *Model) NumStates() int { return len(m.States) }

// StateIndex maps state IDs to their index in declaration order.
func (m *Model) StateIndex() map[string]int {
	idx := make(map[string]int, len(m.States))
	for i, s := range m.States {
		idx[s.ID] = i
	}
	return idx
}

// Conductances returns the per-state conductance vector (nS) in index order.
func (m *Model) Conductances() []float64 {
	g := make([]float64, len(m.States))
	for i, s := range m.States {
		g[i] = s.Conductance
	}
	return g
}
