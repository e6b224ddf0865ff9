package channel

import (
	"errors"
	"testing"
)

func twoStateParts() ([]State, []RateFunction, []Transition) {
	states := []State{
		{ID: "C", Name: "Closed", Conductance: 0},
		{ID: "O", Name: "Open", Conductance: 1.2},
	}
	fns := []RateFunction{
		{ID: "alpha", Equation: "0.1 * exp(V / 25.0)"},
		{ID: "beta", Equation: "0.2 * exp(-V / 50.0)"},
	}
	trans := []Transition{
		{From: "C", To: "O", RateFunctionID: "alpha", Multiplier: 1},
		{From: "O", To: "C", RateFunctionID: "beta", Multiplier: 1},
	}
	return states, fns, trans
}

func TestNewModel_Valid(t *testing.T) {
	states, fns, trans := twoStateParts()
	m, err := NewModel("test_kv1", states, fns, trans)
	if err != nil {
		t.Fatalf("valid model rejected: %v", err)
	}
	if m.NumStates() != 2 {
		t.Errorf("expected 2 states, got %d", m.NumStates())
	}
	idx := m.StateIndex()
	if idx["C"] != 0 || idx["O"] != 1 {
		t.Errorf("state index should follow declaration order, got %v", idx)
	}
	g := m.Conductances()
	if g[0] != 0 || g[1] != 1.2 {
		t.Errorf("unexpected conductances %v", g)
	}
}

func TestNewModel_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition)
	}{
		{"no states", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return nil, f, tr
		}},
		{"no rate functions", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return s, nil, tr
		}},
		{"duplicate state id", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return append(s, State{ID: "C", Name: "again"}), f, tr
		}},
		{"negative conductance", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			s[1].Conductance = -1
			return s, f, tr
		}},
		{"duplicate function id", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return s, append(f, RateFunction{ID: "alpha", Equation: "V"}), tr
		}},
		{"unknown from state", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return s, f, append(tr, Transition{From: "Z", To: "O", RateFunctionID: "alpha", Multiplier: 1})
		}},
		{"unknown to state", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return s, f, append(tr, Transition{From: "C", To: "Z", RateFunctionID: "alpha", Multiplier: 1})
		}},
		{"unknown rate function", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			return s, f, append(tr, Transition{From: "C", To: "O", RateFunctionID: "gamma", Multiplier: 1})
		}},
		{"zero multiplier", func(s []State, f []RateFunction, tr []Transition) ([]State, []RateFunction, []Transition) {
			tr[0].Multiplier = 0
			return s, f, tr
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, f, tr := twoStateParts()
			s, f, tr = tt.mutate(s, f, tr)
			_, err := NewModel("bad", s, f, tr)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidModel) {
				t.Errorf("expected ErrInvalidModel, got %v", err)
			}
		})
	}
}

func TestNewModel_CopiesInputs(t *testing.T) {
	states, fns, trans := twoStateParts()
	m, err := NewModel("kv", states, fns, trans)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	states[0].ID = "mutated"
	trans[0].Multiplier = 99
	if m.States[0].ID != "C" {
		t.Error("model should not alias caller's state slice")
	}
	if m.Transitions[0].Multiplier != 1 {
		t.Error("model should not alias caller's transition slice")
	}
}
