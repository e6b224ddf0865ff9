package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/ionsim/internal/channel"
)

// A preset bundles a ready-made channel model with a matching stimulus
// protocol, so the CLI can run without external files.
type presetBuilder func() (*channel.Model, *channel.Protocol, error)

var presets = map[string]presetBuilder{
	"kv2-step":   kv2Step,
	"kv2-hold40": kv2Hold40,
	"kv5-step":   kv5Step,
}

// GetPreset builds the named preset model and protocol.
func GetPreset(name string) (*channel.Model, *channel.Protocol, error) {
	build, ok := presets[name]
	if !ok {
		return nil, nil, fmt.Errorf("config: unknown preset %q (available: %v)", name, ListPresets())
	}
	return build()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kv2Model() (*channel.Model, error) {
	return channel.NewModel("kv_two_state",
		[]channel.State{
			{ID: "C", Name: "Closed", Conductance: 0},
			{ID: "O", Name: "Open", Conductance: 1.2},
		},
		[]channel.RateFunction{
			{ID: "alpha", Equation: "0.1 * exp(V / 25.0)"},
			{ID: "beta", Equation: "0.2 * exp(-V / 50.0)"},
		},
		[]channel.Transition{
			{From: "C", To: "O", RateFunctionID: "alpha", Multiplier: 1},
			{From: "O", To: "C", RateFunctionID: "beta", Multiplier: 1},
		})
}

// kv2Step: two-state channel, -80 mV holding with a 200 ms step to +40.
func kv2Step() (*channel.Model, *channel.Protocol, error) {
	m, err := kv2Model()
	if err != nil {
		return nil, nil, err
	}
	p, err := channel.NewProtocol("step_to_plus40",
		channel.HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5},
		[]channel.Epoch{
			{Variable: channel.VarVoltageMV, StartTimeMS: 100, DurationMS: 200, Value: 40},
		})
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}

// kv2Hold40: two-state channel held at +40 mV, no epochs. Drives a
// sustained outward current that visibly depletes internal potassium.
func kv2Hold40() (*channel.Model, *channel.Protocol, error) {
	m, err := kv2Model()
	if err != nil {
		return nil, nil, err
	}
	p, err := channel.NewProtocol("hold_plus40",
		channel.HoldingValues{VoltageMV: 40, InternalKMM: 140, ExternalKMM: 5},
		nil)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}

// kv5Step: five-state linear activation scheme C4-C3-C2-C1-O with
// binomially weighted rates (4a/3a/2a/1a forward, 1b/2b/3b/4b back),
// the classic Hodgkin-Huxley n^4 gate written as a Markov chain. All
// four forward transitions share one compiled rate function.
func kv5Step() (*channel.Model, *channel.Protocol, error) {
	m, err := channel.NewModel("kv_five_state",
		[]channel.State{
			{ID: "C4", Name: "Closed, 4 gates down", Conductance: 0},
			{ID: "C3", Name: "Closed, 3 gates down", Conductance: 0},
			{ID: "C2", Name: "Closed, 2 gates down", Conductance: 0},
			{ID: "C1", Name: "Closed, 1 gate down", Conductance: 0},
			{ID: "O", Name: "Open", Conductance: 2.0},
		},
		[]channel.RateFunction{
			{ID: "alpha", Equation: "0.1 * exp(V / 25.0)"},
			{ID: "beta", Equation: "0.2 * exp(-V / 50.0)"},
		},
		[]channel.Transition{
			{From: "C4", To: "C3", RateFunctionID: "alpha", Multiplier: 4},
			{From: "C3", To: "C2", RateFunctionID: "alpha", Multiplier: 3},
			{From: "C2", To: "C1", RateFunctionID: "alpha", Multiplier: 2},
			{From: "C1", To: "O", RateFunctionID: "alpha", Multiplier: 1},
			{From: "O", To: "C1", RateFunctionID: "beta", Multiplier: 4},
			{From: "C1", To: "C2", RateFunctionID: "beta", Multiplier: 3},
			{From: "C2", To: "C3", RateFunctionID: "beta", Multiplier: 2},
			{From: "C3", To: "C4", RateFunctionID: "beta", Multiplier: 1},
		})
	if err != nil {
		return nil, nil, err
	}
	p, err := channel.NewProtocol("step_to_plus40",
		channel.HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5},
		[]channel.Epoch{
			{Variable: channel.VarVoltageMV, StartTimeMS: 100, DurationMS: 200, Value: 40},
		})
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}
