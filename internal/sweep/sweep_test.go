package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/engine"
)

func twoStateModel(t *testing.T) *channel.Model {
	t.Helper()
	m, err := channel.NewModel("test_kv1",
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
	if err != nil {
		t.Fatalf("model construction failed: %v", err)
	}
	return m
}

func baseProtocol(t *testing.T) *channel.Protocol {
	t.Helper()
	p, err := channel.NewProtocol("base",
		channel.HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5},
		[]channel.Epoch{
			{Variable: channel.VarVoltageMV, StartTimeMS: 10, DurationMS: 20, Value: 40},
		})
	if err != nil {
		t.Fatalf("protocol construction failed: %v", err)
	}
	return p
}

func TestVoltageRange(t *testing.T) {
	vs := VoltageRange(-100, 60, 20)
	if len(vs) != 9 {
		t.Fatalf("expected 9 voltages, got %d: %v", len(vs), vs)
	}
	if vs[0] != -100 || vs[len(vs)-1] != 60 {
		t.Errorf("range endpoints %v", vs)
	}
	if VoltageRange(0, -10, 20) != nil {
		t.Error("inverted range should be empty")
	}
	if VoltageRange(0, 10, 0) != nil {
		t.Error("zero step should be empty")
	}
}

func TestIVCurve(t *testing.T) {
	model := twoStateModel(t)
	protocol := baseProtocol(t)
	cfg := engine.RunConfig{DurationMS: 200, Steps: 100}

	nernst := engine.NernstPotentialMV(140, 5)
	voltages := []float64{nernst, -120, 40}

	points, err := IVCurve(context.Background(), model, protocol, voltages, cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	// points come back sorted by voltage
	if points[0].VoltageMV != -120 || points[2].VoltageMV != 40 {
		t.Errorf("points not sorted: %+v", points)
	}

	// at the Nernst potential there is no driving force
	for _, p := range points {
		if p.VoltageMV == nernst && math.Abs(p.SteadyCurrentPA) > 1e-6 {
			t.Errorf("current at reversal = %g, want ~0", p.SteadyCurrentPA)
		}
	}

	// outward above reversal, inward below
	if points[2].SteadyCurrentPA <= 0 {
		t.Errorf("current at +40 = %g, want positive", points[2].SteadyCurrentPA)
	}
	if points[0].SteadyCurrentPA >= 0 {
		t.Errorf("current at -120 = %g, want negative", points[0].SteadyCurrentPA)
	}
}

func TestIVCurve_NoVoltages(t *testing.T) {
	if _, err := IVCurve(context.Background(), twoStateModel(t), baseProtocol(t), nil, engine.RunConfig{DurationMS: 10, Steps: 10}); err == nil {
		t.Error("expected error for empty voltage list")
	}
}

func TestIVCurve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := IVCurve(ctx, twoStateModel(t), baseProtocol(t), []float64{-80, 0, 40}, engine.RunConfig{DurationMS: 500, Steps: 500}); err == nil {
		t.Error("expected error after cancellation")
	}
}
