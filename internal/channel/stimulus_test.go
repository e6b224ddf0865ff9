package channel

import (
	"errors"
	"testing"
)

func stepProtocol(t *testing.T) *Protocol {
	t.Helper()
	volInt := 1e-12
	volExt := 1e-6
	p, err := NewProtocol("test_step",
		HoldingValues{
			VoltageMV:       -80,
			InternalKMM:     140,
			ExternalKMM:     5,
			VolumeInternalL: &volInt,
			VolumeExternalL: &volExt,
		},
		[]Epoch{
			{Variable: VarVoltageMV, StartTimeMS: 100, DurationMS: 200, Value: 40},
		})
	if err != nil {
		t.Fatalf("valid protocol rejected: %v", err)
	}
	return p
}

func TestStimulus_EpochBoundaries(t *testing.T) {
	stim := NewStimulus(stepProtocol(t))

	tests := []struct {
		tMs  float64
		want float64
	}{
		{0, -80},
		{50, -80},
		{99.9, -80},
		{100.0, 40}, // active at exact start
		{150, 40},
		{299.9, 40},
		{300.0, -80}, // inactive at exact end
		{1000, -80},
	}
	for _, tt := range tests {
		if got := stim.ValueAt(VarVoltageMV, tt.tMs); got != tt.want {
			t.Errorf("ValueAt(voltage_mV, %g) = %g, want %g", tt.tMs, got, tt.want)
		}
	}
}

func TestStimulus_HoldingFallback(t *testing.T) {
	stim := NewStimulus(stepProtocol(t))
	if got := stim.ValueAt(VarInternalKMM, 150); got != 140 {
		t.Errorf("expected holding internal K 140, got %g", got)
	}
	if got := stim.ValueAt(VarExternalKMM, 150); got != 5 {
		t.Errorf("expected holding external K 5, got %g", got)
	}
}

func TestStimulus_OverlapFirstDeclaredWins(t *testing.T) {
	p, err := NewProtocol("overlap",
		HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5},
		[]Epoch{
			{Variable: VarVoltageMV, StartTimeMS: 0, DurationMS: 100, Value: 10},
			{Variable: VarVoltageMV, StartTimeMS: 50, DurationMS: 100, Value: 20},
		})
	if err != nil {
		t.Fatalf("protocol rejected: %v", err)
	}
	stim := NewStimulus(p)

	if got := stim.ValueAt(VarVoltageMV, 75); got != 10 {
		t.Errorf("overlap at t=75 should resolve to first epoch (10), got %g", got)
	}
	if got := stim.ValueAt(VarVoltageMV, 120); got != 20 {
		t.Errorf("t=120 is only inside the second epoch, want 20, got %g", got)
	}
}

func TestProtocol_VolumeDefaults(t *testing.T) {
	p, err := NewProtocol("defaults",
		HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5},
		nil)
	if err != nil {
		t.Fatalf("protocol rejected: %v", err)
	}
	if p.InternalVolumeL() != DefaultInternalVolumeL {
		t.Errorf("expected default internal volume, got %g", p.InternalVolumeL())
	}
	if p.ExternalVolumeL() != DefaultExternalVolumeL {
		t.Errorf("expected default external volume, got %g", p.ExternalVolumeL())
	}

	stim := NewStimulus(p)
	if got := stim.ValueAt(VarVolumeInternalL, 0); got != DefaultInternalVolumeL {
		t.Errorf("stimulus should expose resolved volume, got %g", got)
	}
}

func TestNewProtocol_Invalid(t *testing.T) {
	hv := HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5}
	bad := -1.0

	tests := []struct {
		name   string
		id     string
		hv     HoldingValues
		epochs []Epoch
	}{
		{"empty id", "", hv, nil},
		{"bad variable", "p", hv, []Epoch{{Variable: "temperature_C", StartTimeMS: 0, DurationMS: 10, Value: 37}}},
		{"negative start", "p", hv, []Epoch{{Variable: VarVoltageMV, StartTimeMS: -1, DurationMS: 10, Value: 0}}},
		{"zero duration", "p", hv, []Epoch{{Variable: VarVoltageMV, StartTimeMS: 0, DurationMS: 0, Value: 0}}},
		{"negative volume", "p", HoldingValues{VoltageMV: -80, InternalKMM: 140, ExternalKMM: 5, VolumeInternalL: &bad}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProtocol(tt.id, tt.hv, tt.epochs)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidProtocol) {
				t.Errorf("expected ErrInvalidProtocol, got %v", err)
			}
		})
	}
}
