package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DurationMS <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Steps < 2 {
		t.Error("steps should be at least 2")
	}
	if cfg.Integrator != "rk45" {
		t.Errorf("expected rk45 default, got %s", cfg.Integrator)
	}
	if cfg.Rtol != 1e-6 || cfg.Atol != 1e-9 {
		t.Errorf("unexpected default tolerances rtol=%g atol=%g", cfg.Rtol, cfg.Atol)
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Preset = "kv2-step"
	cfg.DurationMS = 400
	cfg.Steps = 250

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "kv2-step" || loaded.DurationMS != 400 || loaded.Steps != 250 {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
	// untouched fields keep defaults
	if loaded.Integrator != DefaultIntegrator {
		t.Errorf("expected default integrator, got %s", loaded.Integrator)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected built-in presets")
	}
	for _, name := range names {
		m, p, err := GetPreset(name)
		if err != nil {
			t.Errorf("preset %s failed to build: %v", name, err)
			continue
		}
		if m == nil || p == nil {
			t.Errorf("preset %s returned nil parts", name)
		}
	}
}

func TestGetPreset_Unknown(t *testing.T) {
	if _, _, err := GetPreset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPreset_Kv5Topology(t *testing.T) {
	m, _, err := GetPreset("kv5-step")
	if err != nil {
		t.Fatalf("preset failed: %v", err)
	}
	if m.NumStates() != 5 {
		t.Errorf("expected 5 states, got %d", m.NumStates())
	}
	if len(m.Transitions) != 8 {
		t.Errorf("expected 8 transitions, got %d", len(m.Transitions))
	}
	if idx := m.StateIndex(); idx["C4"] != 0 {
		t.Errorf("initial state should be C4 at index 0, got %v", idx)
	}
}
