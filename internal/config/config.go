package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDurationMS = 500.0
	DefaultSteps      = 500
	DefaultIntegrator = "rk45"
	DefaultRtol       = 1e-6
	DefaultAtol       = 1e-9
	DefaultDataDir    = ".ionsim"
)

// Config is a run configuration file. CLI flags override it; see cmd.
type Config struct {
	Model      string  `yaml:"model"`    // path to a model file
	Protocol   string  `yaml:"protocol"` // path to a protocol file
	Preset     string  `yaml:"preset"`   // built-in model+protocol pair
	DurationMS float64 `yaml:"duration_ms"`
	Steps      int     `yaml:"steps"`
	Integrator string  `yaml:"integrator"` // euler, rk4, rk45
	Rtol       float64 `yaml:"rtol"`
	Atol       float64 `yaml:"atol"`
	DataDir    string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		DurationMS: DefaultDurationMS,
		Steps:      DefaultSteps,
		Integrator: DefaultIntegrator,
		Rtol:       DefaultRtol,
		Atol:       DefaultAtol,
		DataDir:    DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
