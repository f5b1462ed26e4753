package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultG             = 6.67408e-11
	DefaultEpsilon       = 1e-9
	DefaultDt            = 3600.0
	DefaultSteps         = 8760
	DefaultSampleEvery   = 24
	DefaultPreset        = "solar"
	DefaultFPS           = 30
	DefaultStepsPerFrame = 24
	DefaultTrail         = 120
)

type Config struct {
	Scenario    string     `yaml:"scenario,omitempty"`
	Preset      string     `yaml:"preset,omitempty"`
	G           float64    `yaml:"g"`
	Epsilon     float64    `yaml:"epsilon"`
	Dt          float64    `yaml:"dt"`
	Steps       int        `yaml:"steps"`
	Workers     int        `yaml:"workers"`
	SampleEvery int        `yaml:"sample_every"`
	AutoOrbit   bool       `yaml:"auto_orbit"`
	Lenient     bool       `yaml:"lenient"`
	Live        LiveConfig `yaml:"live"`
}

// LiveConfig controls the terminal view. The physics rate is
// FPS * StepsPerFrame steps per wall-clock second.
type LiveConfig struct {
	FPS           int `yaml:"fps"`
	StepsPerFrame int `yaml:"steps_per_frame"`
	Trail         int `yaml:"trail"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      DefaultPreset,
		G:           DefaultG,
		Epsilon:     DefaultEpsilon,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Workers:     0,
		SampleEvery: DefaultSampleEvery,
		Live: LiveConfig{
			FPS:           DefaultFPS,
			StepsPerFrame: DefaultStepsPerFrame,
			Trail:         DefaultTrail,
		},
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
	// a scenario file in the config replaces the default preset
	if cfg.Scenario != "" && !mentionsPreset(data) {
		cfg.Preset = ""
	}
	return cfg, nil
}

func mentionsPreset(data []byte) bool {
	var probe struct {
		Preset *string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Preset != nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scenario != "" && c.Preset != "" {
		return fmt.Errorf("config: scenario and preset are mutually exclusive")
	}
	if c.Scenario == "" && c.Preset == "" {
		return fmt.Errorf("config: one of scenario or preset is required")
	}
	if c.Preset != "" && GetPreset(c.Preset) == nil {
		return fmt.Errorf("config: unknown preset %q (available: %v)", c.Preset, ListPresets())
	}
	if !(c.G > 0) {
		return fmt.Errorf("config: g must be positive, got %g", c.G)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("config: epsilon must not be negative, got %g", c.Epsilon)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must not be negative, got %d", c.Steps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("config: sample_every must be at least 1, got %d", c.SampleEvery)
	}
	if c.Live.FPS < 1 || c.Live.StepsPerFrame < 1 {
		return fmt.Errorf("config: live fps and steps_per_frame must be at least 1")
	}
	return nil
}

// Source names where the bodies come from, for run metadata.
func (c *Config) Source() string {
	if c.Scenario != "" {
		return c.Scenario
	}
	return "preset:" + c.Preset
}
