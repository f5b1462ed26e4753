package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preset != "solar" {
		t.Errorf("expected preset solar, got %s", cfg.Preset)
	}
	if cfg.G != 6.67408e-11 {
		t.Errorf("expected SI gravitational constant, got %g", cfg.G)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero g", func(c *Config) { c.G = 0 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"zero sample_every", func(c *Config) { c.SampleEvery = 0 }},
		{"zero fps", func(c *Config) { c.Live.FPS = 0 }},
		{"unknown preset", func(c *Config) { c.Preset = "andromeda" }},
		{"no source", func(c *Config) { c.Preset = "" }},
		{"two sources", func(c *Config) { c.Scenario = "solar.txt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Dt = 60
	cfg.Workers = 4
	cfg.Live.Trail = 10
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Dt != 60 || loaded.Workers != 4 || loaded.Live.Trail != 10 || loaded.Preset != "solar" {
		t.Errorf("unexpected config %+v", loaded)
	}
}

func TestLoad_ScenarioReplacesDefaultPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	data := "scenario: systems/solar.txt\ndt: 120\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Preset != "" {
		t.Errorf("expected preset cleared, got %q", cfg.Preset)
	}
	if cfg.Dt != 120 || cfg.Steps != DefaultSteps {
		t.Errorf("expected dt 120 and default steps, got %v %v", cfg.Dt, cfg.Steps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
	if cfg.Source() != "systems/solar.txt" {
		t.Errorf("unexpected source %q", cfg.Source())
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("earth-moon")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Dt != 60 {
		t.Errorf("expected dt 60, got %f", p.Dt)
	}

	cfg := p.Config("earth-moon")
	if cfg.Preset != "earth-moon" || cfg.Steps != p.Steps {
		t.Errorf("unexpected preset config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset config should be valid: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if strings.Join(presets, ",") != "binary,earth-moon,figure-eight,solar" {
		t.Errorf("unexpected presets %v", presets)
	}
}
