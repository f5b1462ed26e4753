package config

import "sort"

// Preset is a built-in scenario with the parameters it was tuned for.
type Preset struct {
	Description string
	G           float64
	Dt          float64
	Steps       int
	SampleEvery int
	Bodies      string
}

var Presets = map[string]*Preset{
	"solar": {
		Description: "Sun and the four inner planets, one year",
		G:           DefaultG, Dt: 3600, Steps: 8760, SampleEvery: 24,
		Bodies: `# Sun and inner planets, SI units
Star 30 yellow 1.98892e+30 0 0 0 0
Planet 3 gray 3.302e+23 5.7909e+10 0 0 47870
Planet 5 orange 4.869e+24 1.0821e+11 0 0 35020
Planet 5 blue 5.9742e+24 1.496e+11 0 0 29783
Planet 4 red 6.4191e+23 2.2794e+11 0 0 24130
`,
	},
	"earth-moon": {
		Description: "Earth and Moon, one sidereal month",
		G:           DefaultG, Dt: 60, Steps: 39312, SampleEvery: 60,
		Bodies: `Star 10 blue 5.9742e+24 0 0 0 0
Planet 3 gray 7.35e+22 3.844e+08 0 0 1022
`,
	},
	"binary": {
		Description: "two equal stars with a circumbinary planet, two years",
		G:           DefaultG, Dt: 3600, Steps: 17520, SampleEvery: 24,
		Bodies: `Star 12 yellow 2e+30 -5e+10 0 0 -25835
Star 12 orange 2e+30 5e+10 0 0 25835
Planet 4 cyan 6e+24 4e+11 0 0 25830
`,
	},
	"figure-eight": {
		Description: "three equal masses on the Chenciner-Montgomery orbit, G=1",
		G:           1, Dt: 1e-4, Steps: 63259, SampleEvery: 100,
		Bodies: `Star 8 red 1 -0.97000436 0.24308753 0.466203685 0.43236573
Star 8 green 1 0.97000436 -0.24308753 0.466203685 0.43236573
Star 8 blue 1 0 0 -0.93240737 -0.86473146
`,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the default configuration tuned for the preset.
func (p *Preset) Config(name string) *Config {
	cfg := DefaultConfig()
	cfg.Preset = name
	cfg.G = p.G
	cfg.Dt = p.Dt
	cfg.Steps = p.Steps
	cfg.SampleEvery = p.SampleEvery
	return cfg
}
