package config

import "sort"

func f64(v float64) *float64 { return &v }

// Presets are complete configurations tuned for common output targets.
// A preset replaces the defaults wholesale; config files and flags still
// override individual fields afterwards.
var Presets = map[string]*Config{
	"publication": {
		Input: InputConfig{TimeColumn: DefaultTimeColumn, SubjectPrefix: DefaultSubjectPrefix},
		Figure: FigureConfig{
			Width: 20, Height: 6, DPI: 300,
			Cmap: "YlOrRd", XTickInterval: 500,
			Background: "#ffffff", Foreground: "#000000",
		},
		Scale:    ScaleConfig{VMin: f64(-3), VMax: f64(3)},
		Colorbar: true,
	},
	"poster": {
		Input: InputConfig{TimeColumn: DefaultTimeColumn, SubjectPrefix: DefaultSubjectPrefix},
		Figure: FigureConfig{
			Width: 24, Height: 8, DPI: 300,
			Cmap: "viridis", XTickInterval: 500,
			Background: "#ffffff", Foreground: "#000000",
		},
		Colorbar: true,
	},
	"draft": {
		Input: InputConfig{TimeColumn: DefaultTimeColumn, SubjectPrefix: DefaultSubjectPrefix},
		Figure: FigureConfig{
			Width: 20, Height: 6, DPI: 72,
			Cmap: "YlOrRd", XTickInterval: 500,
			Background: "#ffffff", Foreground: "#000000",
		},
	},
	"wide": {
		Input: InputConfig{TimeColumn: DefaultTimeColumn, SubjectPrefix: DefaultSubjectPrefix},
		Figure: FigureConfig{
			Width: 30, Height: 5, DPI: 200,
			Cmap: "YlOrRd", XTickInterval: 250,
			Background: "#ffffff", Foreground: "#000000",
		},
		Colorbar: true,
	},
	"dark": {
		Input: InputConfig{TimeColumn: DefaultTimeColumn, SubjectPrefix: DefaultSubjectPrefix},
		Figure: FigureConfig{
			Width: 20, Height: 6, DPI: 300,
			Cmap: "magma", XTickInterval: 500,
			Background: "#121212", Foreground: "#e0e0e0",
		},
		Colorbar: true,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
