package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.TimeColumn != "Time (s)" {
		t.Errorf("expected time column Time (s), got %s", cfg.Input.TimeColumn)
	}
	if cfg.Input.SubjectPrefix != "Mouse" {
		t.Errorf("expected subject prefix Mouse, got %s", cfg.Input.SubjectPrefix)
	}
	if cfg.Figure.Width != 20 || cfg.Figure.Height != 6 {
		t.Errorf("expected 20x6 figure, got %gx%g", cfg.Figure.Width, cfg.Figure.Height)
	}
	if cfg.Figure.DPI != 300 {
		t.Errorf("expected dpi 300, got %d", cfg.Figure.DPI)
	}
	if cfg.Scale.VMin != nil || cfg.Scale.VMax != nil {
		t.Error("expected automatic scale bounds by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
title: "Cohort A"
figure:
  dpi: 150
  cmap: viridis
scale:
  vmin: -2.5
colorbar: true
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Cohort A" {
		t.Errorf("expected title Cohort A, got %s", cfg.Title)
	}
	if cfg.Figure.DPI != 150 {
		t.Errorf("expected dpi 150, got %d", cfg.Figure.DPI)
	}
	if cfg.Figure.Cmap != "viridis" {
		t.Errorf("expected cmap viridis, got %s", cfg.Figure.Cmap)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Figure.Width != 20 {
		t.Errorf("expected width 20, got %g", cfg.Figure.Width)
	}
	if cfg.Input.TimeColumn != "Time (s)" {
		t.Errorf("expected default time column, got %s", cfg.Input.TimeColumn)
	}
	if cfg.Scale.VMin == nil || *cfg.Scale.VMin != -2.5 {
		t.Error("expected vmin -2.5")
	}
	if cfg.Scale.VMax != nil {
		t.Error("expected vmax to stay automatic")
	}
	if !cfg.Colorbar {
		t.Error("expected colorbar true")
	}
}

func TestLoadOverBase(t *testing.T) {
	base := GetPreset("poster")
	if base == nil {
		t.Fatal("expected poster preset")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("figure:\n  dpi: 96\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Figure.DPI != 96 {
		t.Errorf("expected dpi 96 from file, got %d", cfg.Figure.DPI)
	}
	if cfg.Figure.Width != 24 {
		t.Errorf("expected width 24 from preset, got %g", cfg.Figure.Width)
	}
}

func TestLoadOverPresetLeavesRegistry(t *testing.T) {
	base := GetPreset("publication")
	if base == nil {
		t.Fatal("expected publication preset")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scale:\n  vmin: -9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scale.VMin == nil || *cfg.Scale.VMin != -9 {
		t.Error("expected vmin -9 from file")
	}
	if got := *Presets["publication"].Scale.VMin; got != -3 {
		t.Errorf("preset registry vmin = %g after Load, want -3", got)
	}
	if got := *base.Scale.VMin; got != -3 {
		t.Errorf("base config vmin = %g after Load, want -3", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("figure: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("expected error for bad yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Title = "saved"
	cfg.Scale.VMax = f64(2)

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "saved" {
		t.Errorf("expected title saved, got %s", got.Title)
	}
	if got.Scale.VMax == nil || *got.Scale.VMax != 2 {
		t.Error("expected vmax 2 after round trip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Figure.Width = 0 }},
		{"negative height", func(c *Config) { c.Figure.Height = -1 }},
		{"zero dpi", func(c *Config) { c.Figure.DPI = 0 }},
		{"negative tick interval", func(c *Config) { c.Figure.XTickInterval = -5 }},
		{"vmin above vmax", func(c *Config) { c.Scale.VMin = f64(2); c.Scale.VMax = f64(-2) }},
		{"vmin equals vmax", func(c *Config) { c.Scale.VMin = f64(1); c.Scale.VMax = f64(1) }},
		{"empty time column", func(c *Config) { c.Input.TimeColumn = "" }},
		{"empty subject prefix", func(c *Config) { c.Input.SubjectPrefix = "" }},
		{"unknown cmap", func(c *Config) { c.Figure.Cmap = "sunburst" }},
		{"bad background", func(c *Config) { c.Figure.Background = "white" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("publication")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scale.VMin == nil || *cfg.Scale.VMin != -3 {
		t.Error("expected publication vmin -3")
	}

	// Mutating the returned config must not touch the registry,
	// including through the scale bound pointers.
	cfg.Figure.DPI = 1
	if Presets["publication"].Figure.DPI == 1 {
		t.Error("preset registry was mutated through GetPreset")
	}
	*cfg.Scale.VMin = -9
	if got := *Presets["publication"].Scale.VMin; got != -3 {
		t.Errorf("registry vmin = %g after writing through the copy, want -3", got)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %s before %s", names[i-1], names[i])
		}
	}
}

func TestAllPresetsValid(t *testing.T) {
	for name := range Presets {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "Z-score Heatmap (n=4)"

	opt, err := cfg.RenderOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Title != "Z-score Heatmap (n=4)" {
		t.Errorf("expected title to carry over, got %s", opt.Title)
	}
	if opt.YLabel != "Mouse ID" {
		t.Errorf("expected y label Mouse ID, got %s", opt.YLabel)
	}
	if opt.XLabel != "Time Point Index" {
		t.Errorf("expected x label Time Point Index, got %s", opt.XLabel)
	}
	if opt.Cmap.Name != "YlOrRd" {
		t.Errorf("expected YlOrRd, got %s", opt.Cmap.Name)
	}
	if !opt.Colorbar {
		t.Error("expected the embedded scale strip to be on")
	}
	if opt.DPI != 300 || opt.WidthIn != 20 || opt.HeightIn != 6 {
		t.Errorf("figure geometry did not carry over: %gx%g at %d", opt.WidthIn, opt.HeightIn, opt.DPI)
	}
}
