// Package config holds the render settings shared by the CLI flags, YAML
// config files and style presets. Precedence is resolved by the caller:
// flags beat the config file, the config file beats a preset, and the
// preset beats the defaults below.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hmizuno/zheat/internal/colormap"
	"github.com/hmizuno/zheat/internal/render"
)

const (
	DefaultWidth         = 20.0
	DefaultHeight        = 6.0
	DefaultDPI           = 300
	DefaultCmap          = "YlOrRd"
	DefaultTimeColumn    = "Time (s)"
	DefaultSubjectPrefix = "Mouse"
	DefaultXTickInterval = 500
	DefaultBackground    = "#ffffff"
	DefaultForeground    = "#000000"
)

type Config struct {
	Output string       `yaml:"output"`
	Title  string       `yaml:"title"`
	Input  InputConfig  `yaml:"input"`
	Figure FigureConfig `yaml:"figure"`
	Scale  ScaleConfig  `yaml:"scale"`

	// Colorbar writes a standalone legend image next to the heatmap. The
	// heatmap figure itself always carries its own scale strip.
	Colorbar bool `yaml:"colorbar"`
}

type InputConfig struct {
	TimeColumn    string `yaml:"time_column"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type FigureConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	DPI           int     `yaml:"dpi"`
	Cmap          string  `yaml:"cmap"`
	XTickInterval int     `yaml:"xtick_interval"`
	Background    string  `yaml:"background"`
	Foreground    string  `yaml:"foreground"`
}

// ScaleConfig pins the color scale. Nil means derive the bound from the
// data, so 0 stays usable as an explicit limit.
type ScaleConfig struct {
	VMin *float64 `yaml:"vmin"`
	VMax *float64 `yaml:"vmax"`
}

func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			TimeColumn:    DefaultTimeColumn,
			SubjectPrefix: DefaultSubjectPrefix,
		},
		Figure: FigureConfig{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			DPI:           DefaultDPI,
			Cmap:          DefaultCmap,
			XTickInterval: DefaultXTickInterval,
			Background:    DefaultBackground,
			Foreground:    DefaultForeground,
		},
	}
}

// clone returns a copy of c with fresh scale bound pointers; writes
// through the copy cannot reach c.
func (c *Config) clone() *Config {
	out := *c
	if c.Scale.VMin != nil {
		out.Scale.VMin = f64(*c.Scale.VMin)
	}
	if c.Scale.VMax != nil {
		out.Scale.VMax = f64(*c.Scale.VMax)
	}
	return &out
}

// Load reads a YAML config file over base, so keys absent from the file
// keep base's values. A nil base starts from the defaults. The yaml decoder
// writes through any pointer already set on the target, so base is cloned
// rather than copied.
func Load(path string, base *Config) (*Config, error) {
	cfg := DefaultConfig()
	if base != nil {
		cfg = base.clone()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
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

// Validate checks everything that does not need the data: figure geometry,
// the scale ordering and every name that has a registry.
func (c *Config) Validate() error {
	if c.Figure.Width <= 0 {
		return fmt.Errorf("config: figure width must be positive, got %g", c.Figure.Width)
	}
	if c.Figure.Height <= 0 {
		return fmt.Errorf("config: figure height must be positive, got %g", c.Figure.Height)
	}
	if c.Figure.DPI <= 0 {
		return fmt.Errorf("config: dpi must be positive, got %d", c.Figure.DPI)
	}
	if c.Figure.XTickInterval < 0 {
		return fmt.Errorf("config: xtick interval must not be negative, got %d", c.Figure.XTickInterval)
	}
	if c.Scale.VMin != nil && c.Scale.VMax != nil && *c.Scale.VMin >= *c.Scale.VMax {
		return fmt.Errorf("config: vmin %g must be below vmax %g", *c.Scale.VMin, *c.Scale.VMax)
	}
	if c.Input.TimeColumn == "" {
		return fmt.Errorf("config: time column name is empty")
	}
	if c.Input.SubjectPrefix == "" {
		return fmt.Errorf("config: subject prefix is empty")
	}
	if _, err := colormap.Get(c.Figure.Cmap); err != nil {
		return err
	}
	if _, err := colormap.ParseHex(c.Figure.Background); err != nil {
		return err
	}
	if _, err := colormap.ParseHex(c.Figure.Foreground); err != nil {
		return err
	}
	return nil
}

// RenderOptions maps the config onto render options. VMin and VMax are left
// zero: the caller resolves them against the data because auto bounds need
// the standardized matrix. Validate must have passed.
func (c *Config) RenderOptions() (render.Options, error) {
	cm, err := colormap.Get(c.Figure.Cmap)
	if err != nil {
		return render.Options{}, err
	}
	bg, err := colormap.ParseHex(c.Figure.Background)
	if err != nil {
		return render.Options{}, err
	}
	fg, err := colormap.ParseHex(c.Figure.Foreground)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Title:         c.Title,
		XLabel:        "Time Point Index",
		YLabel:        fmt.Sprintf("%s ID", c.Input.SubjectPrefix),
		BarLabel:      "Z-score",
		WidthIn:       c.Figure.Width,
		HeightIn:      c.Figure.Height,
		DPI:           c.Figure.DPI,
		Cmap:          cm,
		XTickInterval: c.Figure.XTickInterval,
		Colorbar:      true,
		Background:    bg,
		Foreground:    fg,
	}, nil
}
