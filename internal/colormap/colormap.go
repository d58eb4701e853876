// Package colormap maps normalized values to colors through named palettes.
// Palettes are piecewise-linear gradients over a small set of anchor stops,
// looked up case-insensitively; an "_r" suffix selects the reversed ramp.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
)

// Map is a named color gradient.
type Map struct {
	Name  string
	Stops []color.RGBA
}

// Available colormaps
var (
	// YlOrRd is the default: pale yellow through orange to deep red.
	YlOrRd = Map{
		Name: "YlOrRd",
		Stops: stops("#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
			"#fc4e2a", "#e31a1c", "#bd0026", "#800026"),
	}

	Viridis = Map{
		Name: "viridis",
		Stops: stops("#440154", "#46327e", "#365c8d", "#277f8e", "#1fa187",
			"#4ac16d", "#a0da39", "#fde725"),
	}

	Plasma = Map{
		Name: "plasma",
		Stops: stops("#0d0887", "#6a00a8", "#b12a90", "#e16462", "#fca636",
			"#f0f921"),
	}

	Inferno = Map{
		Name: "inferno",
		Stops: stops("#000004", "#320a5e", "#781c6d", "#bc3754", "#ed6925",
			"#fbb61a", "#fcffa4"),
	}

	Magma = Map{
		Name: "magma",
		Stops: stops("#000004", "#2c115f", "#721f81", "#b73779", "#f1605d",
			"#feb078", "#fcfdbf"),
	}

	Coolwarm = Map{
		Name: "coolwarm",
		Stops: stops("#3b4cc0", "#6688ee", "#88abfd", "#b8cff9", "#dddddd",
			"#f5c4ad", "#f39778", "#e36a53", "#b40426"),
	}

	// RdBu runs red to blue, so reds mark the low end of the scale.
	RdBu = Map{
		Name: "RdBu",
		Stops: stops("#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
			"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"),
	}

	Greys = Map{
		Name:  "Greys",
		Stops: stops("#ffffff", "#000000"),
	}

	Hot = Map{
		Name:  "hot",
		Stops: stops("#000000", "#ff0000", "#ffff00", "#ffffff"),
	}

	Jet = Map{
		Name: "jet",
		Stops: stops("#000080", "#0000ff", "#00ffff", "#ffff00", "#ff0000",
			"#800000"),
	}

	// Default palette for heatmaps
	Default = YlOrRd

	// All registered colormaps
	All = []Map{YlOrRd, Viridis, Plasma, Inferno, Magma, Coolwarm, RdBu, Greys, Hot, Jet}
)

// Get returns the colormap with the given name, ignoring case. A trailing
// "_r" reverses the ramp, so "YlOrRd_r" runs deep red to pale yellow.
func Get(name string) (Map, error) {
	base := name
	reversed := false
	if n := strings.TrimSuffix(strings.ToLower(name), "_r"); n != strings.ToLower(name) {
		base = n
		reversed = true
	}
	for _, m := range All {
		if strings.EqualFold(m.Name, base) {
			if reversed {
				return m.Reversed(), nil
			}
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("colormap: unknown colormap %q (available: %s)",
		name, strings.Join(Names(), ", "))
}

// Names returns the registered colormap names in sorted order.
func Names() []string {
	names := make([]string, len(All))
	for i, m := range All {
		names[i] = m.Name
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Reversed returns the same ramp traversed end to start.
func (m Map) Reversed() Map {
	r := Map{Name: m.Name + "_r", Stops: make([]color.RGBA, len(m.Stops))}
	for i, s := range m.Stops {
		r.Stops[len(m.Stops)-1-i] = s
	}
	return r
}

// At interpolates the ramp at t in [0, 1]. Out-of-range values clamp to the
// nearest end and NaN maps to the low end.
func (m Map) At(t float64) color.RGBA {
	if len(m.Stops) == 0 {
		return color.RGBA{A: 0xff}
	}
	if math.IsNaN(t) || t <= 0 || len(m.Stops) == 1 {
		return m.Stops[0]
	}
	if t >= 1 {
		return m.Stops[len(m.Stops)-1]
	}

	// Position within the stop sequence.
	pos := t * float64(len(m.Stops)-1)
	i := int(pos)
	frac := pos - float64(i)

	a, b := m.Stops[i], m.Stops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// ParseHex reads a #rrggbb color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("colormap: bad hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("colormap: bad hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func stops(hexes ...string) []color.RGBA {
	out := make([]color.RGBA, len(hexes))
	for i, h := range hexes {
		out[i], _ = ParseHex(h)
	}
	return out
}
