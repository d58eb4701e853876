// Package export writes vector output. It mirrors the raster layout in the
// render package closely enough that an .svg output path drops in wherever
// a .png path works.
package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hmizuno/zheat/internal/render"
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// HeatmapSVG converts the z matrix to an SVG heatmap. z is sample-major
// like in render.Heatmap; every finite cell becomes one rect, so output
// size grows with the matrix.
func HeatmapSVG(z [][]float64, subjects []string, opt render.Options) (string, error) {
	if len(z) == 0 || len(z[0]) == 0 {
		return "", fmt.Errorf("export: empty matrix")
	}
	if len(subjects) != len(z[0]) {
		return "", fmt.Errorf("export: %d subject labels for %d subject columns",
			len(subjects), len(z[0]))
	}
	if !(opt.VMin < opt.VMax) {
		return "", fmt.Errorf("export: invalid value range [%g, %g]", opt.VMin, opt.VMax)
	}
	o := opt.Normalized()

	w := o.WidthIn * float64(o.DPI)
	h := o.HeightIn * float64(o.DPI)
	scale := o.DPI / 100
	if scale < 1 {
		scale = 1
	}
	fs := 13 * scale
	charW := 7 * scale
	pad := 6 * scale

	nCols, nRows := len(z), len(subjects)

	var ticks []render.Tick
	tickW := 0
	if o.Colorbar {
		ticks = render.Ticks(o.VMin, o.VMax, 6)
		for _, tk := range ticks {
			if n := len(tk.Label) * charW; n > tickW {
				tickW = n
			}
		}
	}

	top := float64(pad)
	titleFS := fs * 3 / 2
	if o.Title != "" {
		top += float64(titleFS + pad)
	}
	left := float64(pad)
	if o.YLabel != "" {
		left += float64(fs + pad)
	}
	maxSubj := 0
	for _, s := range subjects {
		if len(s) > maxSubj {
			maxSubj = len(s)
		}
	}
	left += float64(maxSubj*charW + pad)
	bottom := float64(pad/2 + fs + pad)
	if o.XLabel != "" {
		bottom += float64(fs + pad)
	}
	right := float64(pad)
	barW := 0
	if o.Colorbar {
		barW = int(h / 25)
		if barW < 8 {
			barW = 8
		}
		right += float64(barW + pad/2 + tickW + pad)
		if o.BarLabel != "" {
			right += float64(fs + pad)
		}
	}

	plotX, plotY := left, top
	plotW, plotH := w-left-right, h-top-bottom
	if plotW < 1 || plotH < 1 {
		return "", fmt.Errorf("export: %.0fx%.0f figure leaves no room for the plot", w, h)
	}

	fg := hexColor(o.Foreground)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, hexColor(o.Background)))

	if o.Colorbar {
		writeRampDefs(&sb, o.Cmap.Stops, true)
	}

	if o.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" fill="%s">%s</text>
`, plotX+plotW/2, float64(pad+titleFS), titleFS, fg, xmlEscaper.Replace(o.Title)))
	}
	if o.YLabel != "" {
		x, y := float64(pad+fs), plotY+plotH/2
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" transform="rotate(-90 %.1f %.1f)" fill="%s">%s</text>
`, x, y, fs, x, y, fg, xmlEscaper.Replace(o.YLabel)))
	}

	rowH := plotH / float64(nRows)
	for r, s := range subjects {
		y := plotY + (float64(r)+0.5)*rowH + float64(fs)/3
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="end" fill="%s">%s</text>
`, plotX-float64(pad)/2, y, fs, fg, xmlEscaper.Replace(s)))
	}

	span := o.VMax - o.VMin
	colW := plotW / float64(nCols)
	sb.WriteString("<g shape-rendering=\"crispEdges\">\n")
	for c := 0; c < nCols; c++ {
		x := plotX + float64(c)*colW
		for r := 0; r < nRows; r++ {
			v := z[c][r]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			col := o.Cmap.At((v - o.VMin) / span)
			sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, x, plotY+float64(r)*rowH, colW, rowH, hexColor(col)))
		}
	}
	sb.WriteString("</g>\n")

	interval := o.XTickInterval
	if interval <= 0 {
		interval = render.AutoInterval(nCols)
	}
	for i := 0; i < nCols; i += interval {
		cx := plotX + (float64(i)+0.5)*colW
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" fill="%s">%d</text>
`, cx, plotY+plotH, cx, plotY+plotH+float64(pad)/3, fg,
			cx, plotY+plotH+float64(pad/2+fs), fs, fg, i))
	}
	if o.XLabel != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" fill="%s">%s</text>
`, plotX+plotW/2, plotY+plotH+float64(pad/2+fs+pad/2+fs), fs, fg, xmlEscaper.Replace(o.XLabel)))
	}

	if o.Colorbar {
		barX := plotX + plotW + float64(pad)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%d" height="%.1f" fill="url(#ramp)" stroke="%s"/>
`, barX, plotY, barW, plotH, fg))
		for _, tk := range ticks {
			t := (tk.Value - o.VMin) / span
			y := plotY + plotH - t*plotH
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" fill="%s">%s</text>
`, barX+float64(barW), y, barX+float64(barW)+float64(pad)/3, y, fg,
				barX+float64(barW+pad/2), y+float64(fs)/3, fs, fg, tk.Label))
		}
		if o.BarLabel != "" {
			x := barX + float64(barW+pad/2+tickW+pad/2+fs)
			y := plotY + plotH/2
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" transform="rotate(-90 %.1f %.1f)" fill="%s">%s</text>
`, x, y, fs, x, y, fg, xmlEscaper.Replace(o.BarLabel)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// ColorbarSVG renders a standalone colorbar as SVG, matching the geometry
// of render.Colorbar.
func ColorbarSVG(opt render.Options, orient render.Orientation) (string, error) {
	if !(opt.VMin < opt.VMax) {
		return "", fmt.Errorf("export: invalid value range [%g, %g]", opt.VMin, opt.VMax)
	}
	if opt.WidthIn <= 0 {
		if orient == render.Vertical {
			opt.WidthIn = 2
		} else {
			opt.WidthIn = 8
		}
	}
	if opt.HeightIn <= 0 {
		if orient == render.Vertical {
			opt.HeightIn = 8
		} else {
			opt.HeightIn = 2
		}
	}
	o := opt.Normalized()

	w := o.WidthIn * float64(o.DPI)
	h := o.HeightIn * float64(o.DPI)
	scale := o.DPI / 100
	if scale < 1 {
		scale = 1
	}
	fs := 13 * scale
	pad := 6 * scale
	fg := hexColor(o.Foreground)
	ticks := render.Ticks(o.VMin, o.VMax, 6)
	span := o.VMax - o.VMin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, hexColor(o.Background)))
	writeRampDefs(&sb, o.Cmap.Stops, orient == render.Vertical)

	if orient == render.Vertical {
		barW := w / 4
		if barW < 8 {
			barW = 8
		}
		barH := h - 2*float64(pad)
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%.1f" height="%.1f" fill="url(#ramp)" stroke="%s"/>
`, pad, pad, barW, barH, fg))
		tickW := 0
		for _, tk := range ticks {
			if n := len(tk.Label) * 7 * scale; n > tickW {
				tickW = n
			}
		}
		for _, tk := range ticks {
			t := (tk.Value - o.VMin) / span
			y := float64(pad) + barH - t*barH
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" fill="%s">%s</text>
`, float64(pad)+barW, y, float64(pad)+barW+float64(pad)/3, y, fg,
				float64(pad)+barW+float64(pad)/2, y+float64(fs)/3, fs, fg, tk.Label))
		}
		if o.BarLabel != "" {
			x := float64(pad) + barW + float64(pad/2+tickW+pad/2+fs)
			y := float64(pad) + barH/2
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" transform="rotate(-90 %.1f %.1f)" fill="%s">%s</text>
`, x, y, fs, x, y, fg, xmlEscaper.Replace(o.BarLabel)))
		}
	} else {
		barH := h / 4
		if barH < 8 {
			barH = 8
		}
		barW := w - 2*float64(pad)
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%.1f" height="%.1f" fill="url(#ramp)" stroke="%s"/>
`, pad, pad, barW, barH, fg))
		for _, tk := range ticks {
			t := (tk.Value - o.VMin) / span
			x := float64(pad) + t*barW
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" fill="%s">%s</text>
`, x, float64(pad)+barH, x, float64(pad)+barH+float64(pad)/3, fg,
				x, float64(pad)+barH+float64(pad/2+fs), fs, fg, tk.Label))
		}
		if o.BarLabel != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" fill="%s">%s</text>
`, float64(pad)+barW/2, float64(pad)+barH+float64(pad/2+fs+pad/2+fs), fs, fg, xmlEscaper.Replace(o.BarLabel)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// writeRampDefs emits the gradient for a colorbar fill. Vertical bars put
// the last stop at the top, so the stop order flips.
func writeRampDefs(sb *strings.Builder, stops []color.RGBA, vertical bool) {
	if vertical {
		sb.WriteString(`<defs><linearGradient id="ramp" x1="0" y1="0" x2="0" y2="1">
`)
	} else {
		sb.WriteString(`<defs><linearGradient id="ramp" x1="0" y1="0" x2="1" y2="0">
`)
	}
	n := len(stops)
	for i := 0; i < n; i++ {
		j := i
		if vertical {
			j = n - 1 - i
		}
		off := 0.0
		if n > 1 {
			off = float64(i) / float64(n-1) * 100
		}
		sb.WriteString(fmt.Sprintf(`<stop offset="%.1f%%" stop-color="%s"/>
`, off, hexColor(stops[j])))
	}
	sb.WriteString("</linearGradient></defs>\n")
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
