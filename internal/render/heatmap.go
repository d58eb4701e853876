// Package render draws heatmaps and colorbars as raster images. Geometry
// follows the figure-size convention of scientific plotting tools: the
// caller gives a size in inches and a DPI, and pixels are inches times DPI.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hmizuno/zheat/internal/colormap"
)

// Options configure heatmap rendering.
type Options struct {
	Title    string
	XLabel   string
	YLabel   string
	BarLabel string // label beside the colorbar

	WidthIn  float64 // figure width in inches
	HeightIn float64 // figure height in inches
	DPI      int

	Cmap colormap.Map
	VMin float64 // value mapped to the low end of the ramp
	VMax float64 // value mapped to the high end of the ramp

	XTickInterval int  // column index step between x ticks, 0 for automatic
	Colorbar      bool // embed a colorbar at the right edge

	Background color.RGBA
	Foreground color.RGBA
}

// Normalized returns a copy of o with zero-valued fields replaced by the
// standard figure defaults: 20x6 inches at 300 DPI on a white background.
func (o Options) Normalized() Options {
	if o.WidthIn <= 0 {
		o.WidthIn = 20
	}
	if o.HeightIn <= 0 {
		o.HeightIn = 6
	}
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if len(o.Cmap.Stops) == 0 {
		o.Cmap = colormap.Default
	}
	if o.Background == (color.RGBA{}) {
		o.Background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	if o.Foreground == (color.RGBA{}) {
		o.Foreground = color.RGBA{A: 0xff}
	}
	return o
}

// Heatmap renders z as a raster heatmap. z is sample-major, z[i][j] holding
// sample i of subject j, so subjects come out as rows and samples as
// columns. Values map linearly from [VMin, VMax] onto the ramp and clamp at
// the ends; non-finite cells stay background-colored.
func Heatmap(z [][]float64, subjects []string, opt Options) (*image.RGBA, error) {
	if len(z) == 0 || len(z[0]) == 0 {
		return nil, fmt.Errorf("render: empty matrix")
	}
	if len(subjects) != len(z[0]) {
		return nil, fmt.Errorf("render: %d subject labels for %d subject columns",
			len(subjects), len(z[0]))
	}
	if !(opt.VMin < opt.VMax) {
		return nil, fmt.Errorf("render: invalid value range [%g, %g]", opt.VMin, opt.VMax)
	}

	o := opt.Normalized()
	w := int(o.WidthIn*float64(o.DPI) + 0.5)
	h := int(o.HeightIn*float64(o.DPI) + 0.5)
	scale := textScale(o.DPI)
	pad := 6 * scale
	_, th := measureText("0", scale)

	nCols, nRows := len(z), len(subjects)

	var ticks []Tick
	tickW := 0
	if o.Colorbar {
		ticks = Ticks(o.VMin, o.VMax, 6)
		for _, tk := range ticks {
			if tw, _ := measureText(tk.Label, scale); tw > tickW {
				tickW = tw
			}
		}
	}

	top := pad
	titleScale := scale * 3 / 2
	if titleScale < scale {
		titleScale = scale
	}
	if o.Title != "" {
		_, tth := measureText(o.Title, titleScale)
		top += tth + pad
	}

	left := pad
	if o.YLabel != "" {
		left += th + pad
	}
	maxSubjW := 0
	for _, s := range subjects {
		if sw, _ := measureText(s, scale); sw > maxSubjW {
			maxSubjW = sw
		}
	}
	left += maxSubjW + pad

	bottom := pad/2 + th + pad
	if o.XLabel != "" {
		bottom += th + pad
	}

	right := pad
	barW := 0
	if o.Colorbar {
		barW = h / 25
		if barW < 8 {
			barW = 8
		}
		right += barW + pad/2 + tickW + pad
		if o.BarLabel != "" {
			right += th + pad
		}
	}

	plot := image.Rect(left, top, w-right, h-bottom)
	if plot.Dx() < 1 || plot.Dy() < 1 {
		return nil, fmt.Errorf("render: %dx%d figure leaves no room for the plot", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), o.Background)

	if o.Title != "" {
		tw, _ := measureText(o.Title, titleScale)
		drawText(img, o.Title, plot.Min.X+(plot.Dx()-tw)/2, pad/2, titleScale, o.Foreground)
	}

	if o.YLabel != "" {
		lw, _ := measureText(o.YLabel, scale)
		drawTextVertical(img, o.YLabel, pad/2, plot.Min.Y+(plot.Dy()-lw)/2, scale, o.Foreground)
	}

	for r, s := range subjects {
		y0 := plot.Min.Y + r*plot.Dy()/nRows
		y1 := plot.Min.Y + (r+1)*plot.Dy()/nRows
		sw, _ := measureText(s, scale)
		drawText(img, s, plot.Min.X-pad/2-sw, (y0+y1)/2-th/2, scale, o.Foreground)
	}

	span := o.VMax - o.VMin
	for c := 0; c < nCols; c++ {
		x0 := plot.Min.X + c*plot.Dx()/nCols
		x1 := plot.Min.X + (c+1)*plot.Dx()/nCols
		for r := 0; r < nRows; r++ {
			v := z[c][r]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			y0 := plot.Min.Y + r*plot.Dy()/nRows
			y1 := plot.Min.Y + (r+1)*plot.Dy()/nRows
			fillRect(img, image.Rect(x0, y0, x1, y1), o.Cmap.At((v-o.VMin)/span))
		}
	}

	interval := o.XTickInterval
	if interval <= 0 {
		interval = AutoInterval(nCols)
	}
	for i := 0; i < nCols; i += interval {
		x0 := plot.Min.X + i*plot.Dx()/nCols
		x1 := plot.Min.X + (i+1)*plot.Dx()/nCols
		cx := (x0 + x1) / 2
		fillRect(img, image.Rect(cx, plot.Max.Y, cx+scale, plot.Max.Y+pad/3), o.Foreground)
		label := strconv.Itoa(i)
		lw, _ := measureText(label, scale)
		drawText(img, label, cx-lw/2, plot.Max.Y+pad/2, scale, o.Foreground)
	}
	if o.XLabel != "" {
		lw, _ := measureText(o.XLabel, scale)
		drawText(img, o.XLabel, plot.Min.X+(plot.Dx()-lw)/2, plot.Max.Y+pad/2+th+pad/2, scale, o.Foreground)
	}

	if o.Colorbar {
		bar := image.Rect(plot.Max.X+pad, plot.Min.Y, plot.Max.X+pad+barW, plot.Max.Y)
		drawBar(img, bar, o.Cmap, Vertical)
		strokeRect(img, bar, scale, o.Foreground)
		for _, tk := range ticks {
			t := (tk.Value - o.VMin) / span
			y := bar.Max.Y - 1 - int(t*float64(bar.Dy()-1)+0.5)
			fillRect(img, image.Rect(bar.Max.X, y, bar.Max.X+pad/3, y+scale), o.Foreground)
			drawText(img, tk.Label, bar.Max.X+pad/2, y-th/2, scale, o.Foreground)
		}
		if o.BarLabel != "" {
			lw, _ := measureText(o.BarLabel, scale)
			drawTextVertical(img, o.BarLabel, bar.Max.X+pad/2+tickW+pad/2,
				bar.Min.Y+(bar.Dy()-lw)/2, scale, o.Foreground)
		}
	}

	return img, nil
}

// Tick is one labeled stop on a value axis.
type Tick struct {
	Value float64
	Label string
}

// Ticks places up to about n ticks inside [min, max] on steps of 1, 2, 2.5
// or 5 times a power of ten.
func Ticks(min, max float64, n int) []Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || max <= min {
		return nil
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Floor(max/step) - math.Ceil(min/step) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			best = step
		}
	}
	eps := best / 1e6
	var ticks []Tick
	for v := math.Ceil(min/best) * best; v <= max+eps; v += best {
		ticks = append(ticks, Tick{v, formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// AutoInterval picks a tick interval giving roughly eight labeled columns.
func AutoInterval(n int) int {
	if n <= 8 {
		return 1
	}
	raw := float64(n) / 8
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, c := range []float64{1, 2, 5, 10} {
		if c*mag >= raw {
			return int(c * mag)
		}
	}
	return int(10 * mag)
}
