package render

import (
	"fmt"
	"image"

	"github.com/hmizuno/zheat/internal/colormap"
)

// Orientation lays out a standalone colorbar.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation reads an orientation name.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("render: unknown orientation %q (use vertical or horizontal)", s)
}

// Colorbar renders a standalone colorbar for the scale [VMin, VMax]. Size
// defaults are 2x8 inches vertical and 8x2 inches horizontal.
func Colorbar(opt Options, orient Orientation) (*image.RGBA, error) {
	if !(opt.VMin < opt.VMax) {
		return nil, fmt.Errorf("render: invalid value range [%g, %g]", opt.VMin, opt.VMax)
	}
	if opt.WidthIn <= 0 {
		if orient == Vertical {
			opt.WidthIn = 2
		} else {
			opt.WidthIn = 8
		}
	}
	if opt.HeightIn <= 0 {
		if orient == Vertical {
			opt.HeightIn = 8
		} else {
			opt.HeightIn = 2
		}
	}
	o := opt.Normalized()

	w := int(o.WidthIn*float64(o.DPI) + 0.5)
	h := int(o.HeightIn*float64(o.DPI) + 0.5)
	scale := textScale(o.DPI)
	pad := 6 * scale
	_, th := measureText("0", scale)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), o.Background)

	ticks := Ticks(o.VMin, o.VMax, 6)
	span := o.VMax - o.VMin

	if orient == Vertical {
		barW := w / 4
		if barW < 8 {
			barW = 8
		}
		bar := image.Rect(pad, pad, pad+barW, h-pad)
		if bar.Dy() < 2 {
			return nil, fmt.Errorf("render: %dx%d figure leaves no room for the bar", w, h)
		}
		drawBar(img, bar, o.Cmap, Vertical)
		strokeRect(img, bar, scale, o.Foreground)

		tickW := 0
		for _, tk := range ticks {
			if tw, _ := measureText(tk.Label, scale); tw > tickW {
				tickW = tw
			}
		}
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
		return img, nil
	}

	barH := h / 4
	if barH < 8 {
		barH = 8
	}
	bar := image.Rect(pad, pad, w-pad, pad+barH)
	if bar.Dx() < 2 {
		return nil, fmt.Errorf("render: %dx%d figure leaves no room for the bar", w, h)
	}
	drawBar(img, bar, o.Cmap, Horizontal)
	strokeRect(img, bar, scale, o.Foreground)

	for _, tk := range ticks {
		t := (tk.Value - o.VMin) / span
		x := bar.Min.X + int(t*float64(bar.Dx()-1)+0.5)
		fillRect(img, image.Rect(x, bar.Max.Y, x+scale, bar.Max.Y+pad/3), o.Foreground)
		lw, _ := measureText(tk.Label, scale)
		drawText(img, tk.Label, x-lw/2, bar.Max.Y+pad/2, scale, o.Foreground)
	}
	if o.BarLabel != "" {
		lw, _ := measureText(o.BarLabel, scale)
		drawText(img, o.BarLabel, bar.Min.X+(bar.Dx()-lw)/2, bar.Max.Y+pad/2+th+pad/2,
			scale, o.Foreground)
	}
	return img, nil
}

// drawBar paints the ramp into r. Vertical bars put VMax at the top,
// horizontal bars put it at the right.
func drawBar(dst *image.RGBA, r image.Rectangle, m colormap.Map, orient Orientation) {
	if orient == Vertical {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			t := 1 - float64(y-r.Min.Y)/float64(r.Dy()-1)
			fillRect(dst, image.Rect(r.Min.X, y, r.Max.X, y+1), m.At(t))
		}
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		t := float64(x-r.Min.X) / float64(r.Dx()-1)
		fillRect(dst, image.Rect(x, r.Min.Y, x+1, r.Max.Y), m.At(t))
	}
}
