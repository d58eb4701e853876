package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Labels use the 7x13 bitmap face scaled by an integer factor, so glyphs
// stay crisp at any DPI without shipping a TTF.
var face = basicfont.Face7x13

// textScale picks the glyph scale for a given DPI. At the 300 DPI default
// labels come out three times the base face size.
func textScale(dpi int) int {
	s := dpi / 100
	if s < 1 {
		s = 1
	}
	return s
}

// measureText returns the pixel width and height of s at the given scale.
func measureText(s string, scale int) (int, int) {
	d := &font.Drawer{Face: face}
	return d.MeasureString(s).Ceil() * scale, face.Metrics().Height.Ceil() * scale
}

// renderText rasterizes s at scale 1 into a tight image.
func renderText(s string, col color.Color) *image.RGBA {
	d := &font.Drawer{Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(s).Ceil()
	h := face.Metrics().Height.Ceil()
	if w == 0 {
		w = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = img
	d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(face.Metrics().Ascent.Ceil())}
	d.DrawString(s)
	return img
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *image.RGBA, s string, x, y, scale int, col color.Color) {
	if s == "" {
		return
	}
	blit(dst, renderText(s, col), x, y, scale)
}

// drawTextVertical draws s rotated a quarter turn counter-clockwise, so it
// reads bottom to top with its top-left corner at (x, y).
func drawTextVertical(dst *image.RGBA, s string, x, y, scale int, col color.Color) {
	if s == "" {
		return
	}
	blit(dst, rotateCCW(renderText(s, col)), x, y, scale)
}

func blit(dst *image.RGBA, src *image.RGBA, x, y, scale int) {
	b := src.Bounds()
	if scale <= 1 {
		draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), src, b.Min, draw.Over)
		return
	}
	r := image.Rect(x, y, x+b.Dx()*scale, y+b.Dy()*scale)
	xdraw.NearestNeighbor.Scale(dst, r, src, b, xdraw.Over, nil)
}

func rotateCCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func fillRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, w int, col color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), col)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), col)
}
