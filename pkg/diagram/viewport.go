package diagram

import (
	"math"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// MaxPixels bounds the raster surface a viewport may describe. The default
// figure at 150 dpi is about 10.8 megapixels.
const MaxPixels = 64_000_000

// Viewport maps logical canvas units to output pixels.
type Viewport struct {
	Canvas Canvas
	DPI    float64
}

// Viewport returns the mapping for the given resolution. A zero dpi uses the
// diagram's output resolution.
func (d *Diagram) Viewport(dpi float64) Viewport {
	if dpi <= 0 {
		dpi = d.Output.DPI
	}
	return Viewport{Canvas: d.Canvas, DPI: dpi}
}

// PixelSize returns the output image dimensions: figure inches times DPI.
func (v Viewport) PixelSize() (w, h int) {
	return int(math.Round(v.Canvas.WidthInches * v.DPI)), int(math.Round(v.Canvas.HeightInches * v.DPI))
}

// CheckSize fails with INVALID_INPUT when the pixel size is not finite or
// exceeds [MaxPixels].
func (v Viewport) CheckSize() error {
	w := math.Round(v.Canvas.WidthInches * v.DPI)
	h := math.Round(v.Canvas.HeightInches * v.DPI)
	if !finite(w) || !finite(h) || w < 1 || h < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid output size %gx%g px at %g dpi", w, h, v.DPI)
	}
	if w*h > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "output of %.0fx%.0f px at %g dpi exceeds the %d pixel limit; lower the dpi", w, h, v.DPI, MaxPixels)
	}
	return nil
}

// scale returns pixels per logical unit along each axis.
func (v Viewport) scale() (sx, sy float64) {
	w, h := v.PixelSize()
	return float64(w) / v.Canvas.Width, float64(h) / v.Canvas.Height
}

// ToPixel converts a logical point to pixel coordinates with y growing down.
func (v Viewport) ToPixel(x, y float64) (px, py float64) {
	sx, sy := v.scale()
	_, h := v.PixelSize()
	return x * sx, float64(h) - y*sy
}

// Rect converts a logical rectangle (bottom-left origin) to a pixel rectangle
// (top-left origin).
func (v Viewport) Rect(x, y, w, h float64) (px, py, pw, ph float64) {
	sx, sy := v.scale()
	px, py = v.ToPixel(x, y+h)
	return px, py, w * sx, h * sy
}

// Length converts a horizontal logical length to pixels.
func (v Viewport) Length(units float64) float64 {
	sx, _ := v.scale()
	return units * sx
}

// Points converts a size in typographic points to pixels.
func (v Viewport) Points(pt float64) float64 {
	return pt * v.DPI / 72
}
