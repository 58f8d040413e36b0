// Package canvas is the raster drawing surface diagrams are painted on.
//
// A [Canvas] wraps a gg context sized from a [diagram.Viewport] and exposes
// the drawing operations a chart needs: labeled boxes, free text and dashed
// connectors. All coordinates are logical diagram units; the canvas converts
// them to pixels.
//
// A Canvas is owned by a single goroutine from [New] to [Canvas.Close].
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/fonts"
)

var black = color.NRGBA{A: 0xff}

type faceKey struct {
	style fonts.Style
	px    float64
}

// Canvas is an in-memory raster surface.
type Canvas struct {
	dc    *gg.Context
	vp    diagram.Viewport
	fonts *fonts.Set
	faces map[faceKey]font.Face
}

// New allocates a surface of the viewport's pixel size filled with background.
func New(vp diagram.Viewport, fs *fonts.Set, background color.Color) (*Canvas, error) {
	if err := vp.CheckSize(); err != nil {
		return nil, err
	}
	w, h := vp.PixelSize()
	if fs == nil {
		var err error
		if fs, err = fonts.Go(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "load fonts")
		}
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()
	dc.SetLineCap(gg.LineCapButt)
	dc.SetLineJoin(gg.LineJoinRound)

	return &Canvas{dc: dc, vp: vp, fonts: fs, faces: make(map[faceKey]font.Face)}, nil
}

// Size returns the surface dimensions in pixels.
func (c *Canvas) Size() (w, h int) {
	return c.dc.Width(), c.dc.Height()
}

// DrawLabeledBox draws the box outline and its label.
func (c *Canvas) DrawLabeledBox(b diagram.Box, fill color.NRGBA) error {
	if err := c.DrawBoxShape(b, fill); err != nil {
		return err
	}
	return c.DrawBoxLabels(b)
}

// DrawBoxShape fills and strokes the box rectangle, growing rounded boxes by
// [diagram.RoundPad] on every side.
func (c *Canvas) DrawBoxShape(b diagram.Box, fill color.NRGBA) error {
	if err := checkBox(b); err != nil {
		return err
	}

	x, y, w, h := c.vp.Rect(b.X, b.Y, b.Width, b.Height)
	if b.Corner == diagram.CornerSquare {
		c.dc.DrawRectangle(x, y, w, h)
	} else {
		pad := c.vp.Length(diagram.RoundPad)
		c.dc.DrawRoundedRectangle(x-pad, y-pad, w+2*pad, h+2*pad, pad)
	}

	c.dc.SetColor(withAlpha(fill, diagram.BoxAlpha))
	c.dc.FillPreserve()
	c.dc.SetColor(withAlpha(black, diagram.BoxAlpha))
	c.dc.SetLineWidth(c.vp.Points(diagram.BoxLineWidth))
	c.dc.Stroke()
	return nil
}

// DrawBoxLabels writes the box text, one centered line per label.
func (c *Canvas) DrawBoxLabels(b diagram.Box) error {
	if err := checkBox(b); err != nil {
		return err
	}
	c.dc.SetColor(black)
	for _, l := range b.Labels() {
		c.dc.SetFontFace(c.face(fonts.StyleOf(l.Bold, false), l.Size))
		x, y := c.vp.ToPixel(l.X, l.Y)
		c.dc.DrawStringAnchored(l.Text, x, y, 0.5, 0.5)
	}
	return nil
}

// DrawText writes a free-standing annotation.
func (c *Canvas) DrawText(t diagram.Text, fg color.NRGBA) error {
	if !finite(t.X, t.Y) || !(t.Size > 0) {
		return errors.New(errors.ErrCodeRender, "invalid text %q at (%g, %g) size %g", t.Content, t.X, t.Y, t.Size)
	}

	ax, ay := 0.0, 0.0
	if t.Align == diagram.AlignCenter {
		ax = 0.5
	}
	if t.Anchor == diagram.AnchorCenter {
		ay = 0.5
	}

	c.dc.SetFontFace(c.face(fonts.StyleOf(t.Bold, t.Italic), t.Size))
	c.dc.SetColor(fg)
	x, y := c.vp.ToPixel(t.X, t.Y)
	c.dc.DrawStringAnchored(t.Content, x, y, ax, ay)
	return nil
}

// DrawConnector strokes a dashed, semi-transparent polyline.
func (c *Canvas) DrawConnector(conn diagram.Connector) error {
	path := conn.Path()
	if len(path) < 2 {
		return errors.New(errors.ErrCodeRender, "connector needs at least 2 points, got %d", len(path))
	}

	for i, p := range path {
		if !finite(p.X, p.Y) {
			return errors.New(errors.ErrCodeRender, "invalid connector point (%g, %g)", p.X, p.Y)
		}
		x, y := c.vp.ToPixel(p.X, p.Y)
		if i == 0 {
			c.dc.MoveTo(x, y)
		} else {
			c.dc.LineTo(x, y)
		}
	}

	lw := c.vp.Points(diagram.ConnectorWidth)
	c.dc.SetColor(withAlpha(black, diagram.ConnectorAlpha))
	c.dc.SetLineWidth(lw)
	c.dc.SetDash(diagram.DashOn*lw, diagram.DashOff*lw)
	c.dc.Stroke()
	c.dc.SetDash()
	return nil
}

// Image returns the surface contents.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return nil
}

// Close releases the surface and its font faces. The canvas must not be used
// afterwards.
func (c *Canvas) Close() error {
	var firstErr error
	for k, f := range c.faces {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close face: %w", err)
		}
		delete(c.faces, k)
	}
	c.dc = nil
	return firstErr
}

func (c *Canvas) face(style fonts.Style, pt float64) font.Face {
	key := faceKey{style: style, px: c.vp.Points(pt)}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f := c.fonts.NewFace(style, key.px)
	c.faces[key] = f
	return f
}

func checkBox(b diagram.Box) error {
	if !finite(b.X, b.Y, b.Width, b.Height, b.FontSize) || b.Width <= 0 || b.Height <= 0 || b.FontSize <= 1 {
		return errors.New(errors.ErrCodeRender, "invalid box %q: (%g, %g, %g, %g) font %g",
			b.ID, b.X, b.Y, b.Width, b.Height, b.FontSize)
	}
	return nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(alpha * 255))
	return c
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
