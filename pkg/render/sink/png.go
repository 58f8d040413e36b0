package sink

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/render/canvas"
)

// RenderPNG paints the diagram on a raster canvas and encodes it as PNG.
func RenderPNG(d *diagram.Diagram, opts ...Option) ([]byte, error) {
	r := newRenderer(d, opts...)

	bg, err := diagram.ParseHex(d.Output.Background)
	if err != nil {
		return nil, err
	}

	c, err := canvas.New(d.Viewport(r.dpi), r.fonts, bg)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if err := Paint(c, d); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if !r.trim {
		if err := c.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	img := Trim(c.Image(), bg, r.trimMargin)
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Paint draws every element of d on c in stacking order.
func Paint(c *canvas.Canvas, d *diagram.Diagram) error {
	for _, b := range d.Boxes {
		fill, err := d.Color(b.Color)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "box %q", b.ID)
		}
		if err := c.DrawBoxShape(b, fill); err != nil {
			return err
		}
	}
	for _, conn := range d.Connectors {
		if err := c.DrawConnector(conn); err != nil {
			return err
		}
	}
	for _, b := range d.Boxes {
		if err := c.DrawBoxLabels(b); err != nil {
			return err
		}
	}
	for _, t := range d.Texts {
		fg, err := d.Color(t.Color)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "text %q", t.Content)
		}
		if err := c.DrawText(t, fg); err != nil {
			return err
		}
	}
	return nil
}
