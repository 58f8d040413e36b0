package diagram

import (
	"fmt"
	"math"

	"github.com/matzehuels/dirchart/pkg/errors"
)

// Validate checks that the diagram can be rendered. It does not require
// elements to lie inside the canvas; see [Diagram.Warnings].
func (d *Diagram) Validate() error {
	c := d.Canvas
	if !positive(c.Width) || !positive(c.Height) {
		return errors.New(errors.ErrCodeInvalidLayout, "canvas extent must be positive, got %gx%g", c.Width, c.Height)
	}
	if !positive(c.WidthInches) || !positive(c.HeightInches) {
		return errors.New(errors.ErrCodeInvalidLayout, "figure size must be positive, got %gx%g inches", c.WidthInches, c.HeightInches)
	}
	if !positive(d.Output.DPI) {
		return errors.New(errors.ErrCodeInvalidLayout, "dpi must be positive, got %g", d.Output.DPI)
	}
	if err := d.Viewport(0).CheckSize(); err != nil {
		return errors.New(errors.ErrCodeInvalidLayout, "%s", errors.UserMessage(err))
	}
	if err := errors.ValidateHexColor(d.Output.Background); err != nil {
		return err
	}
	for name, hex := range d.Palette {
		if err := errors.ValidateHexColor(hex); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "palette entry %q", name)
		}
	}

	seen := make(map[string]bool, len(d.Boxes))
	for i, b := range d.Boxes {
		if err := errors.ValidateID(b.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "box #%d", i+1)
		}
		if seen[b.ID] {
			return errors.New(errors.ErrCodeInvalidLayout, "duplicate box id %q", b.ID)
		}
		seen[b.ID] = true

		if !finite(b.X) || !finite(b.Y) || !positive(b.Width) || !positive(b.Height) {
			return errors.New(errors.ErrCodeInvalidLayout, "box %q: invalid geometry (%g, %g, %g, %g)", b.ID, b.X, b.Y, b.Width, b.Height)
		}
		if b.Corner != CornerRound && b.Corner != CornerSquare {
			return errors.New(errors.ErrCodeInvalidLayout, "box %q: invalid corner %q (must be 'round' or 'square')", b.ID, b.Corner)
		}
		if b.FontSize <= 1 || !finite(b.FontSize) {
			return errors.New(errors.ErrCodeInvalidLayout, "box %q: font size must be greater than 1, got %g", b.ID, b.FontSize)
		}
		if _, err := d.Color(b.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "box %q", b.ID)
		}
	}

	for i, t := range d.Texts {
		if !finite(t.X) || !finite(t.Y) {
			return errors.New(errors.ErrCodeInvalidLayout, "text #%d: invalid position (%g, %g)", i+1, t.X, t.Y)
		}
		if !positive(t.Size) {
			return errors.New(errors.ErrCodeInvalidLayout, "text #%d: size must be positive, got %g", i+1, t.Size)
		}
		if t.Align != AlignLeft && t.Align != AlignCenter {
			return errors.New(errors.ErrCodeInvalidLayout, "text #%d: invalid align %q", i+1, t.Align)
		}
		if t.Anchor != AnchorBaseline && t.Anchor != AnchorCenter {
			return errors.New(errors.ErrCodeInvalidLayout, "text #%d: invalid anchor %q", i+1, t.Anchor)
		}
		if _, err := d.Color(t.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "text #%d", i+1)
		}
	}

	for i, c := range d.Connectors {
		if len(c.Points) < 2 {
			return errors.New(errors.ErrCodeInvalidLayout, "connector #%d: need at least 2 points, got %d", i+1, len(c.Points))
		}
		for _, p := range c.Points {
			if len(p) != 2 || !finite(p[0]) || !finite(p[1]) {
				return errors.New(errors.ErrCodeInvalidLayout, "connector #%d: invalid point %v", i+1, p)
			}
		}
		for _, ref := range []string{c.From, c.To} {
			if ref != "" && !seen[ref] {
				return errors.New(errors.ErrCodeInvalidLayout, "connector #%d: unknown box %q", i+1, ref)
			}
		}
	}
	return nil
}

// Warnings lists elements that extend past the canvas extent. Out-of-extent
// elements are rendered (and clipped) rather than rejected.
func (d *Diagram) Warnings() []string {
	var out []string
	inside := func(x, y float64) bool {
		return x >= 0 && y >= 0 && x <= d.Canvas.Width && y <= d.Canvas.Height
	}
	for _, b := range d.Boxes {
		if !inside(b.X, b.Y) || !inside(b.X+b.Width, b.Y+b.Height) {
			out = append(out, fmt.Sprintf("box %q extends outside the canvas", b.ID))
		}
	}
	for i, t := range d.Texts {
		if !inside(t.X, t.Y) {
			out = append(out, fmt.Sprintf("text #%d %q is outside the canvas", i+1, t.Content))
		}
	}
	for i, c := range d.Connectors {
		for _, p := range c.Path() {
			if !inside(p.X, p.Y) {
				out = append(out, fmt.Sprintf("connector #%d leaves the canvas", i+1))
				break
			}
		}
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }
