package diagram

import (
	"fmt"
	"strings"
)

// Corner selects the outline of a box.
type Corner string

const (
	CornerRound  Corner = "round"  // rounded corners, grown by RoundPad
	CornerSquare Corner = "square" // plain rectangle
)

// Align is the horizontal alignment of a text annotation.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Anchor is the vertical anchor of a text annotation.
type Anchor string

const (
	AnchorBaseline Anchor = "baseline"
	AnchorCenter   Anchor = "center"
)

// Default element values applied by [Diagram.SetDefaults].
const (
	DefaultFontSize   = 10.0
	DefaultTextColor  = "#000000"
	DefaultBackground = "#FFFFFF"
	DefaultDPI        = 150.0
)

// Diagram is a complete chart: canvas, palette and drawing instructions.
type Diagram struct {
	Name       string            `toml:"name" json:"name"`
	Canvas     Canvas            `toml:"canvas" json:"canvas"`
	Output     Output            `toml:"output" json:"output"`
	Palette    map[string]string `toml:"palette" json:"palette"`
	Boxes      []Box             `toml:"box" json:"boxes"`
	Texts      []Text            `toml:"text" json:"texts"`
	Connectors []Connector       `toml:"connector" json:"connectors"`
}

// Canvas is the logical drawing extent and the physical figure size.
type Canvas struct {
	Width        float64 `toml:"width" json:"width"`   // logical units
	Height       float64 `toml:"height" json:"height"` // logical units
	WidthInches  float64 `toml:"width_inches" json:"width_inches"`
	HeightInches float64 `toml:"height_inches" json:"height_inches"`
}

// Output holds where and how the raster file is written.
type Output struct {
	Path       string  `toml:"path" json:"path"`
	DPI        float64 `toml:"dpi" json:"dpi"`
	Background string  `toml:"background" json:"background"`
}

// Box is a labeled rectangle. X and Y are the bottom-left corner.
type Box struct {
	ID       string  `toml:"id" json:"id"`
	X        float64 `toml:"x" json:"x"`
	Y        float64 `toml:"y" json:"y"`
	Width    float64 `toml:"width" json:"width"`
	Height   float64 `toml:"height" json:"height"`
	Text     string  `toml:"text,omitempty" json:"text,omitempty"`
	Color    string  `toml:"color" json:"color"` // palette key or #RRGGBB
	Corner   Corner  `toml:"corner,omitempty" json:"corner,omitempty"`
	FontSize float64 `toml:"font_size,omitempty" json:"font_size,omitempty"`
}

// Text is a free-standing annotation.
type Text struct {
	X       float64 `toml:"x" json:"x"`
	Y       float64 `toml:"y" json:"y"`
	Content string  `toml:"content" json:"content"`
	Size    float64 `toml:"size,omitempty" json:"size,omitempty"`
	Bold    bool    `toml:"bold,omitempty" json:"bold,omitempty"`
	Italic  bool    `toml:"italic,omitempty" json:"italic,omitempty"`
	Color   string  `toml:"color,omitempty" json:"color,omitempty"`
	Align   Align   `toml:"align,omitempty" json:"align,omitempty"`
	Anchor  Anchor  `toml:"anchor,omitempty" json:"anchor,omitempty"`
}

// Connector is a dashed polyline. From and To optionally name the boxes it
// links; they carry no geometric meaning.
type Connector struct {
	From   string      `toml:"from,omitempty" json:"from,omitempty"`
	To     string      `toml:"to,omitempty" json:"to,omitempty"`
	Points [][]float64 `toml:"points" json:"points"`
}

// Point is a position in logical units.
type Point struct{ X, Y float64 }

// Path returns the connector vertices. Malformed pairs are skipped;
// [Diagram.Validate] rejects them.
func (c Connector) Path() []Point {
	pts := make([]Point, 0, len(c.Points))
	for _, p := range c.Points {
		if len(p) == 2 {
			pts = append(pts, Point{X: p[0], Y: p[1]})
		}
	}
	return pts
}

// Label is one line of a box label, positioned at its center.
type Label struct {
	Text string
	X, Y float64 // center, logical units
	Size float64 // points
	Bold bool
}

// Lines splits the box text on newlines.
func (b Box) Lines() []string {
	return strings.Split(b.Text, "\n")
}

// Heading returns the first label line.
func (b Box) Heading() string {
	heading, _, _ := strings.Cut(b.Text, "\n")
	return heading
}

// Labels lays out the box text. With n lines the line height is
// Height/(n+1); line i is centered at Y + Height - (i+1)*lineHeight. The
// first line is bold at FontSize, the rest regular at FontSize-1. Blank lines
// keep their slot but produce no Label.
func (b Box) Labels() []Label {
	lines := b.Lines()
	lineHeight := b.Height / float64(len(lines)+1)
	cx := b.X + b.Width/2

	labels := make([]Label, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l := Label{
			Text: line,
			X:    cx,
			Y:    b.Y + b.Height - float64(i+1)*lineHeight,
			Size: b.FontSize - 1,
		}
		if i == 0 {
			l.Size = b.FontSize
			l.Bold = true
		}
		labels = append(labels, l)
	}
	return labels
}

// Box returns the box with the given id.
func (d *Diagram) Box(id string) (Box, bool) {
	for _, b := range d.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// SetDefaults fills zero-valued optional fields.
func (d *Diagram) SetDefaults() {
	if d.Output.DPI == 0 {
		d.Output.DPI = DefaultDPI
	}
	if d.Output.Background == "" {
		d.Output.Background = DefaultBackground
	}
	for i := range d.Boxes {
		b := &d.Boxes[i]
		if b.Corner == "" {
			b.Corner = CornerRound
		}
		if b.FontSize == 0 {
			b.FontSize = DefaultFontSize
		}
	}
	for i := range d.Texts {
		t := &d.Texts[i]
		if t.Size == 0 {
			t.Size = DefaultFontSize
		}
		if t.Color == "" {
			t.Color = DefaultTextColor
		}
		if t.Align == "" {
			t.Align = AlignLeft
		}
		if t.Anchor == "" {
			t.Anchor = AnchorBaseline
		}
	}
}

// Stats summarizes a diagram for display.
type Stats struct {
	Boxes      int
	Texts      int
	Connectors int
	Lines      int // non-blank box label lines
}

// Stats counts the diagram elements.
func (d *Diagram) Stats() Stats {
	s := Stats{Boxes: len(d.Boxes), Texts: len(d.Texts), Connectors: len(d.Connectors)}
	for _, b := range d.Boxes {
		s.Lines += len(b.Labels())
	}
	return s
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("%d boxes, %d texts, %d connectors", s.Boxes, s.Texts, s.Connectors)
}
