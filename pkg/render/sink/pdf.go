package sink

import (
	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/render"
)

// RenderPDF renders the diagram as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(d *diagram.Diagram, opts ...Option) ([]byte, error) {
	return render.ToPDF(RenderSVG(d, opts...))
}
