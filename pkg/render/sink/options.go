package sink

import (
	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/fonts"
)

// Option configures rendering for every sink.
type Option func(*renderer)

type renderer struct {
	dpi        float64
	fonts      *fonts.Set
	trim       bool
	trimMargin int
}

// WithDPI overrides the diagram's output resolution.
func WithDPI(dpi float64) Option { return func(r *renderer) { r.dpi = dpi } }

// WithFonts sets the font set (default: embedded Go fonts).
func WithFonts(fs *fonts.Set) Option { return func(r *renderer) { r.fonts = fs } }

// WithTrim crops PNG output to the drawn content plus margin pixels.
func WithTrim(margin int) Option {
	return func(r *renderer) {
		r.trim = true
		r.trimMargin = max(margin, 0)
	}
}

func newRenderer(d *diagram.Diagram, opts ...Option) renderer {
	r := renderer{dpi: d.Output.DPI}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpi <= 0 {
		r.dpi = diagram.DefaultDPI
	}
	return r
}
