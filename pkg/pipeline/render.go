package pipeline

import (
	"context"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/render/nodelink"
	"github.com/matzehuels/dirchart/pkg/render/sink"
)

// graphvizDPI is the resolution Graphviz lays out SVG at.
const graphvizDPI = 72.0

// Render draws every requested format without consulting a cache.
func Render(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, d, opts, format)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat draws a single format.
func RenderFormat(ctx context.Context, d *diagram.Diagram, opts Options, format string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateFormat(opts.VizType, format); err != nil {
		return nil, err
	}
	if opts.IsNodelink() {
		return renderNodelink(ctx, d, opts, format)
	}
	return renderDiagram(d, opts, format)
}

func renderDiagram(d *diagram.Diagram, opts Options, format string) ([]byte, error) {
	dpi := effectiveDPI(d, opts)
	if err := d.Viewport(dpi).CheckSize(); err != nil {
		return nil, err
	}
	sinkOpts := []sink.Option{sink.WithDPI(dpi)}
	if opts.Fonts != nil {
		sinkOpts = append(sinkOpts, sink.WithFonts(opts.Fonts))
	}

	switch format {
	case FormatPNG:
		if opts.Trim {
			sinkOpts = append(sinkOpts, sink.WithTrim(opts.TrimMargin))
		}
		return sink.RenderPNG(d, sinkOpts...)
	case FormatSVG:
		return sink.RenderSVG(d, sinkOpts...), nil
	case FormatPDF:
		return sink.RenderPDF(d, sinkOpts...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "%s output is not available for %s", format, opts.VizType)
}

func renderNodelink(ctx context.Context, d *diagram.Diagram, opts Options, format string) ([]byte, error) {
	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed})

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, effectiveDPI(d, opts)/graphvizDPI)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "%s output is not available for %s", format, opts.VizType)
}

// effectiveDPI resolves the requested resolution against the layout default.
func effectiveDPI(d *diagram.Diagram, opts Options) float64 {
	if opts.DPI > 0 {
		return opts.DPI
	}
	if d.Output.DPI > 0 {
		return d.Output.DPI
	}
	return diagram.DefaultDPI
}
