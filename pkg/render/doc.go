// Package render provides diagram rendering for dirchart.
//
// # Overview
//
// This package contains the rendering pipeline that turns a layout into
// visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - The raster drawing surface (in [canvas] subpackage)
//   - Output formats for the chart itself (in [sink] subpackage)
//   - Node-link diagrams of boxes and connectors (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The chart's own PNG output is
// painted natively and does not need it.
//
//	svg := sink.RenderSVG(d)
//	pdf, err := render.ToPDF(svg)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders boxes as Graphviz nodes and connectors
// as edges:
//
//	dot := nodelink.ToDOT(d)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [canvas]: github.com/matzehuels/dirchart/pkg/render/canvas
// [sink]: github.com/matzehuels/dirchart/pkg/render/sink
// [nodelink]: github.com/matzehuels/dirchart/pkg/render/nodelink
package render
