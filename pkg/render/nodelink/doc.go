// Package nodelink renders a diagram's boxes and connectors as a traditional
// node-link graph.
//
// # Overview
//
// The chart itself places boxes by hand. This package offers a second view of
// the same layout: every box becomes a Graphviz node and every connector that
// names both of its boxes becomes an edge. It is useful for checking which
// sections a layout links without reading coordinates.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: When true, node labels carry every line of the box text
//     instead of only its heading.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
