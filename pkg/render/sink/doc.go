// Package sink provides output format renderers for diagrams.
//
// # Overview
//
// A "sink" transforms a [diagram.Diagram] into a final output format:
//
//   - PNG: Raster image painted natively on a [canvas.Canvas]
//   - SVG: Scalable vector graphics with the same geometry
//   - PDF: Print-ready output (SVG converted by rsvg-convert)
//
// Every sink draws elements in the same stacking order: box shapes, then
// connectors, then box labels, then free text annotations.
//
// # PNG Output
//
// [RenderPNG] produces an image of exactly figure size times DPI pixels:
//
//	png, err := sink.RenderPNG(d, sink.WithDPI(150))
//
// [WithTrim] crops the result to the drawn content plus a margin, which
// changes the output size.
//
// # SVG and PDF Output
//
//	svg := sink.RenderSVG(d)
//	pdf, err := sink.RenderPDF(d)
//
// PDF conversion requires librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package sink
