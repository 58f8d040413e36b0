package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/fonts"
)

// RenderSVG renders the diagram as SVG in the pixel space of the configured
// resolution, so SVG and PNG output share geometry.
func RenderSVG(d *diagram.Diagram, opts ...Option) []byte {
	r := newRenderer(d, opts...)
	vp := d.Viewport(r.dpi)
	w, h := vp.PixelSize()

	family := fonts.FallbackFontFamily
	if r.fonts != nil && r.fonts.Family() != fonts.GoFamily {
		family = fontFamilyList(r.fonts.Family())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	if d.Name != "" {
		buf.WriteString("  <title>")
		escape(&buf, d.Name)
		buf.WriteString("</title>\n")
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", d.Output.Background)
	fmt.Fprintf(&buf, `  <g font-family="%s">`+"\n", family)

	for _, b := range d.Boxes {
		renderBoxShape(&buf, vp, b, d.Hex(b.Color))
	}
	for _, c := range d.Connectors {
		renderConnector(&buf, vp, c)
	}
	for _, b := range d.Boxes {
		renderBoxLabels(&buf, vp, b)
	}
	for _, t := range d.Texts {
		renderText(&buf, vp, t, d.Hex(t.Color))
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderBoxShape(buf *bytes.Buffer, vp diagram.Viewport, b diagram.Box, fill string) {
	x, y, w, h := vp.Rect(b.X, b.Y, b.Width, b.Height)
	radius := 0.0
	if b.Corner != diagram.CornerSquare {
		pad := vp.Length(diagram.RoundPad)
		x, y, w, h, radius = x-pad, y-pad, w+2*pad, h+2*pad, pad
	}
	fmt.Fprintf(buf, `    <rect id="box-%s" class="box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" fill-opacity="%.2f" stroke="#000" stroke-opacity="%.2f" stroke-width="%.2f"/>`+"\n",
		b.ID, x, y, w, h, radius, fill, diagram.BoxAlpha, diagram.BoxAlpha, vp.Points(diagram.BoxLineWidth))
}

func renderConnector(buf *bytes.Buffer, vp diagram.Viewport, c diagram.Connector) {
	pts := make([]string, 0, len(c.Points))
	for _, p := range c.Path() {
		x, y := vp.ToPixel(p.X, p.Y)
		pts = append(pts, fmt.Sprintf("%.2f,%.2f", x, y))
	}
	lw := vp.Points(diagram.ConnectorWidth)
	fmt.Fprintf(buf, `    <polyline class="connector" points="%s" fill="none" stroke="#000" stroke-opacity="%.2f" stroke-width="%.2f" stroke-dasharray="%.2f %.2f"/>`+"\n",
		strings.Join(pts, " "), diagram.ConnectorAlpha, lw, diagram.DashOn*lw, diagram.DashOff*lw)
}

func renderBoxLabels(buf *bytes.Buffer, vp diagram.Viewport, b diagram.Box) {
	for _, l := range b.Labels() {
		x, y := vp.ToPixel(l.X, l.Y)
		weight := ""
		if l.Bold {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(buf, `    <text class="label" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.2f"%s>`,
			b.ID, x, y, vp.Points(l.Size), weight)
		escape(buf, l.Text)
		buf.WriteString("</text>\n")
	}
}

func renderText(buf *bytes.Buffer, vp diagram.Viewport, t diagram.Text, fill string) {
	x, y := vp.ToPixel(t.X, t.Y)
	anchor := "start"
	if t.Align == diagram.AlignCenter {
		anchor = "middle"
	}
	baseline := "alphabetic"
	if t.Anchor == diagram.AnchorCenter {
		baseline = "central"
	}

	var attrs strings.Builder
	if t.Bold {
		attrs.WriteString(` font-weight="bold"`)
	}
	if t.Italic {
		attrs.WriteString(` font-style="italic"`)
	}

	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="%s" font-size="%.2f" fill="%s"%s>`,
		x, y, anchor, baseline, vp.Points(t.Size), fill, attrs.String())
	escape(buf, t.Content)
	buf.WriteString("</text>\n")
}

// familyUnsafe drops characters that would end the quoted CSS name or the
// XML attribute holding it.
var familyUnsafe = strings.NewReplacer(`'`, "", `"`, "", `\`, "", "&", "", "<", "", ">", "")

// fontFamilyList puts a system family ahead of the fallback list.
func fontFamilyList(family string) string {
	return "'" + familyUnsafe.Replace(family) + "', " + fonts.FallbackFontFamily
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
