package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
)

// RenderSVG writes the scene as a standalone SVG document.
func RenderSVG(sc Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		sc.Width, sc.Height, sc.Width, sc.Height)

	bg, bgOpacity := cssColor(color.NRGBAModel.Convert(sc.Background).(color.NRGBA))
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s" fill-opacity="%.2f"/>`+"\n", bg, bgOpacity)

	renderGrid(&buf, sc)
	for _, m := range sc.Marks {
		renderMark(&buf, m)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, sc Scene) {
	stroke, opacity := cssColor(gridColor)
	fmt.Fprintf(buf, `  <g class="grid" stroke="%s" stroke-opacity="%.2f" stroke-width="1">`+"\n", stroke, opacity)
	for _, x := range sc.GridX {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%d"/>`+"\n", x, x, sc.Height)
	}
	for _, y := range sc.GridY {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%d" y2="%.2f"/>`+"\n", y, sc.Width, y)
	}
	buf.WriteString("  </g>\n")
}

func renderMark(buf *bytes.Buffer, m Mark) {
	fill, fillOpacity := cssColor(m.Colors.Fill)
	stroke, _ := cssColor(m.Colors.Stroke)
	label, labelOpacity := cssColor(labelColor)

	fmt.Fprintf(buf, `  <g class="anchor" id="anchor-%s">`+"\n", escapeXML(m.ID))
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.0f"/>`+"\n",
		m.Center.X, m.Center.Y, m.Radius, fill, fillOpacity, stroke, LineWidth)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="monospace" font-size="%.2f" fill="#FFFFFF" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		m.Center.X, m.Center.Y, m.GlyphSize, escapeXML(m.Glyph))
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" fill="%s" fill-opacity="%.2f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		m.LabelAt.X, m.LabelAt.Y, m.LabelSize, label, labelOpacity, escapeXML(m.Label))
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
