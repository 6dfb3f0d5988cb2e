package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/astroplot/pkg/colormap"
)

// SVG renders s as a standalone SVG document.
func SVG(s Scene) []byte {
	w, h := s.size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", colormap.Hex(s.background()))

	buf.WriteString(`  <g class="surface" stroke-width="0.5" stroke-linejoin="round">` + "\n")
	for _, q := range s.Quads() {
		hex := colormap.Hex(s.fill(q.Value))
		fmt.Fprintf(&buf, `    <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" stroke="%s"/>`+"\n",
			q.X[0], q.Y[0], q.X[1], q.Y[1], q.X[2], q.Y[2], q.X[3], q.Y[3], hex, hex)
	}
	buf.WriteString("  </g>\n")

	if segs := s.Segments(); len(segs) > 0 {
		fmt.Fprintf(&buf, `  <path class="nodal" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" d="`,
			colormap.Hex(s.lineColour()), s.lineWidth())
		for i, seg := range segs {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "M%.2f,%.2f L%.2f,%.2f", seg.X0, seg.Y0, seg.X1, seg.Y1)
		}
		buf.WriteString(`"/>` + "\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
