package render

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"
)

func draw(s Scene) *gg.Context {
	w, h := s.size()
	dc := gg.NewContext(w, h)
	dc.SetColor(s.background())
	dc.Clear()

	dc.SetLineWidth(0.5)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, q := range s.Quads() {
		dc.MoveTo(q.X[0], q.Y[0])
		for k := 1; k < 4; k++ {
			dc.LineTo(q.X[k], q.Y[k])
		}
		dc.ClosePath()
		dc.SetColor(s.fill(q.Value))
		dc.FillPreserve()
		dc.Stroke()
	}

	dc.SetColor(s.lineColour())
	dc.SetLineWidth(s.lineWidth())
	dc.SetLineCap(gg.LineCapRound)
	for _, seg := range s.Segments() {
		dc.DrawLine(seg.X0, seg.Y0, seg.X1, seg.Y1)
	}
	dc.Stroke()
	return dc
}

// Image rasterises s.
func Image(s Scene) image.Image {
	return draw(s).Image()
}

// PNG rasterises s and encodes it as PNG.
func PNG(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := draw(s).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
