package render

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// Default output size in pixels.
const (
	DefaultWidth  = 600
	DefaultHeight = 600
)

// Scene is one frame ready to be drawn.
type Scene struct {
	Frame  sphere.Frame
	Lines  []sphere.Polyline
	Camera sphere.Camera
	Colour *colormap.Map

	Width, Height int
	Background    color.Color
	LineColour    color.Color
	LineWidth     float64
}

// Quad is a projected surface patch in pixel coordinates.
type Quad struct {
	X, Y  [4]float64
	Depth float64
	Value float64
}

// Segment is a projected piece of a nodal line in pixel coordinates.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

func (s Scene) size() (w, h int) {
	w, h = s.Width, s.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (s Scene) background() color.Color {
	if s.Background == nil {
		return color.White
	}
	return s.Background
}

func (s Scene) lineColour() color.Color {
	if s.LineColour == nil {
		return color.Black
	}
	return s.LineColour
}

func (s Scene) lineWidth() float64 {
	if s.LineWidth <= 0 {
		return 1.5
	}
	return s.LineWidth
}

// toScreen maps world u, v into pixels with the origin at the image
// centre and v pointing up.
func (s Scene) toScreen(u, v float64) (x, y float64) {
	w, h := s.size()
	scale := float64(min(w, h)) / (2 * s.Camera.Extent())
	return float64(w)/2 + u*scale, float64(h)/2 - v*scale
}

// Quads returns the visible surface patches ordered far to near.
func (s Scene) Quads() []Quad {
	pts := s.Frame.Points
	if len(pts) < 2 {
		return nil
	}
	view, _, _ := s.Camera.Basis()

	out := make([]Quad, 0, (len(pts)-1)*(len(pts[0])-1)/2)
	for i := 0; i+1 < len(pts); i++ {
		for j := 0; j+1 < len(pts[i]); j++ {
			corners := [4]sphere.Vec3{pts[i][j], pts[i+1][j], pts[i+1][j+1], pts[i][j+1]}

			// The diagonals' cross product points outwards for a θ/φ grid.
			normal := corners[2].Sub(corners[0]).Cross(corners[3].Sub(corners[1]))
			if normal.Dot(view) <= 0 {
				continue
			}

			var q Quad
			for k, c := range corners {
				u, v, d := s.Camera.Project(c)
				q.X[k], q.Y[k] = s.toScreen(u, v)
				q.Depth += d / 4
			}
			col := s.Frame.Colour
			q.Value = (col[i][j] + col[i+1][j] + col[i+1][j+1] + col[i][j+1]) / 4
			out = append(out, q)
		}
	}
	slices.SortStableFunc(out, func(a, b Quad) int { return cmp.Compare(a.Depth, b.Depth) })
	return out
}

// Segments returns the pieces of the nodal lines on the visible
// hemisphere.
func (s Scene) Segments() []Segment {
	var out []Segment
	for _, pl := range s.Lines {
		for k := 0; k+1 < len(pl); k++ {
			u0, v0, d0 := s.Camera.Project(pl[k])
			u1, v1, d1 := s.Camera.Project(pl[k+1])
			if d0+d1 < 0 {
				continue
			}
			x0, y0 := s.toScreen(u0, v0)
			x1, y1 := s.toScreen(u1, v1)
			out = append(out, Segment{x0, y0, x1, y1})
		}
	}
	return out
}

func (s Scene) fill(v float64) color.Color {
	if s.Colour == nil {
		return color.Gray{Y: 0x80}
	}
	return s.Colour.At(v)
}
