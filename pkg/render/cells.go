package render

import (
	"math"
	"strings"

	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// Cell is one character of a terminal preview.
type Cell struct {
	Inside bool    // on the sphere's disc
	Node   bool    // within half a cell of a nodal line
	Value  float64 // colour value, valid when Inside
}

// Grid describes a terminal preview of a mesh on the undisplaced unit
// sphere.
type Grid struct {
	Mesh    *sphere.Mesh
	Lines   nodal.Lines
	Camera  sphere.Camera
	Pattern sphere.Pattern
	Phase   float64

	// Cols and Rows size the grid. Terminal cells are about twice as tall
	// as wide, so Cols ≈ 2·Rows gives a round disc.
	Cols, Rows int
}

// Cells samples g by casting one orthographic ray per cell.
func Cells(g Grid) [][]Cell {
	if g.Cols <= 0 || g.Rows <= 0 || g.Mesh == nil {
		return nil
	}
	view, right, up := g.Camera.Basis()
	ext := g.Camera.Extent()
	cell := 2 * ext / float64(g.Rows)
	sin := math.Sin(g.Phase)
	moving := g.Pattern == sphere.PatternDisplacement || g.Pattern == sphere.PatternDR

	out := make([][]Cell, g.Rows)
	for r := range out {
		row := make([]Cell, g.Cols)
		v := (1 - 2*(float64(r)+0.5)/float64(g.Rows)) * ext
		for c := range row {
			u := (2*(float64(c)+0.5)/float64(g.Cols) - 1) * ext
			rr := u*u + v*v
			if rr > 1 {
				continue
			}
			p := right.Scale(u).Add(up.Scale(v)).Add(view.Scale(math.Sqrt(1 - rr)))
			theta := math.Acos(max(-1, min(1, p.Z)))
			phi := math.Atan2(p.Y, p.X)

			val := g.Mesh.At(theta, phi)
			if moving {
				val *= sin
			}
			row[c] = Cell{Inside: true, Value: val, Node: onNode(g.Lines, theta, phi, cell/2)}
		}
		out[r] = row
	}
	return out
}

func onNode(lines nodal.Lines, theta, phi, tol float64) bool {
	for _, mu := range lines.Latitudes {
		if math.Abs(theta-math.Acos(mu)) < tol {
			return true
		}
	}
	st := math.Sin(theta)
	for _, m := range lines.Meridians {
		d := math.Remainder(phi-m, 2*math.Pi)
		if math.Abs(d)*st < tol {
			return true
		}
	}
	return false
}

// ramp runs from strongly negative to strongly positive.
const ramp = "@%#*+=-:.,.:-=+*#%@"

// Char returns the character for c: a space outside the disc, 'o' on a
// nodal line and a symmetric ramp character otherwise.
func Char(c Cell) byte {
	switch {
	case !c.Inside:
		return ' '
	case c.Node:
		return 'o'
	}
	half := (len(ramp) - 1) / 2
	k := half + int(math.Round(max(-1, min(1, c.Value))*float64(half)))
	return ramp[k]
}

// ASCII renders cells one Char per cell, one line per row.
func ASCII(cells [][]Cell) string {
	var b strings.Builder
	for _, row := range cells {
		for _, c := range row {
			b.WriteByte(Char(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
