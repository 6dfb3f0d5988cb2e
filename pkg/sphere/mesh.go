package sphere

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/astroplot/pkg/legendre"
)

// Pattern selects how a frame is coloured.
type Pattern string

const (
	// PatternStatic colours every frame with the harmonic itself.
	PatternStatic Pattern = ""
	// PatternDisplacement colours each frame with its local displacement.
	PatternDisplacement Pattern = "displacement"
	// PatternDR is an alias of PatternDisplacement.
	PatternDR Pattern = "dr"
)

// Vec3 is a point or direction in 3D.
type Vec3 struct{ X, Y, Z float64 }

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns s·a.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{s * a.X, s * a.Y, s * a.Z} }

// Dot returns a·b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a×b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// Spherical returns the point at radius r, polar angle theta and azimuth
// phi.
func Spherical(r, theta, phi float64) Vec3 {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return Vec3{r * st * cp, r * st * sp, r * ct}
}

// Mesh samples Re Y_l^m on a regular θ/φ grid. S is indexed [iθ][iφ] and
// scaled so that its largest magnitude is 1.
type Mesh struct {
	L, M  int
	Theta []float64
	Phi   []float64
	S     [][]float64
}

// NewMesh samples Y_l^m with nTheta polar angles over [0, π] and nPhi
// azimuths over [-π, π]. Both counts are raised to at least 2.
func NewMesh(l, m, nTheta, nPhi int) *Mesh {
	nTheta = max(nTheta, 2)
	nPhi = max(nPhi, 2)

	mesh := &Mesh{
		L:     l,
		M:     m,
		Theta: floats.Span(make([]float64, nTheta), 0, math.Pi),
		Phi:   floats.Span(make([]float64, nPhi), -math.Pi, math.Pi),
		S:     make([][]float64, nTheta),
	}

	peak := 0.0
	for i, th := range mesh.Theta {
		row := make([]float64, nPhi)
		for j, ph := range mesh.Phi {
			row[j] = real(legendre.Y(l, m, th, ph))
		}
		if v := floats.Norm(row, math.Inf(1)); v > peak {
			peak = v
		}
		mesh.S[i] = row
	}
	if peak > 0 {
		for _, row := range mesh.S {
			floats.Scale(1/peak, row)
		}
	}
	return mesh
}

// At returns the sample nearest to (theta, phi). Angles outside the mesh
// are clamped in θ and wrapped in φ.
func (m *Mesh) At(theta, phi float64) float64 {
	nt, np := len(m.Theta), len(m.Phi)
	i := int(math.Round(theta / math.Pi * float64(nt-1)))
	i = min(max(i, 0), nt-1)
	phi = math.Remainder(phi, 2*math.Pi)
	j := int(math.Round((phi + math.Pi) / (2 * math.Pi) * float64(np-1)))
	j = min(max(j, 0), np-1)
	return m.S[i][j]
}

// Frame is the mesh surface at one oscillation phase.
type Frame struct {
	Phase  float64
	Points [][]Vec3
	Colour [][]float64
}

// Frame displaces the unit sphere radially by amplitude·S·sin(phase).
// Colours follow the displacement for PatternDisplacement and PatternDR,
// and the static harmonic otherwise.
func (m *Mesh) Frame(phase, amplitude float64, pattern Pattern) Frame {
	sin := math.Sin(phase)
	f := Frame{
		Phase:  phase,
		Points: make([][]Vec3, len(m.Theta)),
		Colour: make([][]float64, len(m.Theta)),
	}
	moving := pattern == PatternDisplacement || pattern == PatternDR
	for i, th := range m.Theta {
		pts := make([]Vec3, len(m.Phi))
		col := make([]float64, len(m.Phi))
		for j, ph := range m.Phi {
			s := m.S[i][j]
			pts[j] = Spherical(1+amplitude*s*sin, th, ph)
			col[j] = s
			if moving {
				col[j] = s * sin
			}
		}
		f.Points[i] = pts
		f.Colour[i] = col
	}
	return f
}

// Phases returns n phases 2πk/n for k = 0 .. n-1, one period without the
// repeated endpoint.
func Phases(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for k := range out {
		out[k] = 2 * math.Pi * float64(k) / float64(n)
	}
	return out
}
