package sphere

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/astroplot/pkg/nodal"
)

// NodalRadius lifts nodal lines just above the unit sphere so they are not
// hidden by the surface.
const NodalRadius = 1.001

// Polyline is an open or closed path in 3D.
type Polyline []Vec3

// NodalPolylines returns one closed circle per latitude in lines and one
// pole-to-pole semicircle per meridian, each sampled with n points at
// radius r.
func NodalPolylines(lines nodal.Lines, n int, r float64) []Polyline {
	n = max(n, 2)
	out := make([]Polyline, 0, len(lines.Latitudes)+len(lines.Meridians))

	phis := floats.Span(make([]float64, n), -math.Pi, math.Pi)
	for _, mu := range lines.Latitudes {
		rho := r * math.Sqrt(1-mu*mu)
		pl := make(Polyline, n)
		for k, ph := range phis {
			sp, cp := math.Sincos(ph)
			pl[k] = Vec3{rho * cp, rho * sp, r * mu}
		}
		out = append(out, pl)
	}

	thetas := floats.Span(make([]float64, n), 0, math.Pi)
	for _, phi0 := range lines.Meridians {
		pl := make(Polyline, n)
		for k, th := range thetas {
			pl[k] = Spherical(r, th, phi0)
		}
		out = append(out, pl)
	}
	return out
}
