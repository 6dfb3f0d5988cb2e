package nodal

import (
	"math"

	"github.com/matzehuels/astroplot/pkg/legendre"
)

// xTol is the absolute bracket width at which refinement stops.
const xTol = 1e-15

// gridSize returns the number of θ-uniform nodes for (l, m). The spacing
// π/(n-1) stays below a quarter of π/(l+½), the smallest gap between
// consecutive zeros, so each cell holds at most one root.
func (f *Finder) gridSize(l, m int) int {
	n := f.SeedCount(l, m)
	if lo := 4 * (l + 1); n < lo {
		n = lo
	}
	return n
}

// bracket returns one candidate per sign change of P_l^m on a θ-uniform
// grid over [0, π].
func (f *Finder) bracket(l, m int) []float64 {
	xs := Seeds(f.gridSize(l, m))
	vs := make([]float64, len(xs))
	for i, x := range xs {
		vs[i] = legendre.Normalized(l, m, x)
	}

	var out []float64
	for i := 0; i+1 < len(xs); i++ {
		// An interior node that is an exact zero between nodes of opposite
		// sign is a root in its own right.
		if i > 0 && vs[i] == 0 && vs[i-1]*vs[i+1] < 0 {
			out = append(out, xs[i])
			continue
		}
		if vs[i]*vs[i+1] < 0 {
			out = append(out, f.refine(l, m, xs[i+1], xs[i], vs[i+1]))
		}
	}
	return out
}

// refine finds the zero of P̄_l^m inside [lo, hi], where the function has
// opposite signs at the ends and flo is its value at lo. Newton steps are
// taken while they stay inside the bracket and shrink fast enough;
// otherwise the bracket is bisected.
func (f *Finder) refine(l, m int, lo, hi, flo float64) float64 {
	// Orient so the function is negative at lo.
	if flo > 0 {
		lo, hi = hi, lo
	}
	x := 0.5 * (lo + hi)
	dxOld := math.Abs(hi - lo)
	dx := dxOld
	v, d := legendre.NormalizedDeriv(l, m, x)

	for range f.cfg.MaxIter {
		if ((x-hi)*d-v)*((x-lo)*d-v) > 0 || math.Abs(2*v) > math.Abs(dxOld*d) {
			dxOld = dx
			dx = 0.5 * (hi - lo)
			x = lo + dx
		} else {
			dxOld = dx
			dx = v / d
			x -= dx
		}
		if math.Abs(dx) < xTol {
			return x
		}
		v, d = legendre.NormalizedDeriv(l, m, x)
		switch {
		case v == 0:
			return x
		case v < 0:
			lo = x
		default:
			hi = x
		}
	}
	return x
}
