package nodal

import (
	"math"

	"github.com/matzehuels/astroplot/pkg/legendre"
)

// seeded runs a local root solve from every seed and returns where each
// one ended, converged or not.
func (f *Finder) seeded(l, m int) []float64 {
	seeds := Seeds(f.SeedCount(l, m))
	out := make([]float64, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, f.polish(l, m, s))
	}
	return out
}

// polish applies unguarded Newton steps to P̄_l^m from x, stopping before a
// step leaves (-1, 1) or becomes non-finite. The result is the root the
// iteration converged to, or the last iterate; the zero test decides.
func (f *Finder) polish(l, m int, x float64) float64 {
	for range f.cfg.MaxIter {
		v, d := legendre.NormalizedDeriv(l, m, x)
		if v == 0 || d == 0 || math.IsNaN(d) {
			return x
		}
		next := x - v/d
		if math.IsNaN(next) || next <= -1 || next >= 1 {
			return x
		}
		if math.Abs(next-x) < xTol {
			return next
		}
		x = next
	}
	return x
}
