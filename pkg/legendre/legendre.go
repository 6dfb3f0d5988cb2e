package legendre

import (
	"math"
	"math/cmplx"
)

// valid reports whether (l, m, x) lies inside the domain of P_l^m.
func valid(l, m int, x float64) bool {
	return l >= 0 && abs(m) <= l && x >= -1 && x <= 1
}

func abs(m int) int {
	if m < 0 {
		return -m
	}
	return m
}

// P returns the associated Legendre function P_l^m(x), including the
// Condon–Shortley phase.
func P(l, m int, x float64) float64 {
	if !valid(l, m, x) {
		return math.NaN()
	}
	if m < 0 {
		am := -m
		v := p(l, am, x) * math.Exp(logFactorialRatio(l, am))
		if am%2 == 1 {
			v = -v
		}
		return v
	}
	return p(l, m, x)
}

// p evaluates P_l^m for 0 ≤ m ≤ l by upward recurrence in l.
func p(l, m int, x float64) float64 {
	pmm := 1.0
	if m > 0 {
		somx2 := math.Sqrt((1 - x) * (1 + x))
		fact := 1.0
		for i := 1; i <= m; i++ {
			pmm *= -fact * somx2
			fact += 2
		}
	}
	if l == m {
		return pmm
	}
	pmmp1 := x * float64(2*m+1) * pmm
	if l == m+1 {
		return pmmp1
	}
	var pll float64
	for ll := m + 2; ll <= l; ll++ {
		pll = (x*float64(2*ll-1)*pmmp1 - float64(ll+m-1)*pmm) / float64(ll-m)
		pmm, pmmp1 = pmmp1, pll
	}
	return pll
}

// logFactorialRatio returns log((l-m)!/(l+m)!).
func logFactorialRatio(l, m int) float64 {
	a, _ := math.Lgamma(float64(l-m) + 1)
	b, _ := math.Lgamma(float64(l+m) + 1)
	return a - b
}

// Normalized returns the orthonormalised function P̄_l^m(x).
// For negative m it uses P̄_l^{-m} = (-1)^m P̄_l^m.
func Normalized(l, m int, x float64) float64 {
	v, _ := normalizedPair(l, m, x)
	return v
}

// normalizedPair returns P̄_l^m(x) and P̄_{l-1}^m(x). The second value is
// zero when l-1 < |m|.
func normalizedPair(l, m int, x float64) (float64, float64) {
	if !valid(l, m, x) {
		return math.NaN(), math.NaN()
	}
	sign := 1.0
	if m < 0 {
		m = -m
		if m%2 == 1 {
			sign = -1
		}
	}

	pmm := 1.0
	omx2 := (1 - x) * (1 + x)
	fact := 1.0
	for i := 1; i <= m; i++ {
		pmm *= omx2 * fact / (fact + 1)
		fact += 2
	}
	pmm = math.Sqrt(float64(2*m+1) * pmm / (4 * math.Pi))
	if m%2 == 1 {
		pmm = -pmm
	}
	if l == m {
		return sign * pmm, 0
	}

	oldfact := math.Sqrt(float64(2*m + 3))
	pmmp1 := x * oldfact * pmm
	if l == m+1 {
		return sign * pmmp1, sign * pmm
	}

	prev := pmm
	for ll := m + 2; ll <= l; ll++ {
		f := math.Sqrt(float64(4*ll*ll-1) / float64(ll*ll-m*m))
		pll := (x*pmmp1 - pmm/oldfact) * f
		oldfact = f
		prev = pmmp1
		pmm, pmmp1 = pmmp1, pll
	}
	return sign * pmmp1, sign * prev
}

// NormalizedDeriv returns P̄_l^m(x) and its derivative with respect to x.
// The derivative is only defined on the open interval (-1, 1); at the
// endpoints it is NaN.
func NormalizedDeriv(l, m int, x float64) (value, deriv float64) {
	value, prev := normalizedPair(l, m, x)
	if math.IsNaN(value) {
		return value, math.NaN()
	}
	if x <= -1 || x >= 1 {
		return value, math.NaN()
	}
	am := abs(m)
	// (x²-1) dP̄_l/dx = l x P̄_l - sqrt((2l+1)/(2l-1) (l-m)(l+m)) P̄_{l-1}
	c := 0.0
	if l > am {
		c = math.Sqrt(float64(2*l+1) / float64(2*l-1) * float64((l-am)*(l+am)))
	}
	deriv = (float64(l)*x*value - c*prev) / (x*x - 1)
	return value, deriv
}

// Y returns the spherical harmonic Y_l^m at polar angle theta (colatitude,
// 0 at the north pole) and azimuth phi.
func Y(l, m int, theta, phi float64) complex128 {
	if l < 0 || abs(m) > l {
		return cmplx.NaN()
	}
	amp := Normalized(l, m, math.Cos(theta))
	return complex(amp, 0) * cmplx.Exp(complex(0, float64(m)*phi))
}
