// Package legendre evaluates associated Legendre functions and spherical
// harmonics.
//
// # Conventions
//
// [P] follows the convention used by SciPy's lpmv and most physics texts:
// the Condon–Shortley phase (-1)^m is included, and negative orders are
// defined through
//
//	P_l^{-m}(x) = (-1)^m (l-m)!/(l+m)! P_l^m(x)
//
// [Normalized] returns the orthonormalised function
//
//	P̄_l^m(x) = sqrt((2l+1)/(4π) · (l-m)!/(l+m)!) · P_l^m(x)
//
// which is the θ-dependent factor of the spherical harmonic, so that
// Y_l^m(θ, φ) = P̄_l^m(cos θ) e^{imφ}. It is computed with a recurrence that
// never forms the factorials, so it stays finite for large degrees where
// [P] overflows.
//
// # Domain
//
// All functions are defined for l ≥ 0, |m| ≤ l and x in [-1, 1]. Outside
// that domain they return NaN rather than an error; callers that accept
// user input should validate it first.
package legendre
