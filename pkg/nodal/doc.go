// Package nodal locates the nodal lines of a spherical harmonic Y_l^m.
//
// The real part of Y_l^m vanishes on two families of curves:
//
//   - latitude circles at the polar angles θ where P_l^m(cos θ) = 0. There
//     are exactly l-|m| of them, strictly between the poles;
//   - |m| great circles through the poles, drawn as 2|m| meridian
//     semicircles at azimuths π(2j+1)/(2|m|) and their antipodes.
//
// The meridians follow from m alone. The latitude circles need a root
// search, which [Finder] performs with one of two strategies:
//
//   - [Bracket] (default) samples P_l^m on a grid fine enough that every
//     root falls in its own sign-change bracket, then refines each bracket
//     with safeguarded Newton iteration.
//   - [Seeded] runs Newton iteration in x from many seeds spread over
//     [-1, 1], records wherever each one lands, then deduplicates and keeps only the
//     values that are numerically zero and not at a pole.
//
// Both strategies finish with the same dedupe and zero filter, controlled
// by [Config.DedupeTol] and [Config.ZeroTol]. The zero test is applied to
// the orthonormalised function (see [legendre.Normalized]) so the tolerance
// has the same meaning at every degree.
//
// The finder never returns an error. A root the search misses is silently
// absent; invalid (l, m) produce an empty result. Use [Validate] on user
// input.
//
// [legendre.Normalized]: github.com/matzehuels/astroplot/pkg/legendre.Normalized
package nodal
