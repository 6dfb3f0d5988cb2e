package nodal

import (
	"math"
	"slices"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/legendre"
)

// Strategy selects how candidate roots are generated.
type Strategy int

const (
	// Bracket samples the function on a fine grid and refines every sign
	// change.
	Bracket Strategy = iota
	// Seeded runs a local solver from oversampled seeds.
	Seeded
)

// String returns the flag spelling of s.
func (s Strategy) String() string {
	switch s {
	case Bracket:
		return "bracket"
	case Seeded:
		return "seeded"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "bracket":
		return Bracket, nil
	case "seeded":
		return Seeded, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown strategy %q (must be 'bracket' or 'seeded')", s)
}

// Default values for Config.
const (
	DefaultSeedFactor = 5
	DefaultDedupeTol  = 1e-13
	DefaultZeroTol    = 1e-4
	DefaultMaxIter    = 100
)

// Config holds the tunables of a Finder. Zero fields take their defaults.
type Config struct {
	Strategy Strategy

	// SeedFactor scales the number of seeds (Seeded) or the minimum number
	// of grid nodes (Bracket): SeedFactor*(l-|m|+2).
	SeedFactor int

	// DedupeTol is the spacing below which two candidates are the same root.
	DedupeTol float64

	// ZeroTol is the rounding step of the zero and pole tests.
	ZeroTol float64

	// MaxIter bounds the iterations of each local solve.
	MaxIter int
}

// DefaultConfig returns the configuration used by [Find].
func DefaultConfig() Config {
	return Config{
		Strategy:   Bracket,
		SeedFactor: DefaultSeedFactor,
		DedupeTol:  DefaultDedupeTol,
		ZeroTol:    DefaultZeroTol,
		MaxIter:    DefaultMaxIter,
	}
}

func (c Config) withDefaults() Config {
	if c.SeedFactor <= 0 {
		c.SeedFactor = DefaultSeedFactor
	}
	if c.DedupeTol <= 0 {
		c.DedupeTol = DefaultDedupeTol
	}
	if c.ZeroTol <= 0 {
		c.ZeroTol = DefaultZeroTol
	}
	if c.MaxIter <= 0 {
		c.MaxIter = DefaultMaxIter
	}
	return c
}

// Finder computes nodal lines. A Finder has no mutable state and may be
// shared.
type Finder struct {
	cfg Config
}

// NewFinder returns a Finder using cfg, with zero fields defaulted.
func NewFinder(cfg Config) *Finder {
	return &Finder{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (f *Finder) Config() Config { return f.cfg }

// Lines are the nodal lines of Y_l^m.
type Lines struct {
	L int `json:"l"`
	M int `json:"m"`

	// Latitudes are the cosines of the polar angles of the latitude
	// circles, ascending.
	Latitudes []float64 `json:"latitudes"`

	// Meridians are the azimuths, in [0, 2π), of the meridian semicircles.
	Meridians []float64 `json:"meridians"`
}

// Find returns the nodal lines of Y_l^m with the default configuration.
func Find(l, m int) Lines {
	return NewFinder(DefaultConfig()).Lines(l, m)
}

// Lines returns both families of nodal lines of Y_l^m.
func (f *Finder) Lines(l, m int) Lines {
	return Lines{
		L:         l,
		M:         m,
		Latitudes: f.Cosines(l, m),
		Meridians: Meridians(m),
	}
}

// Cosines returns the distinct zeros of P_l^m on the open interval (-1, 1),
// ascending. The result is empty, never nil, when there are none or when
// (l, m) is outside the domain.
func (f *Finder) Cosines(l, m int) []float64 {
	if Validate(l, m) != nil {
		return []float64{}
	}
	var candidates []float64
	switch f.cfg.Strategy {
	case Seeded:
		candidates = f.seeded(l, m)
	default:
		candidates = f.bracket(l, m)
	}
	return f.accept(l, m, dedupe(candidates, f.cfg.DedupeTol))
}

// Meridians returns the 2|m| azimuths of the meridian nodal semicircles:
// π(2j+1)/(2|m|) and the same plus π, for j = 0 .. |m|-1.
func Meridians(m int) []float64 {
	am := m
	if am < 0 {
		am = -am
	}
	out := make([]float64, 0, 2*am)
	for j := 0; j < am; j++ {
		phi := math.Pi * float64(2*j+1) / float64(2*am)
		out = append(out, phi, phi+math.Pi)
	}
	slices.Sort(out)
	return out
}

// Validate reports whether (l, m) is a valid degree and order.
func Validate(l, m int) error {
	return apperrors.ValidateDegreeOrder(l, m)
}

// SeedCount returns the number of seeds the Seeded strategy uses for
// (l, m).
func (f *Finder) SeedCount(l, m int) int {
	am := m
	if am < 0 {
		am = -am
	}
	return f.cfg.SeedFactor * (l - am + 2)
}

// Seeds returns cos(θ_k) for n angles evenly spaced over [0, π], so the
// first seed is 1 and the last is -1.
func Seeds(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}
	out := make([]float64, n)
	for k := range out {
		out[k] = math.Cos(math.Pi * float64(k) / float64(n-1))
	}
	return out
}

// accept applies the zero and pole tests.
func (f *Finder) accept(l, m int, candidates []float64) []float64 {
	out := make([]float64, 0, len(candidates))
	for _, x := range candidates {
		if math.IsNaN(x) || x < -1 || x > 1 {
			continue
		}
		if roundTo(legendre.Normalized(l, m, x), f.cfg.ZeroTol) != 0 {
			continue
		}
		if roundTo(math.Abs(x), f.cfg.ZeroTol) == 1 {
			continue
		}
		out = append(out, x)
	}
	return out
}

// dedupe sorts xs, rounds each value to a multiple of tol and merges
// neighbours that are within tol of each other.
func dedupe(xs []float64, tol float64) []float64 {
	rounded := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		rounded = append(rounded, roundTo(x, tol))
	}
	slices.Sort(rounded)

	out := rounded[:0]
	for _, x := range rounded {
		if len(out) > 0 && x-out[len(out)-1] <= tol {
			continue
		}
		out = append(out, x)
	}
	return out
}

// roundTo rounds x to the nearest multiple of step. For a step of 10^-d it
// behaves like rounding to d decimals; -0 becomes 0.
func roundTo(x, step float64) float64 {
	decimals := -math.Log10(step)
	if d := math.Round(decimals); math.Abs(d-decimals) < 1e-9 {
		p := math.Pow(10, d)
		return math.Round(x*p)/p + 0
	}
	return math.Round(x/step)*step + 0
}
