package opacity

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Defaults for [Curves].
const (
	DefaultSwitchLogT = 4.0
	DefaultPoints     = 200
)

// DefaultLogRhos returns log ρ = -10, -8, ..., 0.
func DefaultLogRhos() []float64 {
	return floats.Span(make([]float64, 6), -10, 0)
}

// LogR returns log R for density and temperature.
func LogR(logRho, logT float64) float64 {
	return logRho - 3*logT + 18
}

// Blend evaluates Low below SwitchLogT and High at or above it.
type Blend struct {
	Low, High  *Table
	SwitchLogT float64
}

// LoadBlend loads the low- and high-temperature tables for X, Z from a
// MESA installation.
func LoadBlend(mesaDir, x, z string) (Blend, error) {
	high, err := Load(Filename(mesaDir, HighTPrefix, x, z))
	if err != nil {
		return Blend{}, err
	}
	low, err := Load(Filename(mesaDir, LowTPrefix, x, z))
	if err != nil {
		return Blend{}, err
	}
	return Blend{Low: low, High: high, SwitchLogT: DefaultSwitchLogT}, nil
}

// Table returns the table used at logT.
func (b Blend) Table(logT float64) *Table {
	if logT < b.SwitchLogT {
		return b.Low
	}
	return b.High
}

// At returns log κ from the table selected by logT.
func (b Blend) At(logR, logT float64) (float64, error) {
	return b.Table(logT).At(logR, logT)
}

// RangeR returns the union log R extent of both tables.
func (b Blend) RangeR() (lo, hi float64) {
	l0, l1 := b.Low.RangeR()
	h0, h1 := b.High.RangeR()
	return math.Min(l0, h0), math.Max(l1, h1)
}

// RangeT returns the union log T extent of both tables.
func (b Blend) RangeT() (lo, hi float64) {
	l0, l1 := b.Low.RangeT()
	h0, h1 := b.High.RangeT()
	return math.Min(l0, h0), math.Max(l1, h1)
}

// Curve is log κ against log T at fixed density.
type Curve struct {
	LogRho   float64
	LogT     []float64
	LogKappa []float64
}

// Curves samples n temperatures across the union log T range for every
// density, keeps those whose log R lies strictly inside the union log R
// range, and evaluates the blend there. Points the selected table does
// not cover are dropped.
func Curves(b Blend, logRhos []float64, n int) ([]Curve, error) {
	if n < 2 {
		n = DefaultPoints
	}
	tlo, thi := b.RangeT()
	rlo, rhi := b.RangeR()
	ts := floats.Span(make([]float64, n), tlo, thi)

	out := make([]Curve, 0, len(logRhos))
	for _, rho := range logRhos {
		c := Curve{LogRho: rho}
		for _, lt := range ts {
			lr := LogR(rho, lt)
			if lr <= rlo || lr >= rhi {
				continue
			}
			k, err := b.At(lr, lt)
			if errors.Is(err, ErrOutOfRange) {
				continue
			}
			if err != nil {
				return nil, err
			}
			c.LogT = append(c.LogT, lt)
			c.LogKappa = append(c.LogKappa, k)
		}
		out = append(out, c)
	}
	return out, nil
}
