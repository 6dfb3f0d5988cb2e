// Package colormap maps scalar values to colours using the continuous
// colour maps of gonum/plot.
package colormap

import (
	"image/color"
	"slices"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

// Default colour map names.
const (
	Diverging  = "seismic"
	Sequential = "kindlmann"
)

func smoothBlueRed() palette.ColorMap { return moreland.SmoothBlueRed() }

var maps = map[string]func() palette.ColorMap{
	"seismic":           smoothBlueRed,
	"bluered":           smoothBlueRed,
	"coolwarm":          smoothBlueRed,
	"blackbody":         moreland.BlackBody,
	"extendedblackbody": moreland.ExtendedBlackBody,
	"kindlmann":         moreland.Kindlmann,
	"extendedkindlmann": moreland.ExtendedKindlmann,
}

// Names returns the accepted colour map names, sorted.
func Names() []string {
	out := make([]string, 0, len(maps))
	for k := range maps {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Map is a colour map with a fixed value range. Values outside the range
// saturate at the end colours.
type Map struct {
	cm       palette.ColorMap
	min, max float64
}

// New returns the named colour map spanning [vmin, vmax].
func New(name string, vmin, vmax float64) (*Map, error) {
	ctor, ok := maps[strings.ToLower(name)]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown colour map %q (must be one of %s)", name, strings.Join(Names(), ", "))
	}
	if !(vmax > vmin) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "colour range must satisfy vmin < vmax, got [%g, %g]", vmin, vmax)
	}
	cm := ctor()
	cm.SetMin(vmin)
	cm.SetMax(vmax)
	return &Map{cm: cm, min: vmin, max: vmax}, nil
}

// Range returns the value range of the map.
func (m *Map) Range() (vmin, vmax float64) { return m.min, m.max }

// At returns the colour of v. NaN maps to transparent black.
func (m *Map) At(v float64) color.Color {
	if v != v {
		return color.NRGBA{}
	}
	v = min(max(v, m.min), m.max)
	c, err := m.cm.At(v)
	if err != nil {
		return color.NRGBA{}
	}
	return c
}

// Hex returns the colour of v as "#rrggbb".
func (m *Map) Hex(v float64) string {
	return Hex(m.At(v))
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, ch := range []uint32{r >> 8, g >> 8, b >> 8} {
		buf[1+2*i] = digits[ch>>4]
		buf[2+2*i] = digits[ch&0xf]
	}
	return string(buf)
}

// Palette returns n evenly spaced colours across the map, for series
// colouring.
func (m *Map) Palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = m.At(m.min + t*(m.max-m.min))
	}
	return out
}
