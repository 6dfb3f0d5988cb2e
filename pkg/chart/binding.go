package chart

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/astroplot/pkg/ame"
)

// BindingOptions configures [Binding].
type BindingOptions struct {
	LogX, LogY bool
	// XTicks, when set, replaces the automatic x ticks.
	XTicks []int
}

// bindingPoints returns Z against binding energy per nucleon in MeV. The
// free neutron and rows without a value are skipped, as are non-positive
// coordinates on a log axis.
func bindingPoints(nuclides []ame.Nuclide, logX, logY bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(nuclides))
	for _, n := range nuclides {
		if n.Z == 0 && n.A == 1 {
			continue
		}
		x, y := float64(n.Z), n.BindingPerNucleon/1e3
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if (logX && x <= 0) || (logY && y <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

// Binding plots binding energy per nucleon against atomic number, with
// each highlighted nuclide drawn in its own colour.
func Binding(nuclides, highlights []ame.Nuclide, opts BindingOptions) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "atomic number"
	p.Y.Label.Text = "binding energy per nucleon (MeV)"

	all, err := plotter.NewScatter(bindingPoints(nuclides, opts.LogX, opts.LogY))
	if err != nil {
		return nil, err
	}
	all.GlyphStyle.Color = color.NRGBA{A: 0x80}
	all.GlyphStyle.Radius = vg.Points(2.5)
	all.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(all)

	for i, h := range highlights {
		pts := bindingPoints([]ame.Nuclide{h}, opts.LogX, opts.LogY)
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(h.Label(), s)
	}
	p.Legend.Top = true

	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if len(opts.XTicks) > 0 {
		ticks := make(plot.ConstantTicks, len(opts.XTicks))
		for i, v := range opts.XTicks {
			ticks[i] = plot.Tick{Value: float64(v), Label: strconv.Itoa(v)}
		}
		p.X.Tick.Marker = ticks
	}
	return p, nil
}
