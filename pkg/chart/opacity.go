package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/opacity"
)

// Opacity plots log κ against log T, one line per density coloured along
// a sequential colour map.
func Opacity(curves []opacity.Curve) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "log₁₀(T/K)"
	p.Y.Label.Text = "log₁₀(κ_R/(cm²/g))"

	lo, hi := 0.0, 1.0
	if len(curves) > 0 {
		lo, hi = curves[0].LogRho, curves[0].LogRho
		for _, c := range curves {
			lo, hi = min(lo, c.LogRho), max(hi, c.LogRho)
		}
		if hi == lo {
			hi = lo + 1
		}
	}
	cm, err := colormap.New(colormap.Sequential, lo, hi)
	if err != nil {
		return nil, err
	}

	for _, c := range curves {
		if len(c.LogT) < 2 {
			continue
		}
		xys := make(plotter.XYs, len(c.LogT))
		for i := range c.LogT {
			xys[i] = plotter.XY{X: c.LogT[i], Y: c.LogKappa[i]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = cm.At(c.LogRho)
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("log ρ = %g", c.LogRho), l)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}
