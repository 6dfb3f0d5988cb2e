package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/astroplot/pkg/observatory"
)

var (
	ocean     = color.NRGBA{R: 0xcc, G: 0xe5, B: 0xf5, A: 0xff}
	graticule = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80}
	site      = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

func xys(p observatory.Path) plotter.XYs {
	out := make(plotter.XYs, len(p.X))
	for i := range p.X {
		out[i] = plotter.XY{X: p.X[i], Y: p.Y[i]}
	}
	return out
}

// GlobePanel draws one orthographic hemisphere centred on the equator at
// longitude lon0 with the sites visible from there.
func GlobePanel(sites []observatory.Site, lon0 float64) (*plot.Plot, error) {
	o := observatory.Orthographic{Lon0: lon0}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%g°", lon0)
	p.HideAxes()
	p.X.Min, p.X.Max = -1.05, 1.05
	p.Y.Min, p.Y.Max = -1.05, 1.05

	limb := xys(observatory.Limb(181))
	disc, err := plotter.NewPolygon(limb)
	if err != nil {
		return nil, err
	}
	disc.Color = ocean
	disc.LineStyle.Width = vg.Points(1)
	p.Add(disc)

	for _, path := range o.Graticule(30) {
		l, err := plotter.NewLine(xys(path))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = graticule
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)
	}

	var pts plotter.XYs
	for _, s := range o.VisibleSites(sites) {
		x, y, _ := o.Project(s.Lat, s.Lon)
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = site
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}
	return p, nil
}

// Globe lays out one panel per centre longitude side by side.
func Globe(sites []observatory.Site, centres []float64) (*Grid, error) {
	if len(centres) == 0 {
		centres = observatory.DefaultCentres
	}
	row := make([]*plot.Plot, len(centres))
	for i, lon0 := range centres {
		p, err := GlobePanel(sites, lon0)
		if err != nil {
			return nil, err
		}
		row[i] = p
	}
	return &Grid{
		Plots: [][]*plot.Plot{row},
		Tiles: draw.Tiles{Rows: 1, Cols: len(centres), PadX: vg.Millimeter, PadY: vg.Millimeter},
	}, nil
}
