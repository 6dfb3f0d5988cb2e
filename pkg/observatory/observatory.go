// Package observatory holds the BiSON site catalogue and the orthographic
// globe projection used to draw it.
package observatory

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Site is a named location in degrees.
type Site struct {
	Name string
	Lat  float64
	Lon  float64
}

// BiSON returns the Birmingham Solar Oscillations Network stations.
func BiSON() []Site {
	return []Site{
		{"Mount Wilson", 34.22, -118.07},
		{"Las Campanas", -29.01597, -70.69208},
		{"Teide Observatory", 28.3, -16.5097},
		{"Sutherland", -32.376006, 20.810678},
		{"Carnarvon", -24.869167, 113.704722},
		{"Paul Wild Observatory", -30.314, 149.562},
		{"University of Birmingham", 52.450556, -1.930556},
	}
}

// DefaultCentres are the centre longitudes of the two hemispheres drawn
// by default.
var DefaultCentres = []float64{-45, 135}

const deg = math.Pi / 180

// Orthographic projects the unit globe onto the plane tangent at
// (Lat0, Lon0), in degrees.
type Orthographic struct {
	Lat0, Lon0 float64
}

// CosC returns the cosine of the angular distance from the centre.
func (o Orthographic) CosC(lat, lon float64) float64 {
	p, l := lat*deg, (lon-o.Lon0)*deg
	p0 := o.Lat0 * deg
	return math.Sin(p0)*math.Sin(p) + math.Cos(p0)*math.Cos(p)*math.Cos(l)
}

// Visible reports whether (lat, lon) is on the near hemisphere.
func (o Orthographic) Visible(lat, lon float64) bool {
	return o.CosC(lat, lon) > 0
}

// Project returns the plane coordinates of (lat, lon) on a unit globe.
func (o Orthographic) Project(lat, lon float64) (x, y float64, visible bool) {
	p, l := lat*deg, (lon-o.Lon0)*deg
	p0 := o.Lat0 * deg
	x = math.Cos(p) * math.Sin(l)
	y = math.Cos(p0)*math.Sin(p) - math.Sin(p0)*math.Cos(p)*math.Cos(l)
	return x, y, o.Visible(lat, lon)
}

// VisibleSites returns the sites on the near hemisphere.
func (o Orthographic) VisibleSites(sites []Site) []Site {
	var out []Site
	for _, s := range sites {
		if o.Visible(s.Lat, s.Lon) {
			out = append(out, s)
		}
	}
	return out
}

// Path is a projected polyline.
type Path struct {
	X, Y []float64
}

// Limb returns the outline of the globe sampled with n points.
func Limb(n int) Path {
	n = max(n, 3)
	ts := floats.Span(make([]float64, n), 0, 2*math.Pi)
	p := Path{X: make([]float64, n), Y: make([]float64, n)}
	for i, t := range ts {
		p.Y[i], p.X[i] = math.Sincos(t)
	}
	return p
}

// Graticule returns parallels and meridians every step degrees, split
// wherever they pass behind the globe.
func (o Orthographic) Graticule(step float64) []Path {
	if step <= 0 {
		step = 30
	}
	const samples = 181
	var out []Path

	for lat := -90 + step; lat < 90; lat += step {
		lons := floats.Span(make([]float64, samples), -180, 180)
		out = append(out, o.split(func(i int) (float64, float64) { return lat, lons[i] }, samples)...)
	}
	for lon := -180.0; lon < 180; lon += step {
		lats := floats.Span(make([]float64, samples), -90, 90)
		out = append(out, o.split(func(i int) (float64, float64) { return lats[i], lon }, samples)...)
	}
	return out
}

// split projects n points and breaks the result into visible runs.
func (o Orthographic) split(at func(int) (lat, lon float64), n int) []Path {
	var (
		out []Path
		cur Path
	)
	for i := range n {
		x, y, vis := o.Project(at(i))
		if !vis {
			if len(cur.X) > 1 {
				out = append(out, cur)
			}
			cur = Path{}
			continue
		}
		cur.X = append(cur.X, x)
		cur.Y = append(cur.Y, y)
	}
	if len(cur.X) > 1 {
		out = append(out, cur)
	}
	return out
}
