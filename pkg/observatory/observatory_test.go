package observatory

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestBiSON(t *testing.T) {
	sites := BiSON()
	if len(sites) != 7 {
		t.Fatalf("len(BiSON()) = %d, want 7", len(sites))
	}
	for _, s := range sites {
		if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
			t.Errorf("%s out of range: (%v, %v)", s.Name, s.Lat, s.Lon)
		}
	}
}

func TestProject(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	tests := []struct {
		name     string
		o        Orthographic
		lat, lon float64
		want     [2]float64
		visible  bool
	}{
		{"centre", Orthographic{0, -45}, 0, -45, [2]float64{0, 0}, true},
		{"east", Orthographic{0, 0}, 0, 60, [2]float64{math.Sin(60 * deg), 0}, true},
		{"behind east limb", Orthographic{0, 0}, 0, 120, [2]float64{math.Sin(120 * deg), 0}, false},
		{"tilted pole", Orthographic{30, 0}, 90, 0, [2]float64{0, math.Cos(30 * deg)}, true},
		{"far side", Orthographic{0, 0}, 0, 180, [2]float64{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, vis := tt.o.Project(tt.lat, tt.lon)
			if diff := cmp.Diff(tt.want, [2]float64{x, y}, approx); diff != "" {
				t.Errorf("Project() mismatch (-want +got):\n%s", diff)
			}
			if vis != tt.visible {
				t.Errorf("visible = %v, want %v", vis, tt.visible)
			}
		})
	}
}

func TestVisibleSites(t *testing.T) {
	// Matches a simple longitude window for a centre on the equator.
	for _, lon0 := range DefaultCentres {
		o := Orthographic{Lon0: lon0}
		var want []string
		for _, s := range BiSON() {
			if lon0-90 < s.Lon && s.Lon < lon0+90 {
				want = append(want, s.Name)
			}
		}
		var got []string
		for _, s := range o.VisibleSites(BiSON()) {
			got = append(got, s.Name)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("lon0=%v (-want +got):\n%s", lon0, diff)
		}
	}
}

func TestLimb(t *testing.T) {
	p := Limb(65)
	if len(p.X) != 65 {
		t.Fatalf("len = %d", len(p.X))
	}
	for i := range p.X {
		if r := math.Hypot(p.X[i], p.Y[i]); math.Abs(r-1) > 1e-12 {
			t.Errorf("point %d at radius %v", i, r)
		}
	}
	if n := len(Limb(0).X); n != 3 {
		t.Errorf("Limb(0) has %d points, want 3", n)
	}
}

func TestGraticule(t *testing.T) {
	o := Orthographic{Lon0: 135}
	paths := o.Graticule(30)
	if len(paths) == 0 {
		t.Fatal("no graticule paths")
	}
	for _, p := range paths {
		if len(p.X) < 2 || len(p.X) != len(p.Y) {
			t.Fatalf("bad path lengths %d/%d", len(p.X), len(p.Y))
		}
		for i := range p.X {
			if math.Hypot(p.X[i], p.Y[i]) > 1+1e-12 {
				t.Fatalf("graticule point outside the limb: (%v, %v)", p.X[i], p.Y[i])
			}
		}
	}
	if got := len(o.Graticule(0)); got != len(paths) {
		t.Errorf("default step gave %d paths, want %d", got, len(paths))
	}
}
