package sphere

import "math"

// Default view used by the sphere command.
const (
	DefaultAzimuth   = 45.0
	DefaultElevation = 54.735610317245346 // arccos(1/√3), looking down the (1,1,1) diagonal
	DefaultDistance  = 5.5
)

// fieldOfView is the full opening angle, in degrees, whose half-width at
// Distance defines the visible extent.
const fieldOfView = 30.0

// Camera is an orthographic camera looking at the origin. Azimuth is
// measured in the xy-plane from the x axis and Elevation from the z axis,
// both in degrees.
type Camera struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
}

// DefaultCamera returns the default view.
func DefaultCamera() Camera {
	return Camera{Azimuth: DefaultAzimuth, Elevation: DefaultElevation, Distance: DefaultDistance}
}

// Basis returns the unit vector towards the camera and the screen right and
// up vectors.
func (c Camera) Basis() (view, right, up Vec3) {
	az := c.Azimuth * math.Pi / 180
	el := c.Elevation * math.Pi / 180
	saz, caz := math.Sincos(az)
	sel, cel := math.Sincos(el)
	view = Vec3{sel * caz, sel * saz, cel}
	right = Vec3{-saz, caz, 0}
	up = view.Cross(right)
	return view, right, up
}

// Extent returns the half-width of the visible region in world units.
func (c Camera) Extent() float64 {
	d := c.Distance
	if d <= 0 {
		d = DefaultDistance
	}
	return d * math.Tan(fieldOfView/2*math.Pi/180)
}

// Project maps p to screen coordinates u (right) and v (up) in world units
// and returns its depth along the view direction; larger depth is closer
// to the camera.
func (c Camera) Project(p Vec3) (u, v, depth float64) {
	view, right, up := c.Basis()
	return p.Dot(right), p.Dot(up), p.Dot(view)
}
