// Package sphere builds the geometry for drawing a spherical harmonic on a
// unit sphere: a θ/φ mesh coloured by Re Y_l^m, oscillation frames that
// displace the surface radially, an orthographic camera, and 3D polylines
// for the nodal lines.
//
// Rendering the geometry is left to the render package; nothing here draws.
package sphere
