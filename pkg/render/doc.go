// Package render draws oscillating spheres and their nodal lines.
//
// # Overview
//
// A [Scene] is one frame of a [sphere.Mesh] seen through a [sphere.Camera]
// with a colour map and an optional set of nodal polylines. Scenes are
// flattened into depth-sorted quads (painter's algorithm) after back faces
// are culled, and then written out in one of several formats:
//
//   - [SVG]: a hand-built SVG document
//   - [PNG]: a raster drawn with fogleman/gg
//   - [GIF]: an animation over one oscillation period, frames rendered in
//     parallel
//   - [Cells]: a coarse character grid for terminal previews
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	svg := render.SVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
