// Package pkg provides the core libraries for astroplot's astrophysics
// figures.
//
// # Overview
//
// Astroplot draws small, self-contained figures: spherical harmonics on an
// oscillating sphere with their nodal lines, the nuclear binding energy
// curve, the BiSON observatory network and MESA opacity curves. The pkg
// directory is organized into four main areas:
//
//  1. Mathematics - [legendre] and [nodal]
//  2. Geometry and rendering - [sphere], [render], [colormap] and [chart]
//  3. Datasets - [ame], [opacity], [observatory] and [datasource]
//  4. Infrastructure - [httputil], [config], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// Every figure is a short linear flow:
//
//	options / config
//	       ↓
//	dataset or computation  ([ame], [opacity], [observatory], [nodal])
//	       ↓
//	geometry                ([sphere] mesh and camera, or plotter data)
//	       ↓
//	renderer                ([render] for spheres, [chart] for 2D plots)
//	       ↓
//	SVG/PNG/PDF/GIF output
//
// # Quick Start
//
// Find the nodal lines of Y_6^3 and render the sphere:
//
//	import (
//	    "os"
//
//	    "github.com/matzehuels/astroplot/pkg/colormap"
//	    "github.com/matzehuels/astroplot/pkg/nodal"
//	    "github.com/matzehuels/astroplot/pkg/render"
//	    "github.com/matzehuels/astroplot/pkg/sphere"
//	)
//
//	lines := nodal.Find(6, 3)             // 3 latitudes, 6 meridians
//	mesh := sphere.NewMesh(6, 3, 101, 101)
//	cmap, _ := colormap.New("seismic", -1, 1)
//
//	svg := render.SVG(render.Scene{
//	    Frame:  mesh.Frame(0, 0, sphere.PatternStatic),
//	    Lines:  sphere.NodalPolylines(lines, 201, sphere.NodalRadius),
//	    Camera: sphere.DefaultCamera(),
//	    Colour: cmap,
//	})
//	os.WriteFile("y63.svg", svg, 0o644)
//
// # Main Packages
//
// [nodal] - The nodal line finder. Latitude circles are the zeros of
// P_l^m(cos θ) on the open interval; meridians are evenly spaced. Two
// strategies: grid bracketing (default) and seeded local solves.
//
// [legendre] - Normalised associated Legendre functions, their derivative
// and the spherical harmonics built on them.
//
// [sphere] - θ/φ mesh of Re Y_l^m, radially displaced frames, the camera
// and 3D polylines of the nodal lines.
//
// [render] - Sphere scenes to SVG, PNG and animated GIF, PDF through
// rsvg-convert, and a character grid for terminal previews.
//
// [chart] - gonum/plot figures: binding energy, opacity curves and the
// BiSON globes.
//
// [ame], [opacity], [observatory] - Dataset parsers and catalogues.
//
// [datasource] - Downloads datasets through [httputil]'s cache and retry.
//
// [legendre]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/legendre
// [nodal]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/nodal
// [sphere]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/sphere
// [render]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/render
// [colormap]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/colormap
// [chart]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/chart
// [ame]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/ame
// [opacity]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/opacity
// [observatory]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/observatory
// [datasource]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/datasource
// [httputil]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/astroplot/pkg/buildinfo
package pkg
