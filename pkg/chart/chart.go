package chart

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

// Formats lists the output formats gonum/plot can write.
var Formats = []string{"svg", "png", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// Default figure size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4.5 * vg.Inch
)

// Figure is anything that can be written to a sized canvas.
type Figure interface {
	WriterTo(w, h vg.Length, format string) (io.WriterTo, error)
}

// FormatOf returns the lower-case extension of path without its dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Save writes fig to path in the format named by its extension.
func Save(fig Figure, w, h vg.Length, path string) error {
	if err := apperrors.ValidatePath(path); err != nil {
		return err
	}
	format := FormatOf(path)
	if err := apperrors.ValidateFormat(format, Formats...); err != nil {
		return err
	}
	wt, err := fig.WriterTo(w, h, format)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Grid is a row-major arrangement of plots drawn on one canvas.
type Grid struct {
	Plots [][]*plot.Plot
	Tiles draw.Tiles
}

// WriterTo lays the plots out with aligned axes and returns the canvas.
func (g *Grid) WriterTo(w, h vg.Length, format string) (io.WriterTo, error) {
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return nil, err
	}
	canvases := plot.Align(g.Plots, g.Tiles, draw.New(c))
	for i, row := range g.Plots {
		for j, p := range row {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
	return c, nil
}
