package cli

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/config"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/render"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// nodalPoints is the number of points along each drawn nodal line.
const nodalPoints = 201

// sphereOpts holds the flags of the sphere command.
type sphereOpts struct {
	l, m       int
	output     string
	nTheta     int
	nPhi       int
	cmap       string
	vmin, vmax float64
	pattern    string
	amplitude  float64
	period     float64 // seconds
	frames     int
	resolution string
	view       string
	distance   float64
	bgcolor    string
	nodalLines bool
	tui        bool
	scale      float64
}

// sphereCommand creates the sphere command for rendering oscillation modes.
func (c *CLI) sphereCommand() *cobra.Command {
	def := config.Default().Sphere
	opts := sphereOpts{
		l:          6,
		m:          3,
		resolution: fmt.Sprintf("%d,%d", def.Width, def.Height),
		view:       fmt.Sprintf("%g,%g", def.Azimuth, def.Elevation),
		bgcolor:    "1,1,1",
		scale:      1,
	}

	cmd := &cobra.Command{
		Use:   "sphere",
		Short: "Render an oscillating spherical harmonic",
		Long: `Render the spherical harmonic Y_l^m on the surface of a sphere.

The sphere is displaced radially by amplitude·Y_l^m·sin(phase). A .gif
output holds one full period; .svg, .png and .pdf outputs hold a single
frame. Without --output the animation plays in the terminal.`,
		Example: `  astroplot sphere -l 6 -m 3 -o mode.gif --show-nodal-lines
  astroplot sphere -l 2 -m 0 --pattern displacement -o l2m0.png
  astroplot sphere -l 4 -m 2 -o l4m2@2x.png --scale 2
  astroplot sphere -l 10 -m 5 --tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.resolve(cmd, c.Config.Sphere)
			if err != nil {
				return err
			}
			bg, err := parseColour(opts.bgcolor)
			if err != nil {
				return err
			}
			return c.runSphere(cmd.Context(), opts, s, bg)
		},
	}

	cmd.Flags().IntVarP(&opts.l, "ell", "l", opts.l, "angular degree")
	cmd.Flags().IntVarP(&opts.m, "emm", "m", opts.m, "azimuthal order")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg, .png, .pdf or .gif)")
	cmd.Flags().IntVar(&opts.nTheta, "ntheta", def.NTheta, "number of points in latitude")
	cmd.Flags().IntVar(&opts.nPhi, "nphi", def.NPhi, "number of points in longitude")
	cmd.Flags().StringVar(&opts.cmap, "cmap", def.Colormap, "colour map for the surface")
	cmd.Flags().Float64Var(&opts.vmax, "vmax", def.VMax, "maximum of the colour map; < 1 saturates")
	cmd.Flags().Float64Var(&opts.vmin, "vmin", def.VMin, "minimum of the colour map (default -vmax)")
	cmd.Flags().StringVar(&opts.pattern, "pattern", def.Pattern, "surface colours: the static harmonic, or 'displacement'/'dr'")
	cmd.Flags().Float64VarP(&opts.amplitude, "amplitude", "a", def.Amplitude, "amplitude of oscillation")
	cmd.Flags().Float64VarP(&opts.period, "period", "P", def.Period.Seconds(), "period of oscillation in seconds")
	cmd.Flags().IntVar(&opts.frames, "nframes", def.Frames, "frames per oscillation")
	cmd.Flags().StringVar(&opts.resolution, "resolution", opts.resolution, "image size as width,height")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "viewing angle as azimuth,elevation in degrees")
	cmd.Flags().Float64VarP(&opts.distance, "distance", "d", def.Distance, "viewing distance")
	cmd.Flags().StringVar(&opts.bgcolor, "bgcolor", opts.bgcolor, "background colour as r,g,b in [0, 1]")
	cmd.Flags().BoolVar(&opts.nodalLines, "show-nodal-lines", false, "draw the nodal lines")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "play the animation in the terminal")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "rasterise .png output from the SVG at this factor (needs rsvg-convert)")

	return cmd
}

// resolve merges the flags the user set into the configured settings.
func (o sphereOpts) resolve(cmd *cobra.Command, s config.Sphere) (config.Sphere, error) {
	s.NTheta = pick(cmd, "ntheta", o.nTheta, s.NTheta)
	s.NPhi = pick(cmd, "nphi", o.nPhi, s.NPhi)
	s.Colormap = pick(cmd, "cmap", o.cmap, s.Colormap)
	s.VMax = pick(cmd, "vmax", o.vmax, s.VMax)
	switch {
	case cmd.Flags().Changed("vmin"):
		s.VMin = o.vmin
	case cmd.Flags().Changed("vmax"):
		s.VMin = -s.VMax
	}
	s.Pattern = pick(cmd, "pattern", o.pattern, s.Pattern)
	s.Amplitude = pick(cmd, "amplitude", o.amplitude, s.Amplitude)
	if cmd.Flags().Changed("period") {
		s.Period = config.Duration{Duration: time.Duration(o.period * float64(time.Second))}
	}
	s.Frames = pick(cmd, "nframes", o.frames, s.Frames)
	s.Distance = pick(cmd, "distance", o.distance, s.Distance)

	if cmd.Flags().Changed("resolution") {
		wh, err := parseFloats(o.resolution, 2)
		if err != nil {
			return s, err
		}
		s.Width, s.Height = int(wh[0]), int(wh[1])
	}
	if cmd.Flags().Changed("view") {
		view, err := parseFloats(o.view, 2)
		if err != nil {
			return s, err
		}
		s.Azimuth, s.Elevation = view[0], view[1]
	}

	if _, err := config.ParsePattern(s.Pattern); err != nil {
		return s, err
	}
	if s.Frames < 1 || s.Width < 1 || s.Height < 1 || s.Period.Duration <= 0 {
		return s, apperrors.New(apperrors.ErrCodeInvalidInput, "frames, resolution and period must be positive")
	}
	return s, nil
}

// parseColour parses "r,g,b" with components in [0, 1].
func parseColour(s string) (color.Color, error) {
	rgb, err := parseFloats(s, 3)
	if err != nil {
		return nil, err
	}
	var c [3]uint8
	for i, v := range rgb {
		if v < 0 || v > 1 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "colour component %g outside [0, 1]", v)
		}
		c[i] = uint8(math.Round(v * 255))
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}, nil
}

// stillPhase is the phase drawn for single-frame output. A static pattern
// is drawn undisplaced; a displacement pattern at its peak, where it is
// not blank.
func stillPhase(p sphere.Pattern) float64 {
	if p == sphere.PatternStatic {
		return 0
	}
	return math.Pi / 2
}

// newAnimation builds the animation of Y_l^m for s.
func (c *CLI) newAnimation(opts sphereOpts, s config.Sphere, bg color.Color) (render.Animation, nodal.Lines, error) {
	if err := nodal.Validate(opts.l, opts.m); err != nil {
		return render.Animation{}, nodal.Lines{}, err
	}
	fc, err := c.Config.Nodal.Finder()
	if err != nil {
		return render.Animation{}, nodal.Lines{}, err
	}
	cmap, err := colormap.New(s.Colormap, s.VMin, s.VMax)
	if err != nil {
		return render.Animation{}, nodal.Lines{}, err
	}

	lines := nodal.NewFinder(fc).Lines(opts.l, opts.m)
	anim := s.Animation()
	anim.Mesh = sphere.NewMesh(opts.l, opts.m, s.NTheta, s.NPhi)
	anim.Colour = cmap
	anim.Background = bg
	if opts.nodalLines {
		anim.Lines = sphere.NodalPolylines(lines, nodalPoints, sphere.NodalRadius)
	}
	return anim, lines, nil
}

func (c *CLI) runSphere(ctx context.Context, opts sphereOpts, s config.Sphere, bg color.Color) error {
	logger := loggerFromContext(ctx)

	anim, lines, err := c.newAnimation(opts, s, bg)
	if err != nil {
		return err
	}
	logger.Debug("sphere", "l", opts.l, "m", opts.m, "mesh", fmt.Sprintf("%dx%d", s.NTheta, s.NPhi),
		"cmap", s.Colormap, "latitudes", len(lines.Latitudes), "meridians", len(lines.Meridians))

	if opts.tui || opts.output == "" {
		return runSphereTUI(ctx, newSphereModel(anim, lines, opts.nodalLines))
	}

	format, err := outputFormat(opts.output, "svg", "png", "pdf", "gif")
	if err != nil {
		return err
	}
	if !(opts.scale > 0) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "scale must be positive, got %g", opts.scale)
	}

	prog := newProgress(logger)
	err = rendering(ctx, "sphere", format, func() error {
		if format == "gif" {
			return writeGIF(ctx, anim, opts.output)
		}
		data, err := still(ctx, anim, format, opts.scale)
		if err != nil {
			return err
		}
		return os.WriteFile(opts.output, data, 0o644)
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.output)
	printFile(opts.output)
	return nil
}

// still renders the single frame of anim in format. A PNG at scale 1 is
// drawn directly; any other scale goes through the SVG.
func still(ctx context.Context, anim render.Animation, format string, scale float64) ([]byte, error) {
	scene := anim.Scene(stillPhase(anim.Pattern))
	switch format {
	case "png":
		if scale != 1 {
			return render.ToPNG(ctx, render.SVG(scene), scale)
		}
		return render.PNG(scene)
	case "pdf":
		return render.ToPDF(ctx, render.SVG(scene))
	default:
		return render.SVG(scene), nil
	}
}

func writeGIF(ctx context.Context, anim render.Animation, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	spinner := newSpinnerWithContext(ctx, "Rendering frames...")
	restore := trackFrames(spinner)
	spinner.Start()
	defer func() {
		restore()
		spinner.Stop()
	}()
	return render.GIF(ctx, anim, f)
}
