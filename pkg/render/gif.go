package render

import (
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/observability"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// Default animation settings.
const (
	DefaultFrames    = 36
	DefaultPeriod    = 2 * time.Second
	DefaultAmplitude = 1.0 / 3
)

// Animation describes one period of an oscillating sphere. Amplitude is
// used as given: zero plays an undeformed sphere.
type Animation struct {
	Mesh      *sphere.Mesh
	Lines     []sphere.Polyline
	Camera    sphere.Camera
	Colour    *colormap.Map
	Pattern   sphere.Pattern
	Amplitude float64

	Background    color.Color
	Frames        int
	Period        time.Duration
	Width, Height int
}

func (a Animation) withDefaults() Animation {
	if a.Frames <= 0 {
		a.Frames = DefaultFrames
	}
	if a.Period <= 0 {
		a.Period = DefaultPeriod
	}
	return a
}

// Scene returns the scene at phase.
func (a Animation) Scene(phase float64) Scene {
	return Scene{
		Frame:      a.Mesh.Frame(phase, a.Amplitude, a.Pattern),
		Lines:      a.Lines,
		Camera:     a.Camera,
		Colour:     a.Colour,
		Background: a.Background,
		Width:      a.Width,
		Height:     a.Height,
	}
}

// Delay returns the per-frame delay in hundredths of a second, at least 1.
func (a Animation) Delay() int {
	a = a.withDefaults()
	cs := a.Period.Seconds() * 100 / float64(a.Frames)
	return max(1, int(math.Round(cs)))
}

// GIF renders every frame of a in parallel and writes a looping GIF to w.
func GIF(ctx context.Context, a Animation, w io.Writer) error {
	a = a.withDefaults()
	hooks := observability.Render()
	phases := sphere.Phases(a.Frames)
	frames := make([]*image.Paletted, len(phases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ph := range phases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			img := Image(a.Scene(ph))
			p := image.NewPaletted(img.Bounds(), palette.Plan9)
			draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
			frames[i] = p
			hooks.OnFrame(ctx, i, len(phases), time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = a.Delay()
	}
	return gif.EncodeAll(w, &gif.GIF{Image: frames, Delay: delays, LoopCount: 0})
}
