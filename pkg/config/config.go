// Package config loads astroplot's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/astroplot/config.toml (or
// ~/.config/astroplot/config.toml) and supplies defaults for command-line
// flags; flags always win.
//
//	[nodal]
//	strategy = "bracket"
//	zero_tol = 1e-4
//
//	[sphere]
//	colormap = "seismic"
//	frames = 40
//
//	[data]
//	dir = "data"
//	cache_ttl = "720h"
//	retry_attempts = 3
//	retry_delay = "1s"
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/astroplot/pkg/ame"
	"github.com/matzehuels/astroplot/pkg/colormap"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/httputil"
	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/render"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

// Config is the whole file.
type Config struct {
	Nodal  Nodal  `toml:"nodal"`
	Sphere Sphere `toml:"sphere"`
	Data   Data   `toml:"data"`
}

// Nodal configures the nodal line finder.
type Nodal struct {
	Strategy   string  `toml:"strategy"`
	SeedFactor int     `toml:"seed_factor"`
	DedupeTol  float64 `toml:"dedupe_tol"`
	ZeroTol    float64 `toml:"zero_tol"`
	MaxIter    int     `toml:"max_iter"`
}

// Sphere configures sphere renders.
type Sphere struct {
	NTheta    int      `toml:"ntheta"`
	NPhi      int      `toml:"nphi"`
	Colormap  string   `toml:"colormap"`
	VMin      float64  `toml:"vmin"`
	VMax      float64  `toml:"vmax"`
	Pattern   string   `toml:"pattern"`
	Amplitude float64  `toml:"amplitude"`
	Period    Duration `toml:"period"`
	Frames    int      `toml:"frames"`
	Width     int      `toml:"width"`
	Height    int      `toml:"height"`
	Azimuth   float64  `toml:"azimuth"`
	Elevation float64  `toml:"elevation"`
	Distance  float64  `toml:"distance"`
}

// Data configures dataset locations.
type Data struct {
	Dir      string   `toml:"dir"`
	AMEURL   string   `toml:"ame_url"`
	MESADir  string   `toml:"mesa_dir"`
	CacheTTL Duration `toml:"cache_ttl"`

	RetryAttempts int      `toml:"retry_attempts"`
	RetryDelay    Duration `toml:"retry_delay"`
	RetryMaxDelay Duration `toml:"retry_max_delay"`
}

// Duration is a time.Duration written as a string such as "2s" or "720h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	nc := nodal.DefaultConfig()
	cam := sphere.DefaultCamera()
	return Config{
		Nodal: Nodal{
			Strategy:   nc.Strategy.String(),
			SeedFactor: nc.SeedFactor,
			DedupeTol:  nc.DedupeTol,
			ZeroTol:    nc.ZeroTol,
			MaxIter:    nc.MaxIter,
		},
		Sphere: Sphere{
			NTheta:    101,
			NPhi:      101,
			Colormap:  colormap.Diverging,
			VMin:      -1,
			VMax:      1,
			Amplitude: render.DefaultAmplitude,
			Period:    Duration{time.Second},
			Frames:    40,
			Width:     400,
			Height:    400,
			Azimuth:   cam.Azimuth,
			Elevation: cam.Elevation,
			Distance:  cam.Distance,
		},
		Data: Data{
			Dir:      "data",
			AMEURL:   ame.DefaultURL,
			MESADir:  os.Getenv("MESA_DIR"),
			CacheTTL: Duration{30 * 24 * time.Hour},

			RetryAttempts: httputil.DefaultAttempts,
			RetryDelay:    Duration{httputil.DefaultDelay},
			RetryMaxDelay: Duration{httputil.DefaultMaxDelay},
		},
	}
}

// DefaultPath returns the location of the user's config file.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, "astroplot", "config.toml")
}

// Load reads path over the defaults. An empty path means [DefaultPath],
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
			}
			return Default(), nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.Nodal.Finder(); err != nil {
		return err
	}
	if c.Nodal.DedupeTol <= 0 || c.Nodal.ZeroTol <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "nodal tolerances must be positive")
	}
	s := c.Sphere
	if _, err := colormap.New(s.Colormap, s.VMin, s.VMax); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "sphere colour map")
	}
	if _, err := ParsePattern(s.Pattern); err != nil {
		return err
	}
	if s.Frames < 1 || s.Width < 1 || s.Height < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "sphere frames and size must be positive")
	}
	if c.Data.RetryAttempts < 1 || c.Data.RetryDelay.Duration <= 0 || c.Data.RetryMaxDelay.Duration < c.Data.RetryDelay.Duration {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "data.retry_attempts must be at least 1 and 0 < retry_delay <= retry_max_delay")
	}
	if c.Data.AMEURL != "" {
		if err := apperrors.ValidateURL(c.Data.AMEURL); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "data.ame_url")
		}
	}
	return nil
}

// Finder converts the section into a finder configuration.
func (n Nodal) Finder() (nodal.Config, error) {
	s, err := nodal.ParseStrategy(n.Strategy)
	if err != nil {
		return nodal.Config{}, err
	}
	return nodal.Config{
		Strategy:   s,
		SeedFactor: n.SeedFactor,
		DedupeTol:  n.DedupeTol,
		ZeroTol:    n.ZeroTol,
		MaxIter:    n.MaxIter,
	}, nil
}

// RetryPolicy returns the download retry policy.
func (d Data) RetryPolicy() httputil.RetryPolicy {
	return httputil.RetryPolicy{
		Attempts: d.RetryAttempts,
		Delay:    d.RetryDelay.Duration,
		MaxDelay: d.RetryMaxDelay.Duration,
	}
}

// Camera returns the configured view.
func (s Sphere) Camera() sphere.Camera {
	return sphere.Camera{Azimuth: s.Azimuth, Elevation: s.Elevation, Distance: s.Distance}
}

// Animation returns the animation settings other than the mesh, lines and
// colour map, which depend on the mode being drawn.
func (s Sphere) Animation() render.Animation {
	p, _ := ParsePattern(s.Pattern)
	return render.Animation{
		Camera:    s.Camera(),
		Pattern:   p,
		Amplitude: s.Amplitude,
		Frames:    s.Frames,
		Period:    s.Period.Duration,
		Width:     s.Width,
		Height:    s.Height,
	}
}

// ParsePattern converts a pattern name into a sphere.Pattern.
func ParsePattern(s string) (sphere.Pattern, error) {
	switch p := sphere.Pattern(strings.ToLower(s)); p {
	case sphere.PatternStatic, sphere.PatternDisplacement, sphere.PatternDR:
		return p, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "unknown pattern %q (must be 'displacement' or 'dr')", s)
}
