package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/config"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/observability"
	"github.com/matzehuels/astroplot/pkg/render"
)

// execute runs the root command with args in isolated config and cache
// directories and returns what the command wrote to its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

func executeIn(t *testing.T, cacheHome string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Cleanup(observability.Reset)

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"nodal", "sphere", "binding", "bison", "opacity", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPick(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	var a, b int
	cmd.Flags().IntVar(&a, "a", 1, "")
	cmd.Flags().IntVar(&b, "b", 1, "")
	if err := cmd.ParseFlags([]string{"--a", "5"}); err != nil {
		t.Fatal(err)
	}
	if got := pick(cmd, "a", a, 9); got != 5 {
		t.Errorf("pick(changed) = %d, want 5", got)
	}
	if got := pick(cmd, "b", b, 9); got != 9 {
		t.Errorf("pick(unchanged) = %d, want 9", got)
	}
}

func TestParseFloats(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    []float64
		wantErr bool
	}{
		{"400,300", 2, []float64{400, 300}, false},
		{" -45 , 135", 0, []float64{-45, 135}, false},
		{"1,2,3", 2, nil, true},
		{"1,x", 2, nil, true},
		{"", 0, nil, true},
	}
	for _, tt := range tests {
		got, err := parseFloats(tt.in, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFloats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("parseFloats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseList(t *testing.T) {
	got := parseList(" C12, ,Fe56,")
	if fmt.Sprint(got) != "[C12 Fe56]" {
		t.Errorf("parseList = %v", got)
	}
	if parseList("") != nil {
		t.Error("parseList(\"\") should be nil")
	}
}

func TestParseTicks(t *testing.T) {
	got, err := parseTicks("1,6,26")
	if err != nil || fmt.Sprint(got) != "[1 6 26]" {
		t.Errorf("parseTicks = %v, %v", got, err)
	}
	if _, err := parseTicks("1,six"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("parseTicks(bad) error = %v", err)
	}
}

func TestOutputFormat(t *testing.T) {
	if f, err := outputFormat("out/Mode.GIF", "svg", "gif"); err != nil || f != "gif" {
		t.Errorf("outputFormat = %q, %v", f, err)
	}
	if _, err := outputFormat("mode.bmp", "svg", "gif"); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("unsupported extension error = %v", err)
	}
	if _, err := outputFormat("", "svg"); !apperrors.Is(err, apperrors.ErrCodeInvalidPath) {
		t.Errorf("empty path error = %v", err)
	}
}

func TestParseColour(t *testing.T) {
	c, err := parseColour("1,0.5,0")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Errorf("parseColour = %v", c)
	}
	if _, err := parseColour("1,2,0"); err == nil {
		t.Error("component above 1 should fail")
	}
	if _, err := parseColour("1,1"); err == nil {
		t.Error("two components should fail")
	}
}

func TestSphereOptsResolve(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, s config.Sphere)
	}{
		{
			name: "defaults from config",
			check: func(t *testing.T, s config.Sphere) {
				if s != config.Default().Sphere {
					t.Errorf("resolved = %+v, want defaults", s)
				}
			},
		},
		{
			name: "vmin follows vmax",
			args: []string{"--vmax", "0.5"},
			check: func(t *testing.T, s config.Sphere) {
				if s.VMin != -0.5 || s.VMax != 0.5 {
					t.Errorf("range = [%v, %v], want [-0.5, 0.5]", s.VMin, s.VMax)
				}
			},
		},
		{
			name: "explicit vmin",
			args: []string{"--vmax", "0.5", "--vmin", "0"},
			check: func(t *testing.T, s config.Sphere) {
				if s.VMin != 0 {
					t.Errorf("vmin = %v, want 0", s.VMin)
				}
			},
		},
		{
			name: "resolution view and period",
			args: []string{"--resolution", "320,200", "--view", "30,60", "-P", "2.5", "--nframes", "10"},
			check: func(t *testing.T, s config.Sphere) {
				if s.Width != 320 || s.Height != 200 {
					t.Errorf("size = %dx%d", s.Width, s.Height)
				}
				if s.Azimuth != 30 || s.Elevation != 60 {
					t.Errorf("view = %v, %v", s.Azimuth, s.Elevation)
				}
				if s.Period.Duration != 2500*time.Millisecond || s.Frames != 10 {
					t.Errorf("period = %v, frames = %d", s.Period, s.Frames)
				}
			},
		},
		{
			name: "zero amplitude kept",
			args: []string{"-a", "0"},
			check: func(t *testing.T, s config.Sphere) {
				if s.Amplitude != 0 {
					t.Errorf("amplitude = %v, want 0", s.Amplitude)
				}
				if a := s.Animation(); a.Amplitude != 0 {
					t.Errorf("animation amplitude = %v, want 0", a.Amplitude)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := New(io.Discard, LogInfo).sphereCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			var opts sphereOpts
			opts.vmin, _ = cmd.Flags().GetFloat64("vmin")
			opts.vmax, _ = cmd.Flags().GetFloat64("vmax")
			opts.resolution, _ = cmd.Flags().GetString("resolution")
			opts.view, _ = cmd.Flags().GetString("view")
			opts.period, _ = cmd.Flags().GetFloat64("period")
			opts.frames, _ = cmd.Flags().GetInt("nframes")
			opts.pattern, _ = cmd.Flags().GetString("pattern")
			opts.amplitude, _ = cmd.Flags().GetFloat64("amplitude")
			s, err := opts.resolve(cmd, config.Default().Sphere)
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, s)
		})
	}
}

func TestSphereOptsResolveInvalid(t *testing.T) {
	cmd := New(io.Discard, LogInfo).sphereCommand()
	if err := cmd.ParseFlags([]string{"--pattern", "wobble"}); err != nil {
		t.Fatal(err)
	}
	opts := sphereOpts{pattern: "wobble"}
	if _, err := opts.resolve(cmd, config.Default().Sphere); err == nil {
		t.Error("unknown pattern should fail")
	}
}

func TestNodalCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "nodal", "-l", "6", "-m", "3", "--format", "json")
		if err != nil {
			t.Fatal(err)
		}
		var lines nodal.Lines
		if err := json.Unmarshal([]byte(out), &lines); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if lines.L != 6 || lines.M != 3 || len(lines.Latitudes) != 3 || len(lines.Meridians) != 6 {
			t.Errorf("lines = %+v", lines)
		}
	})

	t.Run("csv", func(t *testing.T) {
		out, err := execute(t, "nodal", "-l", "4", "-m", "0", "--strategy", "seeded", "-f", "csv")
		if err != nil {
			t.Fatal(err)
		}
		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1+4 {
			t.Fatalf("got %d records, want header and 4 latitudes", len(records))
		}
		if records[1][0] != "latitude" {
			t.Errorf("first row kind = %q", records[1][0])
		}
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "nodal", "-l", "2", "-m", "2")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Y_2^2", "no latitude circles", "meridians:"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("invalid order", func(t *testing.T) {
		_, err := execute(t, "nodal", "-l", "2", "-m", "3")
		if !apperrors.Is(err, apperrors.ErrCodeInvalidOrder) {
			t.Errorf("error = %v, want INVALID_ORDER", err)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "nodal", "--format", "xml")
		if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte("[nodal]\nstrategy = \"seeded\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", good, "nodal", "-f", "json"); err != nil {
		t.Errorf("valid config: %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[nodal]\nstrategy = \"guess\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", bad, "nodal"); err == nil {
		t.Error("invalid strategy in config should fail")
	}

	if _, err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "nodal"); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing config error = %v", err)
	}
}

func TestSphereCommandStill(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mode.svg")
	_, err := execute(t, "sphere", "-l", "2", "-m", "0", "--ntheta", "11", "--nphi", "11",
		"--resolution", "60,60", "--show-nodal-lines", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte(`class="nodal"`)) {
		t.Errorf("unexpected SVG:\n%.200s", data)
	}
}

func TestSphereCommandGIF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mode.gif")
	_, err := execute(t, "sphere", "-l", "1", "-m", "1", "--ntheta", "9", "--nphi", "9",
		"--resolution", "32,32", "--nframes", "3", "--pattern", "dr", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 {
		t.Errorf("got %d frames, want 3", len(g.Image))
	}
}

func TestSphereCommandBadOutput(t *testing.T) {
	_, err := execute(t, "sphere", "-o", "mode.mp4")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestSphereCommandScale(t *testing.T) {
	dir := t.TempDir()
	args := func(out, scale string) []string {
		return []string{"sphere", "-l", "2", "-m", "1", "--ntheta", "11", "--nphi", "11",
			"--resolution", "40,30", "--scale", scale, "-o", filepath.Join(dir, out)}
	}

	if _, err := execute(t, args("zero.png", "0")...); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("scale 0 error = %v, want INVALID_INPUT", err)
	}

	_, err := execute(t, args("double.png", "2")...)
	if !render.HasConverter() {
		if !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
			t.Errorf("error without rsvg-convert = %v, want UNSUPPORTED", err)
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(dir, "double.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 80 || cfg.Height != 60 {
		t.Errorf("size = %dx%d, want 80x60", cfg.Width, cfg.Height)
	}
}

func TestStillPhase(t *testing.T) {
	if stillPhase("") != 0 {
		t.Error("static pattern should be drawn at phase 0")
	}
	if stillPhase("dr") == 0 {
		t.Error("displacement pattern should not be drawn at phase 0")
	}
}

// massRow formats one AME2016 table row.
func massRow(n, z, a int, sym, b string) string {
	return fmt.Sprintf("%1s%3d%5d%5d%5d%4s%4s%14s%11s%11s%9s%3s%11s%9s%4s%13s%11s",
		"0", n-z, n, z, a, sym, "", "0.0", "0.0", b, "0.0", "B-", "*", "", fmt.Sprint(a), "000000.0", "0.0")
}

func massTable() string {
	var b strings.Builder
	for i := 0; i < 39; i++ {
		fmt.Fprintf(&b, "preamble %d\n", i+1)
	}
	for _, row := range []string{
		massRow(1, 0, 1, "n", "0.0"),
		massRow(0, 1, 1, "H", "0.0"),
		massRow(2, 2, 4, "He", "7073.915"),
		massRow(6, 6, 12, "C", "7680.144"),
		massRow(30, 26, 56, "Fe", "8790.356"),
	} {
		b.WriteString(row + "\n")
	}
	return b.String()
}

func TestBindingCommand(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		io.WriteString(w, massTable())
	}))
	defer srv.Close()

	dir := t.TempDir()
	data := filepath.Join(dir, "data", "mass16.txt")
	out := filepath.Join(dir, "binding.svg")
	args := []string{"binding", "--data", data, "--url", srv.URL, "--no-cache",
		"--highlight", "He4,Fe56", "--xticks", "1,2,6,26", "-o", out}

	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("chart not written: %v", err)
	}
	if _, err := os.Stat(data); err != nil {
		t.Errorf("table not saved locally: %v", err)
	}

	// The second run reads the local copy.
	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestBindingCommandRetries(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, massTable())
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeRetryConfig := func(name string, attempts int) string {
		path := filepath.Join(dir, name)
		body := fmt.Sprintf("[data]\nretry_attempts = %d\nretry_delay = \"1ms\"\nretry_max_delay = \"5ms\"\n", attempts)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	run := func(cfg, name string) error {
		_, err := execute(t, "--config", cfg, "binding", "--no-cache", "--url", srv.URL,
			"--data", filepath.Join(dir, name, "mass16.txt"), "-o", filepath.Join(dir, name+".svg"))
		return err
	}

	if err := run(writeRetryConfig("once.toml", 1), "once"); err == nil {
		t.Fatal("a single attempt should surface the 503")
	}
	requests.Store(0)
	if err := run(writeRetryConfig("twice.toml", 2), "twice"); err != nil {
		t.Fatalf("second attempt should succeed: %v", err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestBindingCommandUnknownIsotope(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "mass16.txt")
	if err := os.WriteFile(data, []byte(massTable()), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "binding", "--data", data, "--highlight", "U238", "-o", filepath.Join(dir, "b.svg"))
	if !apperrors.Is(err, apperrors.ErrCodeNuclideNotFound) {
		t.Errorf("error = %v, want NUCLIDE_NOT_FOUND", err)
	}
}

func TestBisonCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bison.png")
	if _, err := execute(t, "bison", "--centres=-90,90", "-o", out); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("map not written: %v", err)
	}
}

// kapTable writes a MESA kap table with log κ = logR/2 - logT.
func kapTable(t *testing.T, path string, logTs []float64) {
	t.Helper()
	logRs := []float64{-8, -6, -4, -2, 0, 1}
	var b strings.Builder
	b.WriteString("form     version     X          Z      logRs  logR_min  logR_max    logTs  logT_min  logT_max\n")
	fmt.Fprintf(&b, "   1         37      0.70000    0.02000 %6d %9.3f %8.3f %8d %8.3f %9.3f\n",
		len(logRs), logRs[0], logRs[len(logRs)-1], len(logTs), logTs[0], logTs[len(logTs)-1])
	b.WriteString("\n    logT                       logR = logRho - 3*logT + 18\n\n    logT")
	for _, r := range logRs {
		fmt.Fprintf(&b, " %7.3f", r)
	}
	b.WriteString("\n\n")
	for _, lt := range logTs {
		fmt.Fprintf(&b, "   %5.3f", lt)
		for _, r := range logRs {
			fmt.Fprintf(&b, " %7.3f", r/2-lt)
		}
		b.WriteString("\n")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpacityCommand(t *testing.T) {
	mesa := t.TempDir()
	kap := filepath.Join(mesa, "data", "kap_data")
	kapTable(t, filepath.Join(kap, "gs98_z0.02_x0.7.data"), []float64{3.75, 4, 5, 6, 7, 8.7})
	kapTable(t, filepath.Join(kap, "lowT_fa05_gs98_z0.02_x0.7.data"), []float64{2.7, 3, 3.5, 4, 4.5})

	out := filepath.Join(t.TempDir(), "kappa.svg")
	if _, err := execute(t, "opacity", "--mesa-dir", mesa, "--logrho=-8,-4", "-o", out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

func TestOpacityCommandErrors(t *testing.T) {
	t.Setenv("MESA_DIR", "")
	if _, err := execute(t, "opacity"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("no MESA dir error = %v", err)
	}
	if _, err := execute(t, "opacity", "--mesa-dir", t.TempDir()); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing tables error = %v", err)
	}
}
