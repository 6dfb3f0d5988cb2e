package opacity

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

// ErrOutOfRange is returned when a point lies outside a table's grid.
var ErrOutOfRange = errors.New("opacity: point outside table")

// Line positions in a MESA kap file.
const (
	headerLine = 1
	logRLine   = 5
	firstRow   = 7
)

// Table prefixes under $MESA_DIR/data/kap_data.
const (
	HighTPrefix = "gs98_"
	LowTPrefix  = "lowT_fa05_gs98_"
)

// Filename returns the path of the table for composition X, Z. X and Z are
// used verbatim, as they appear in MESA file names ("0.7", "0.02").
func Filename(mesaDir, prefix, x, z string) string {
	return filepath.Join(mesaDir, "data", "kap_data", fmt.Sprintf("%sz%s_x%s.data", prefix, z, x))
}

// Table is one opacity table. Kappa is indexed [iT][iR].
type Table struct {
	X, Z  float64
	LogR  []float64
	LogT  []float64
	Kappa [][]float64

	rows []interp.AkimaSpline // one spline in log R per log T
}

// Load reads the table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "opacity table %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a MESA kap table.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	for i := 0; sc.Scan(); i++ {
		line := sc.Text()
		switch {
		case i == headerLine:
			if f := numbers(line); len(f) >= 4 {
				t.X, t.Z = f[2], f[3]
			}
		case i == logRLine:
			t.LogR = numbers(line)
		case i >= firstRow:
			f := numbers(line)
			if len(f) == 0 {
				continue
			}
			if len(f) != len(t.LogR)+1 {
				return nil, apperrors.New(apperrors.ErrCodeMalformedData,
					"opacity line %d: %d values, want %d", i+1, len(f), len(t.LogR)+1)
			}
			t.LogT = append(t.LogT, f[0])
			t.Kappa = append(t.Kappa, f[1:])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

// numbers returns the numeric fields of line, skipping labels.
func numbers(line string) []float64 {
	var out []float64
	for _, f := range strings.Fields(line) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func (t *Table) init() error {
	if len(t.LogR) < 2 || len(t.LogT) < 2 {
		return apperrors.New(apperrors.ErrCodeMalformedData,
			"opacity table needs at least 2x2 points, got %d log R by %d log T", len(t.LogR), len(t.LogT))
	}
	for name, xs := range map[string][]float64{"log R": t.LogR, "log T": t.LogT} {
		if !increasing(xs) {
			return apperrors.New(apperrors.ErrCodeMalformedData, "opacity %s grid is not increasing", name)
		}
	}
	t.rows = make([]interp.AkimaSpline, len(t.LogT))
	for i, k := range t.Kappa {
		if err := t.rows[i].Fit(t.LogR, k); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "opacity row log T = %g", t.LogT[i])
		}
	}
	return nil
}

func increasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return false
		}
	}
	return true
}

// RangeR returns the log R extent of the grid.
func (t *Table) RangeR() (lo, hi float64) { return t.LogR[0], t.LogR[len(t.LogR)-1] }

// RangeT returns the log T extent of the grid.
func (t *Table) RangeT() (lo, hi float64) { return t.LogT[0], t.LogT[len(t.LogT)-1] }

// Contains reports whether (logR, logT) lies on the grid.
func (t *Table) Contains(logR, logT float64) bool {
	rlo, rhi := t.RangeR()
	tlo, thi := t.RangeT()
	return logR >= rlo && logR <= rhi && logT >= tlo && logT <= thi
}

// At returns log κ at (logR, logT) by Akima interpolation in log R along
// every row followed by Akima interpolation in log T.
func (t *Table) At(logR, logT float64) (float64, error) {
	if !t.Contains(logR, logT) {
		return 0, fmt.Errorf("%w: log R = %g, log T = %g", ErrOutOfRange, logR, logT)
	}
	if i, ok := slices.BinarySearch(t.LogT, logT); ok {
		return t.rows[i].Predict(logR), nil
	}
	col := make([]float64, len(t.rows))
	for i := range t.rows {
		col[i] = t.rows[i].Predict(logR)
	}
	var s interp.AkimaSpline
	if err := s.Fit(t.LogT, col); err != nil {
		return 0, err
	}
	return s.Predict(logT), nil
}
