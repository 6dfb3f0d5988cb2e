package opacity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

func kappa(logR, logT float64) float64 { return 0.5*logR - logT + 2 }

// kapFile writes a table in MESA layout with log κ linear in log R and
// log T, which Akima splines reproduce exactly.
func kapFile(logRs, logTs []float64) string {
	var b strings.Builder
	b.WriteString("form     version     X          Z      logRs  logR_min  logR_max    logTs  logT_min  logT_max\n")
	fmt.Fprintf(&b, "   1         37      0.70000    0.02000 %6d %9.3f %8.3f %8d %8.3f %9.3f\n",
		len(logRs), logRs[0], logRs[len(logRs)-1], len(logTs), logTs[0], logTs[len(logTs)-1])
	b.WriteString("\n")
	b.WriteString("    logT                       logR = logRho - 3*logT + 18\n")
	b.WriteString("\n")
	b.WriteString("    logT")
	for _, r := range logRs {
		fmt.Fprintf(&b, " %7.3f", r)
	}
	b.WriteString("\n\n")
	for _, t := range logTs {
		fmt.Fprintf(&b, "   %5.3f", t)
		for _, r := range logRs {
			fmt.Fprintf(&b, " %7.3f", kappa(r, t))
		}
		b.WriteString("\n")
	}
	return b.String()
}

var (
	gridR    = []float64{-8, -6, -4, -2, 0, 1}
	gridHigh = []float64{3.75, 4, 5, 6, 7, 8.7}
	gridLow  = []float64{2.7, 3, 3.5, 4, 4.5}
)

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(kapFile(gridR, gridHigh)))
	require.NoError(t, err)

	assert.Equal(t, 0.7, tbl.X)
	assert.Equal(t, 0.02, tbl.Z)
	assert.Equal(t, gridR, tbl.LogR)
	assert.Equal(t, gridHigh, tbl.LogT)
	require.Len(t, tbl.Kappa, len(gridHigh))
	assert.InDelta(t, kappa(-4, 5), tbl.Kappa[2][2], 1e-12)

	lo, hi := tbl.RangeR()
	assert.Equal(t, [2]float64{-8, 1}, [2]float64{lo, hi})
	lo, hi = tbl.RangeT()
	assert.Equal(t, [2]float64{3.75, 8.7}, [2]float64{lo, hi})
}

func TestParseErrors(t *testing.T) {
	good := kapFile(gridR, gridHigh)
	lines := strings.Split(good, "\n")

	short := strings.Join(append(slicesClone(lines[:firstRow+1]), "   9.000 1 2"), "\n")
	_, err := Parse(strings.NewReader(short))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMalformedData), "ragged row: %v", err)

	_, err = Parse(strings.NewReader(strings.Join(lines[:firstRow+1], "\n")))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMalformedData), "single row: %v", err)

	unordered := kapFile([]float64{0, -1, 1}, gridHigh)
	_, err = Parse(strings.NewReader(unordered))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMalformedData), "unordered grid: %v", err)
}

func slicesClone(s []string) []string { return append([]string(nil), s...) }

func TestAt(t *testing.T) {
	tbl, err := Parse(strings.NewReader(kapFile(gridR, gridHigh)))
	require.NoError(t, err)

	for _, lt := range gridHigh {
		for _, lr := range gridR {
			got, err := tbl.At(lr, lt)
			require.NoError(t, err)
			assert.InDelta(t, kappa(lr, lt), got, 1e-9, "node (%g, %g)", lr, lt)
		}
	}

	got, err := tbl.At(-3.3, 5.55)
	require.NoError(t, err)
	assert.InDelta(t, kappa(-3.3, 5.55), got, 1e-9)

	_, err = tbl.At(2, 5)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = tbl.At(0, 3)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestFilename(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/opt/mesa", "data", "kap_data", "gs98_z0.02_x0.7.data"),
		Filename("/opt/mesa", HighTPrefix, "0.7", "0.02"))
	assert.Equal(t,
		filepath.Join("/opt/mesa", "data", "kap_data", "lowT_fa05_gs98_z0.02_x0.7.data"),
		Filename("/opt/mesa", LowTPrefix, "0.7", "0.02"))
}

func writeMESA(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	kap := filepath.Join(dir, "data", "kap_data")
	require.NoError(t, os.MkdirAll(kap, 0o755))
	require.NoError(t, os.WriteFile(Filename(dir, HighTPrefix, "0.7", "0.02"), []byte(kapFile(gridR, gridHigh)), 0o644))
	require.NoError(t, os.WriteFile(Filename(dir, LowTPrefix, "0.7", "0.02"), []byte(kapFile([]float64{-8, -4, 0, 1}, gridLow)), 0o644))
	return dir
}

func TestLoadBlend(t *testing.T) {
	b, err := LoadBlend(writeMESA(t), "0.7", "0.02")
	require.NoError(t, err)
	assert.Equal(t, DefaultSwitchLogT, b.SwitchLogT)

	assert.Same(t, b.Low, b.Table(3.99))
	assert.Same(t, b.High, b.Table(4))

	lo, hi := b.RangeT()
	assert.Equal(t, [2]float64{2.7, 8.7}, [2]float64{lo, hi})

	got, err := b.At(-2, 3.5)
	require.NoError(t, err)
	assert.InDelta(t, kappa(-2, 3.5), got, 1e-9)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadBlend(t.TempDir(), "0.7", "0.02")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFileNotFound))
}

func TestCurves(t *testing.T) {
	b, err := LoadBlend(writeMESA(t), "0.7", "0.02")
	require.NoError(t, err)

	rhos := DefaultLogRhos()
	assert.Equal(t, []float64{-10, -8, -6, -4, -2, 0}, rhos)

	curves, err := Curves(b, rhos, DefaultPoints)
	require.NoError(t, err)
	require.Len(t, curves, len(rhos))

	rlo, rhi := b.RangeR()
	nonEmpty := 0
	for _, c := range curves {
		require.Equal(t, len(c.LogT), len(c.LogKappa))
		if len(c.LogT) > 0 {
			nonEmpty++
		}
		for i, lt := range c.LogT {
			lr := LogR(c.LogRho, lt)
			assert.Greater(t, lr, rlo)
			assert.Less(t, lr, rhi)
			assert.InDelta(t, kappa(lr, lt), c.LogKappa[i], 1e-9)
			if i > 0 {
				assert.Greater(t, lt, c.LogT[i-1])
			}
		}
	}
	assert.Positive(t, nonEmpty)
}

func TestLogR(t *testing.T) {
	assert.InDelta(t, -3.0, LogR(0, 7), 1e-12)
	assert.InDelta(t, -10.0+18-12, LogR(-10, 4), 1e-12)
}
