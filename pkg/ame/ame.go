package ame

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

// DefaultURL is where the AME2016 mass table is published.
const DefaultURL = "https://www-nds.iaea.org/amdc/ame2016/mass16.txt"

// HeaderLines is the length of the preamble before the first data row.
const HeaderLines = 39

// ErrNoHeader is returned when the input ends inside the preamble.
var ErrNoHeader = errors.New("ame: input shorter than the table preamble")

// Nuclide is one row of the table. Energies are in keV and atomic masses
// in micro-u.
type Nuclide struct {
	N, Z, A int
	Symbol  string
	Origin  string

	MassExcess           float64
	MassExcessErr        float64
	BindingPerNucleon    float64
	BindingPerNucleonErr float64
	BetaDecay            string
	BetaEnergy           float64
	BetaEnergyErr        float64
	AtomicMass           float64
	AtomicMassErr        float64

	// Estimated is set when any value in the row is an estimate.
	Estimated bool
}

// Label returns the isotope label, e.g. "Fe56".
func (n Nuclide) Label() string {
	return n.Symbol + strconv.Itoa(n.A)
}

// column bounds, half open, in bytes from the start of the line.
type column struct{ lo, hi int }

var (
	colN          = column{4, 9}
	colZ          = column{9, 14}
	colA          = column{14, 19}
	colSymbol     = column{19, 23}
	colOrigin     = column{23, 27}
	colExcess     = column{27, 41}
	colExcessErr  = column{41, 52}
	colBinding    = column{52, 63}
	colBindingErr = column{63, 72}
	colBetaType   = column{72, 75}
	colBeta       = column{75, 86}
	colBetaErr    = column{86, 95}
	colMassInt    = column{95, 99}
	colMass       = column{99, 112}
	colMassErr    = column{112, 123}
)

func (c column) of(line string) string {
	if c.lo >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[c.lo:min(c.hi, len(line))])
}

// Table is a parsed mass table.
type Table struct {
	nuclides []Nuclide
	zs       map[string]int
	index    map[[2]int]int // (Z, A) -> position
}

// Parse reads a mass16.txt table.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1<<20)

	for i := 0; i < HeaderLines; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNoHeader
		}
	}

	t := &Table{zs: make(map[string]int), index: make(map[[2]int]int)}
	for lineNo := HeaderLines + 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		n, err := parseLine(line)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "mass table line %d", lineNo)
		}
		t.add(n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load parses the table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "mass table %s not found", path)
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (t *Table) add(n Nuclide) {
	if _, ok := t.zs[n.Symbol]; !ok {
		t.zs[n.Symbol] = n.Z
	}
	t.index[[2]int{n.Z, n.A}] = len(t.nuclides)
	t.nuclides = append(t.nuclides, n)
}

func parseLine(line string) (Nuclide, error) {
	var (
		n   Nuclide
		err error
	)
	ints := []struct {
		dst *int
		col column
	}{{&n.N, colN}, {&n.Z, colZ}, {&n.A, colA}}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(f.col.of(line)); err != nil {
			return n, err
		}
	}
	n.Symbol = colSymbol.of(line)
	n.Origin = colOrigin.of(line)
	n.BetaDecay = colBetaType.of(line)

	floats := []struct {
		dst *float64
		col column
	}{
		{&n.MassExcess, colExcess},
		{&n.MassExcessErr, colExcessErr},
		{&n.BindingPerNucleon, colBinding},
		{&n.BindingPerNucleonErr, colBindingErr},
		{&n.BetaEnergy, colBeta},
		{&n.BetaEnergyErr, colBetaErr},
	}
	for _, f := range floats {
		v, est, err := parseValue(f.col.of(line))
		if err != nil {
			return n, fmt.Errorf("columns %d-%d: %w", f.col.lo+1, f.col.hi, err)
		}
		*f.dst = v
		n.Estimated = n.Estimated || est
	}

	whole := colMassInt.of(line)
	frac, est, err := parseValue(colMass.of(line))
	if err != nil {
		return n, fmt.Errorf("atomic mass: %w", err)
	}
	n.Estimated = n.Estimated || est
	n.AtomicMass = frac
	if whole != "" {
		w, err := strconv.Atoi(whole)
		if err != nil {
			return n, fmt.Errorf("atomic mass: %w", err)
		}
		n.AtomicMass += float64(w) * 1e6
	}
	if n.AtomicMassErr, est, err = parseValue(colMassErr.of(line)); err != nil {
		return n, fmt.Errorf("atomic mass uncertainty: %w", err)
	}
	n.Estimated = n.Estimated || est
	return n, nil
}

// parseValue decodes one numeric field. Empty and '*' fields are NaN; a
// '#' stands in for the decimal point of an estimate.
func parseValue(s string) (v float64, estimated bool, err error) {
	if s == "" || s == "*" {
		return math.NaN(), false, nil
	}
	if strings.Contains(s, "#") {
		estimated = true
		s = strings.Replace(s, "#", ".", 1)
	}
	v, err = strconv.ParseFloat(s, 64)
	return v, estimated, err
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.nuclides) }

// Nuclides returns every row in file order.
func (t *Table) Nuclides() []Nuclide { return t.nuclides }

// Z returns the atomic number of an element symbol.
func (t *Table) Z(symbol string) (int, bool) {
	z, ok := t.zs[canonicalSymbol(symbol)]
	return z, ok
}

// Lookup returns the nuclide with the given element symbol and mass
// number.
func (t *Table) Lookup(symbol string, a int) (Nuclide, error) {
	z, ok := t.Z(symbol)
	if !ok {
		return Nuclide{}, apperrors.New(apperrors.ErrCodeNuclideNotFound, "unknown element %q", symbol)
	}
	i, ok := t.index[[2]int{z, a}]
	if !ok {
		return Nuclide{}, apperrors.New(apperrors.ErrCodeNuclideNotFound, "no nuclide %s%d in table", canonicalSymbol(symbol), a)
	}
	return t.nuclides[i], nil
}

// LookupLabel resolves an isotope label such as "Fe56".
func (t *Table) LookupLabel(label string) (Nuclide, error) {
	symbol, a, err := ParseIsotope(label)
	if err != nil {
		return Nuclide{}, err
	}
	return t.Lookup(symbol, a)
}

// ParseIsotope splits a label into its element symbol and mass number.
// Letters and digits may come in either order: "Fe56" and "56Fe" both
// give ("Fe", 56).
func ParseIsotope(label string) (symbol string, a int, err error) {
	label = strings.TrimSpace(label)
	var letters, digits strings.Builder
	for _, r := range label {
		switch {
		case unicode.IsLetter(r):
			letters.WriteRune(r)
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		}
	}
	symbol = canonicalSymbol(letters.String())
	if err := apperrors.ValidateIsotope(symbol + digits.String()); err != nil {
		return "", 0, err
	}
	a, _ = strconv.Atoi(digits.String())
	return symbol, a, nil
}

// canonicalSymbol capitalises the first letter and lowercases the rest.
func canonicalSymbol(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
