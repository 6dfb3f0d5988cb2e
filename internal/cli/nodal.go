package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/config"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/nodal"
)

// Output formats for the nodal command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

// nodalOpts holds the flags of the nodal command.
type nodalOpts struct {
	l, m      int
	strategy  string
	dedupeTol float64
	zeroTol   float64
	format    string
}

// nodalCommand creates the nodal command for listing nodal lines.
func (c *CLI) nodalCommand() *cobra.Command {
	def := config.Default().Nodal
	opts := nodalOpts{l: 6, m: 3, format: formatTable}

	cmd := &cobra.Command{
		Use:   "nodal",
		Short: "List the nodal lines of a spherical harmonic",
		Long: `List the nodal lines of the spherical harmonic Y_l^m.

The l-|m| latitude circles are the zeros of the associated Legendre
function P_l^m(cos θ); the 2|m| meridians are evenly spaced in azimuth.`,
		Example: `  astroplot nodal -l 6 -m 3
  astroplot nodal -l 10 -m 2 --strategy seeded --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Nodal
			cfg.Strategy = pick(cmd, "strategy", opts.strategy, cfg.Strategy)
			cfg.DedupeTol = pick(cmd, "dedupe-tol", opts.dedupeTol, cfg.DedupeTol)
			cfg.ZeroTol = pick(cmd, "zero-tol", opts.zeroTol, cfg.ZeroTol)
			return c.runNodal(cmd, opts, cfg)
		},
	}

	cmd.Flags().IntVarP(&opts.l, "ell", "l", opts.l, "angular degree")
	cmd.Flags().IntVarP(&opts.m, "emm", "m", opts.m, "azimuthal order")
	cmd.Flags().StringVar(&opts.strategy, "strategy", def.Strategy, "root search: bracket or seeded")
	cmd.Flags().Float64Var(&opts.dedupeTol, "dedupe-tol", def.DedupeTol, "merge roots closer than this")
	cmd.Flags().Float64Var(&opts.zeroTol, "zero-tol", def.ZeroTol, "accept a root when |P| rounds to zero at this step")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json or csv")

	return cmd
}

func (c *CLI) runNodal(cmd *cobra.Command, opts nodalOpts, cfg config.Nodal) error {
	if err := nodal.Validate(opts.l, opts.m); err != nil {
		return err
	}
	if err := apperrors.ValidateFormat(opts.format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}
	fc, err := cfg.Finder()
	if err != nil {
		return err
	}

	lines := nodal.NewFinder(fc).Lines(opts.l, opts.m)
	loggerFromContext(cmd.Context()).Debug("nodal lines", "l", opts.l, "m", opts.m,
		"strategy", fc.Strategy, "latitudes", len(lines.Latitudes), "meridians", len(lines.Meridians))

	w := cmd.OutOrStdout()
	switch strings.ToLower(opts.format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	case formatCSV:
		return writeNodalCSV(w, lines)
	default:
		writeNodalTable(w, lines)
		printNextStep("Animate it", fmt.Sprintf("%s sphere -l %d -m %d --show-nodal-lines", appName, opts.l, opts.m))
		return nil
	}
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// writeNodalCSV writes one row per line: kind, value, angle in degrees.
// Latitude values are cos θ and meridian values are φ in radians.
func writeNodalCSV(w io.Writer, lines nodal.Lines) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"kind", "value", "degrees"})
	for _, mu := range lines.Latitudes {
		_ = cw.Write([]string{"latitude", formatFloat(mu), formatFloat(degrees(math.Acos(mu)))})
	}
	for _, phi := range lines.Meridians {
		_ = cw.Write([]string{"meridian", formatFloat(phi), formatFloat(degrees(phi))})
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 12, 64) }

func writeNodalTable(w io.Writer, lines nodal.Lines) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Nodal lines of Y_%d^%d", lines.L, lines.M)))

	if len(lines.Latitudes) == 0 {
		fmt.Fprintln(w, StyleDim.Render("  no latitude circles"))
	} else {
		rows := make([][]string, len(lines.Latitudes))
		for i, mu := range lines.Latitudes {
			theta := degrees(math.Acos(mu))
			rows[i] = []string{
				strconv.Itoa(i + 1),
				fmt.Sprintf("%+.10f", mu),
				fmt.Sprintf("%.4f", theta),
				fmt.Sprintf("%+.4f", 90-theta),
			}
		}

		headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("#", "cos θ", "θ (deg)", "latitude (deg)").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				base := lipgloss.NewStyle().Padding(0, 1)
				if col == 0 {
					return base.Foreground(colorDim)
				}
				return base.Foreground(colorCyan)
			})
		fmt.Fprintln(w, t.Render())
	}

	meridians := make([]string, len(lines.Meridians))
	for i, phi := range lines.Meridians {
		meridians[i] = fmt.Sprintf("%.2f°", degrees(phi))
	}
	if len(meridians) == 0 {
		meridians = []string{"none"}
	}
	fmt.Fprintln(w, StyleDim.Render("meridians:")+" "+StyleValue.Render(strings.Join(meridians, ", ")))
}
