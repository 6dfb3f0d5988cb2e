package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/chart"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/opacity"
)

// opacityOpts holds the flags of the opacity command.
type opacityOpts struct {
	x, z       string
	mesaDir    string
	switchLogT float64
	logRhos    string
	points     int
	output     string
}

// opacityCommand creates the opacity command for MESA opacity curves.
func (c *CLI) opacityCommand() *cobra.Command {
	opts := opacityOpts{
		x:          "0.7",
		z:          "0.02",
		switchLogT: opacity.DefaultSwitchLogT,
		logRhos:    "-10,-8,-6,-4,-2,0",
		points:     opacity.DefaultPoints,
		output:     "opacity_curves.svg",
	}

	cmd := &cobra.Command{
		Use:   "opacity",
		Short: "Plot Rosseland mean opacity curves from MESA tables",
		Long: `Plot log κ against log T at fixed densities, read from the GS98 opacity
tables of a MESA installation. The low-temperature table is used below
--switch-logt and the high-temperature table above it.

X and Z are given as they appear in the table file names.`,
		Example: `  astroplot opacity --mesa-dir ~/mesa
  astroplot opacity -X 0.7 -Z 0.02 --logrho=-8,-4,0 -o kappa.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.mesaDir = pick(cmd, "mesa-dir", opts.mesaDir, c.Config.Data.MESADir)
			return runOpacity(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.x, "hydrogen", "X", opts.x, "hydrogen mass fraction, as in the file name")
	cmd.Flags().StringVarP(&opts.z, "metals", "Z", opts.z, "metal mass fraction, as in the file name")
	cmd.Flags().StringVar(&opts.mesaDir, "mesa-dir", "", "MESA installation (default $MESA_DIR)")
	cmd.Flags().Float64Var(&opts.switchLogT, "switch-logt", opts.switchLogT, "log T where the high-temperature table takes over")
	cmd.Flags().StringVar(&opts.logRhos, "logrho", opts.logRhos, "densities to plot, as log ρ")
	cmd.Flags().IntVar(&opts.points, "points", opts.points, "temperatures sampled per curve")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")

	return cmd
}

func runOpacity(ctx context.Context, opts opacityOpts) error {
	logger := loggerFromContext(ctx)

	if opts.mesaDir == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "no MESA installation: set --mesa-dir, data.mesa_dir or $MESA_DIR")
	}
	rhos, err := parseFloats(opts.logRhos, 0)
	if err != nil {
		return err
	}
	format, err := outputFormat(opts.output, chart.Formats...)
	if err != nil {
		return err
	}

	blend, err := opacity.LoadBlend(opts.mesaDir, opts.x, opts.z)
	if err != nil {
		return err
	}
	blend.SwitchLogT = opts.switchLogT

	curves, err := opacity.Curves(blend, rhos, opts.points)
	if err != nil {
		return err
	}
	for _, cv := range curves {
		logger.Debug("curve", "logrho", cv.LogRho, "points", len(cv.LogT))
		if len(cv.LogT) == 0 {
			printWarning("log ρ = %g lies outside both tables", cv.LogRho)
		}
	}

	prog := newProgress(logger)
	err = rendering(ctx, "opacity", format, func() error {
		p, err := chart.Opacity(curves)
		if err != nil {
			return err
		}
		return chart.Save(p, chart.DefaultWidth, chart.DefaultHeight, opts.output)
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s (X=%s, Z=%s)", opts.output, opts.x, opts.z))
	printFile(opts.output)
	return nil
}
