package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/astroplot/pkg/chart"
	"github.com/matzehuels/astroplot/pkg/observatory"
)

// bisonOpts holds the flags of the bison command.
type bisonOpts struct {
	output  string
	centres string
}

// bisonCommand creates the bison command for the observatory map.
func (c *CLI) bisonCommand() *cobra.Command {
	opts := bisonOpts{output: "bison_map.svg", centres: "-45,135"}

	cmd := &cobra.Command{
		Use:   "bison",
		Short: "Draw the BiSON observatories on orthographic globes",
		Long: `Draw the six sites of the Birmingham Solar Oscillations Network, and
its former Haleakala station, on orthographic globes centred on the equator.`,
		Example: `  astroplot bison -o bison.pdf
  astroplot bison --centres=-90,0,90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBison(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVar(&opts.centres, "centres", opts.centres, "central longitudes of the panels, in degrees")

	return cmd
}

func runBison(ctx context.Context, opts bisonOpts) error {
	logger := loggerFromContext(ctx)

	centres, err := parseFloats(opts.centres, 0)
	if err != nil {
		return err
	}
	format, err := outputFormat(opts.output, chart.Formats...)
	if err != nil {
		return err
	}

	sites := observatory.BiSON()
	prog := newProgress(logger)
	err = rendering(ctx, "bison", format, func() error {
		g, err := chart.Globe(sites, centres)
		if err != nil {
			return err
		}
		w := chart.DefaultHeight * vg.Length(len(centres))
		return chart.Save(g, w, chart.DefaultHeight, opts.output)
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.output)

	for _, lon0 := range centres {
		o := observatory.Orthographic{Lon0: lon0}
		var names []string
		for _, s := range o.VisibleSites(sites) {
			names = append(names, s.Name)
		}
		printKeyValue(fmt.Sprintf("%g°", lon0), strings.Join(names, ", "))
	}
	printFile(opts.output)
	return nil
}
