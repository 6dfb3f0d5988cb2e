package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astroplot/pkg/ame"
	"github.com/matzehuels/astroplot/pkg/chart"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
)

// massTableFile is the local name of the AME2016 mass table.
const massTableFile = "mass16.txt"

// bindingOpts holds the flags of the binding command.
type bindingOpts struct {
	highlight string
	xticks    string
	logX      bool
	logY      bool
	data      string
	url       string
	refresh   bool
	noCache   bool
	output    string
}

// bindingCommand creates the binding command for the binding-energy chart.
func (c *CLI) bindingCommand() *cobra.Command {
	opts := bindingOpts{output: "binding_energy.svg"}

	cmd := &cobra.Command{
		Use:   "binding",
		Short: "Plot binding energy per nucleon against atomic number",
		Long: `Plot the binding energy per nucleon of every nuclide in the AME2016
atomic mass evaluation against its atomic number.

The table is read from --data, and downloaded there first when missing.`,
		Example: `  astroplot binding --highlight H2,He4,C12,O16,Fe56 -o binding.png
  astroplot binding --logx --xticks 1,2,6,26,92`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.data == "" {
				opts.data = filepath.Join(c.Config.Data.Dir, massTableFile)
			}
			opts.url = pick(cmd, "url", opts.url, c.Config.Data.AMEURL)
			return c.runBinding(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "isotopes to highlight, e.g. C12,Fe56")
	cmd.Flags().StringVar(&opts.xticks, "xticks", "", "place x ticks only at these atomic numbers")
	cmd.Flags().BoolVar(&opts.logX, "logx", false, "make the x axis logarithmic")
	cmd.Flags().BoolVar(&opts.logY, "logy", false, "make the y axis logarithmic")
	cmd.Flags().StringVar(&opts.data, "data", "", "local mass table (default <data.dir>/"+massTableFile+")")
	cmd.Flags().StringVar(&opts.url, "url", ame.DefaultURL, "where to download the mass table from")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "download the table again")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the download cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")

	return cmd
}

func (c *CLI) runBinding(ctx context.Context, opts bindingOpts) error {
	logger := loggerFromContext(ctx)

	ticks, err := parseTicks(opts.xticks)
	if err != nil {
		return err
	}
	format, err := outputFormat(opts.output, chart.Formats...)
	if err != nil {
		return err
	}

	table, local, err := c.loadMassTable(ctx, opts)
	if err != nil {
		return err
	}

	var highlights []ame.Nuclide
	for _, label := range parseList(opts.highlight) {
		n, err := table.LookupLabel(label)
		if err != nil {
			return err
		}
		logger.Debug("highlight", "nuclide", n.Label(), "Z", n.Z, "B/A", n.BindingPerNucleon)
		highlights = append(highlights, n)
	}

	prog := newProgress(logger)
	err = rendering(ctx, "binding", format, func() error {
		p, err := chart.Binding(table.Nuclides(), highlights, chart.BindingOptions{
			LogX:   opts.logX,
			LogY:   opts.logY,
			XTicks: ticks,
		})
		if err != nil {
			return err
		}
		return chart.Save(p, chart.DefaultWidth, chart.DefaultHeight, opts.output)
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.output)
	printStats([]string{
		fmt.Sprintf("%d nuclides", table.Len()),
		fmt.Sprintf("%d highlighted", len(highlights)),
	}, local)
	printFile(opts.output)
	return nil
}

// loadMassTable reads the mass table, downloading it when needed. local
// reports whether an existing file was used.
func (c *CLI) loadMassTable(ctx context.Context, opts bindingOpts) (table *ame.Table, local bool, err error) {
	_, statErr := os.Stat(opts.data)
	local = statErr == nil && !opts.refresh

	spinner := newSpinnerWithContext(ctx, "Loading mass table...")
	if !local {
		spinner.Update("Downloading " + opts.url + "...")
	}
	spinner.Start()
	data, err := c.newClient(opts.noCache).Open(ctx, opts.data, opts.url, opts.refresh)
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}

	table, err = ame.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	loggerFromContext(ctx).Debug("mass table", "path", opts.data, "nuclides", table.Len(), "local", local)
	return table, local, nil
}

// parseTicks parses a comma-separated list of integers.
func parseTicks(s string) ([]int, error) {
	var ticks []int
	for _, f := range parseList(s) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid tick %q", f)
		}
		ticks = append(ticks, v)
	}
	return ticks, nil
}
