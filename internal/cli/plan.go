package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/atlas"
	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// planCommand creates the plan command, a geometry-only dry run.
func (c *CLI) planCommand() *cobra.Command {
	var (
		opts    buildOptions
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "plan <sizes.csv|sizes.xlsx|outline.dxf>",
		Short: "Find the atlas size for a list of sprite sizes",
		Long: `Find the atlas size for a list of sprite sizes without any images.

CSV and XLSX files hold name, width, height and an optional quantity per row.
DXF files contribute one sprite per closed outline, sized by its bounding box.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd, args[0], opts, explain)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "print every canvas size that was tried")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "canvas sizes evaluated concurrently")
	cmd.Flags().IntVar(&opts.minSize, "min-size", model.DefaultMinSize, "smallest canvas side (power of two)")
	cmd.Flags().IntVar(&opts.sizeLimit, "size-limit", model.DefaultSizeLimit, "exclusive upper bound for canvas sides")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "named preset from the preset store")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, path string, opts buildOptions, explain bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	result := importer.ImportSizeList(path)
	for _, w := range result.Warnings {
		printWarning(c.Out, "%s", w)
	}
	if result.HasErrors() {
		for _, e := range result.Errors {
			printError(c.Out, "%s", e)
		}
		return fmt.Errorf("%s: %d rows could not be imported", path, len(result.Errors))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings, err := c.resolveSettings(cmd, cfg, project.Manifest{}, opts)
	if err != nil {
		return err
	}

	b := atlas.NewBuilder(settings, logger)
	if explain {
		reports, err := b.Explain(ctx, result.Sprites)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Out, candidateTable(reports))
		logger.Debug("candidate sizes", "fitting", len(engine.FittingReports(reports)), "total", len(reports))
	}

	packed, err := b.Pack(ctx, result.Sprites)
	if err != nil {
		return err
	}

	printSuccess(c.Out, "%s sprites fit in %s",
		StyleNumber.Render(fmt.Sprint(len(result.Sprites))),
		StyleValue.Render(fmt.Sprintf("%dx%d", packed.Width, packed.Height)))
	printKeyValue(c.Out, "waste", fmt.Sprintf("%d px", packed.Waste))
	printKeyValue(c.Out, "ratio", fmt.Sprintf("%.3f", packed.Ratio))
	printKeyValue(c.Out, "depth", fmt.Sprint(packed.Tree.Depth()))
	printKeyValue(c.Out, "nodes", fmt.Sprint(packed.Tree.NodeCount()))
	printKeyValue(c.Out, "candidates", fmt.Sprintf("%d of %d fit, max side %d", packed.Fitting, packed.Evaluated, settings.MaxSide()))

	free := packed.Tree.FreeRegions(1, 1)
	if len(free) > 0 {
		f := free[0]
		printInfo(c.Out, "largest free region %dx%d at (%d,%d)", f.Width, f.Height, f.Left, f.Top)
	}
	return nil
}
