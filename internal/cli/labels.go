package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/labels"
	"github.com/matzehuels/statboard/pkg/render"
)

// labelsCommand creates the labels command, which runs the placement on an
// arbitrary point file and prints the positions as JSON.
func (c *CLI) labelsCommand() *cobra.Command {
	var (
		xCol, yCol, labelCol string
		preset               string
		seed                 uint64
		iters                int
		output               string
	)

	cmd := &cobra.Command{
		Use:   "labels <points.csv|points.json>",
		Short: "Place non-overlapping labels for a set of points",
		Long: `Place non-overlapping labels for a set of points.

Reads one point per row and prints each label's position together with the
number of relaxation passes and whether the layout is collision free.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.Config.LabelPreset(preset)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("iters") {
				cfg.Iters = iters
			}

			df, err := dataset.Load(ctx, args[0], dataset.LoadOptions{Table: c.Config.Data.Table})
			if err != nil {
				return err
			}
			if err := dataset.RequireColumns(df, xCol, yCol, labelCol); err != nil {
				return err
			}
			xs := dataset.Floats(df, xCol)
			ys := dataset.Floats(df, yCol)
			points := make([]labels.Point, len(xs))
			for i := range xs {
				points[i] = labels.Point{X: xs[i], Y: ys[i]}
			}

			prog := newProgress(logger)
			res, err := labels.Place(points, dataset.Strings(df, labelCol), cfg)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d labels in %d passes", len(res.Positions), res.Passes))
			if !res.Converged {
				xPad, yPad, _ := labels.Pads(points, cfg)
				logger.Warn("labels still overlap", "pairs", labels.Overlaps(res.Positions, xPad, yPad))
			}

			if output == "" || output == "-" {
				return render.MarshalView(os.Stdout, res)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := render.MarshalView(f, res); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&xCol, "x", "x", "x column")
	f.StringVar(&yCol, "y", "y", "y column")
	f.StringVar(&labelCol, "label", "label", "label column")
	f.StringVar(&preset, "preset", "default", "placement preset")
	f.Uint64Var(&seed, "seed", 0, "jitter seed (overrides the preset)")
	f.IntVar(&iters, "iters", 0, "maximum relaxation passes (overrides the preset)")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.RegisterFlagCompletionFunc("preset", c.completePresets)
	return cmd
}
