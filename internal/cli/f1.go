package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/f1"
)

// f1Opts holds the dataset and filter flags of the f1 commands.
type f1Opts struct {
	data   string
	filter f1.Filter
}

func (o *f1Opts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "results dataset (.csv, .json or .db; default from config)")
	f.IntVar(&o.filter.SeasonFrom, "from", 0, "first season (default 2000 or the earliest season)")
	f.IntVar(&o.filter.SeasonTo, "to", 0, "last season (default the latest season)")
	f.StringSliceVar(&o.filter.GrandsPrix, "gp", nil, "grands prix to keep (repeatable)")
	f.StringSliceVar(&o.filter.Teams, "team", nil, "teams to keep (repeatable)")
	f.StringSliceVar(&o.filter.Drivers, "driver", nil, "drivers to keep (repeatable)")
}

func (c *CLI) f1Path(o *f1Opts) (string, error) {
	if o.data != "" {
		return o.data, nil
	}
	if c.Config.Data.F1 != "" {
		return c.Config.Data.F1, nil
	}
	return "", fmt.Errorf("no f1 dataset: pass --data or set data.f1 in the config")
}

// f1Command creates the f1 command: summary tables, choices and charts.
func (c *CLI) f1Command() *cobra.Command {
	var (
		opts    f1Opts
		top     int
		preview int
	)

	cmd := &cobra.Command{
		Use:   "f1",
		Short: "Summarize motorsport results",
		Long: `Summarize motorsport results.

Prints the headline KPIs and the points leaderboards for drivers and teams
after applying the season range and selections. Use 'f1 chart' for the
chart views and 'f1 choices' to list the values the selections accept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runF1Summary(cmd.Context(), &opts, top, preview)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", f1.DefaultTopN, "leaderboard length")
	cmd.Flags().IntVar(&preview, "preview", 0, "also print the first N filtered rows")

	cmd.AddCommand(c.f1ChartCommand())
	cmd.AddCommand(c.f1ChoicesCommand())
	return cmd
}

func (c *CLI) runF1Summary(ctx context.Context, opts *f1Opts, top, preview int) error {
	path, err := c.f1Path(opts)
	if err != nil {
		return err
	}
	runner := dashboard.NewRunner(nil, nil, c.Logger)
	prog := newProgress(loggerFromContext(ctx))

	df, err := runner.Load(ctx, dashboard.DatasetF1, path, c.Config.Data.Table)
	if err != nil {
		return err
	}
	filtered, err := dashboard.FilterF1(df, opts.filter)
	if err != nil {
		return err
	}
	drivers, err := f1.TopBy(filtered, f1.ColDriver, top)
	if err != nil {
		return err
	}
	teams, err := f1.TopBy(filtered, f1.ColTeam, top)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Summarized %d results", filtered.Nrow()))

	printHeading("Results")
	fmt.Println(kpiTable(f1.KPIs(filtered)))
	printNewline()
	printHeading("Top drivers")
	fmt.Println(totalsTable("Driver", drivers))
	printNewline()
	printHeading("Top teams")
	fmt.Println(totalsTable("Team", teams))

	if preview > 0 {
		records := f1.Preview(filtered, preview)
		printNewline()
		printHeading("Preview")
		fmt.Println(newTable(records[0], records[1:]))
	}
	return nil
}

var f1Charts = map[string]string{
	"kpis":        dashboard.ViewF1KPIs,
	"dnf":         dashboard.ViewF1DNF,
	"gain":        dashboard.ViewF1Gain,
	"top-drivers": dashboard.ViewF1TopDrivers,
	"top-teams":   dashboard.ViewF1TopTeams,
}

// f1ChartCommand creates the "f1 chart" subcommand.
func (c *CLI) f1ChartCommand() *cobra.Command {
	var (
		opts f1Opts
		out  outputOpts
		top  int
	)

	cmd := &cobra.Command{
		Use:       "chart [kpis|dnf|gain|top-drivers|top-teams]",
		Short:     "Render an f1 chart",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"kpis", "dnf", "gain", "top-drivers", "top-teams"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.f1Path(&opts)
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), dashboard.Options{
				View:   f1Charts[args[0]],
				F1Path: path,
				Table:  c.Config.Data.Table,
				Filter: opts.filter,
				TopN:   top,
			}, out)
		},
	}
	opts.register(cmd)
	out.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", f1.DefaultTopN, "leaderboard length")
	return cmd
}

// f1ChoicesCommand creates the "f1 choices" subcommand.
func (c *CLI) f1ChoicesCommand() *cobra.Command {
	var opts f1Opts

	cmd := &cobra.Command{
		Use:   "choices",
		Short: "List the grands prix, teams and drivers the selections accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.f1Path(&opts)
			if err != nil {
				return err
			}
			df, err := dashboard.NewRunner(nil, nil, c.Logger).Load(cmd.Context(), dashboard.DatasetF1, path, c.Config.Data.Table)
			if err != nil {
				return err
			}
			filter, err := dashboard.ResolveF1Filter(df, opts.filter)
			if err != nil {
				return err
			}
			choices, err := f1.Options(df, filter)
			if err != nil {
				return err
			}

			printKeyValue("Seasons", fmt.Sprintf("%d–%d", choices.MinSeason, choices.MaxSeason))
			printKeyValue("Grands prix", strings.Join(choices.GrandsPrix, ", "))
			printKeyValue("Teams", strings.Join(choices.Teams, ", "))
			printKeyValue("Drivers", strings.Join(choices.Drivers, ", "))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
