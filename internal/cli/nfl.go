package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/nfl"
)

// nflOpts holds the dataset and selection flags of the nfl commands.
type nflOpts struct {
	epa      string
	matchups string
	season   int
	week     int
}

func (o *nflOpts) register(cmd *cobra.Command, withMatchups bool) {
	f := cmd.Flags()
	f.StringVar(&o.epa, "epa", "", "weekly team EPA dataset (default from config)")
	if withMatchups {
		f.StringVar(&o.matchups, "matchups", "", "matchup probabilities dataset (default from config)")
	}
	f.IntVar(&o.season, "season", 0, "season (default the latest)")
	f.IntVar(&o.week, "week", 0, "week (default the season's last week)")
}

func (c *CLI) epaPath(o *nflOpts) (string, error) {
	if o.epa != "" {
		return o.epa, nil
	}
	if c.Config.Data.EPA != "" {
		return c.Config.Data.EPA, nil
	}
	return "", fmt.Errorf("no EPA dataset: pass --epa or set data.epa in the config")
}

func (c *CLI) matchupsPath(o *nflOpts) (string, error) {
	if o.matchups != "" {
		return o.matchups, nil
	}
	if c.Config.Data.Matchups != "" {
		return c.Config.Data.Matchups, nil
	}
	return "", fmt.Errorf("no matchups dataset: pass --matchups or set data.matchups in the config")
}

// nflCommand creates the nfl command group.
func (c *CLI) nflCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nfl",
		Short: "Render NFL team charts",
		Long: `Render NFL team charts from weekly rolling EPA and matchup probabilities.

Season and week default to the latest available in the dataset.`,
	}

	cmd.AddCommand(c.nflLandscapeCommand())
	cmd.AddCommand(c.nflWinProbCommand())
	cmd.AddCommand(c.nflMomentumCommand())
	cmd.AddCommand(c.nflTeamsCommand())
	return cmd
}

// nflLandscapeCommand creates the "nfl landscape" subcommand.
func (c *CLI) nflLandscapeCommand() *cobra.Command {
	var (
		opts     nflOpts
		out      outputOpts
		preset   string
		noLabels bool
		upright  bool
	)

	cmd := &cobra.Command{
		Use:   "landscape",
		Short: "Render the offense vs defense EPA scatter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.epaPath(&opts)
			if err != nil {
				return err
			}
			cfg, err := c.Config.LabelPreset(preset)
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), dashboard.Options{
				View:       dashboard.ViewNFLLandscape,
				EPAPath:    path,
				Table:      c.Config.Data.Table,
				Season:     opts.season,
				Week:       opts.week,
				Labels:     &cfg,
				HideLabels: noLabels,
				Upright:    upright,
			}, out)
		},
	}
	opts.register(cmd, false)
	out.register(cmd)
	cmd.Flags().StringVar(&preset, "preset", "", "label placement preset (default landscape)")
	_ = cmd.RegisterFlagCompletionFunc("preset", c.completePresets)
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide team labels")
	cmd.Flags().BoolVar(&upright, "upright", false, "don't invert the defense axis")
	return cmd
}

// nflWinProbCommand creates the "nfl winprob" subcommand.
func (c *CLI) nflWinProbCommand() *cobra.Command {
	var (
		opts nflOpts
		out  outputOpts
	)

	cmd := &cobra.Command{
		Use:   "winprob",
		Short: "Render the home win probability of every game in a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.matchupsPath(&opts)
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), dashboard.Options{
				View:         dashboard.ViewNFLWinProb,
				MatchupsPath: path,
				Table:        c.Config.Data.Table,
				Season:       opts.season,
				Week:         opts.week,
			}, out)
		},
	}
	opts.register(cmd, true)
	out.register(cmd)
	return cmd
}

// nflMomentumCommand creates the "nfl momentum" subcommand.
func (c *CLI) nflMomentumCommand() *cobra.Command {
	var (
		opts        nflOpts
		out         outputOpts
		team        string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "momentum",
		Short: "Render one team's weekly EPA trend",
		Long: `Render one team's weekly offensive, defensive and net EPA up to the
selected week. Pass --team, or -i to pick the team from a list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.epaPath(&opts)
			if err != nil {
				return err
			}
			if interactive {
				picked, err := c.chooseTeam(cmd.Context(), path, opts)
				if err != nil {
					return err
				}
				if picked == "" {
					return nil
				}
				team = picked
			}
			if team == "" {
				return fmt.Errorf("pass --team or pick one with -i")
			}
			return c.runView(cmd.Context(), dashboard.Options{
				View:    dashboard.ViewNFLMomentum,
				EPAPath: path,
				Table:   c.Config.Data.Table,
				Season:  opts.season,
				Week:    opts.week,
				Team:    team,
			}, out)
		},
	}
	opts.register(cmd, false)
	out.register(cmd)
	cmd.Flags().StringVarP(&team, "team", "t", "", "team abbreviation")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the team interactively")
	return cmd
}

// nflTeamsCommand creates the "nfl teams" subcommand.
func (c *CLI) nflTeamsCommand() *cobra.Command {
	var opts nflOpts

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List each team's latest rolling EPA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.epaPath(&opts)
			if err != nil {
				return err
			}
			teams, season, week, err := c.teamRows(cmd.Context(), path, opts)
			if err != nil {
				return err
			}

			rows := make([][]string, len(teams))
			for i, t := range teams {
				rows[i] = []string{t.Team, fmt.Sprintf("%d", t.Week), formatEPA(t.Off), formatEPA(t.Def), formatEPA(t.Net), nfl.NetTier(t.Net).Name}
			}
			printHeading(fmt.Sprintf("Season %d, through week %d", season, week))
			fmt.Println(newTable([]string{"Team", "Week", "Off", "Def", "Net", "Tier"}, rows, 1, 2, 3, 4))
			return nil
		},
	}
	opts.register(cmd, false)
	return cmd
}

// teamRows loads the EPA dataset and returns each team's latest row up to
// the selected week, along with the resolved season and week.
func (c *CLI) teamRows(ctx context.Context, path string, opts nflOpts) ([]nfl.TeamWeek, int, int, error) {
	df, err := dashboard.NewRunner(nil, nil, c.Logger).Load(ctx, dashboard.DatasetEPA, path, c.Config.Data.Table)
	if err != nil {
		return nil, 0, 0, err
	}
	season, week, err := dashboard.ResolveWeek(df, opts.season, opts.week)
	if err != nil {
		return nil, 0, 0, err
	}
	return nfl.LatestPerTeam(nfl.FilterWeeks(df, season, week)), season, week, nil
}

func (c *CLI) chooseTeam(ctx context.Context, path string, opts nflOpts) (string, error) {
	teams, _, _, err := c.teamRows(ctx, path, opts)
	if err != nil {
		return "", err
	}
	if len(teams) == 0 {
		return "", fmt.Errorf("no teams in season %d", opts.season)
	}
	return pickTeam(teams)
}
