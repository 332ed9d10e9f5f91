package cli

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/dataset"
)

// importCommand creates the import command, which copies a CSV or JSON
// dataset into a SQLite table.
func (c *CLI) importCommand() *cobra.Command {
	var (
		table string
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "import <source> <target.db>",
		Short: "Import a CSV or JSON dataset into SQLite",
		Long: `Import a CSV or JSON dataset into a SQLite table.

The table is replaced if it exists. With --kind, columns get the types the
dashboards expect (f1, epa or matchups); otherwise types are detected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, dst := args[0], args[1]
			if table == "" {
				table = c.Config.Data.Table
			}
			if table == "" {
				return fmt.Errorf("pass --table or set data.table in the config")
			}

			var (
				df  dataframe.DataFrame
				err error
			)
			if kind != "" {
				df, err = dashboard.NewRunner(nil, nil, c.Logger).Load(ctx, kind, src, "")
			} else {
				df, err = dataset.Load(ctx, src, dataset.LoadOptions{})
			}
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			n, err := dataset.Import(ctx, df, dst, table)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Imported %d rows", n))
			printSuccess("Imported %d rows into %s", n, StyleValue.Render(dst+":"+table))
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "target table (default from config)")
	cmd.Flags().StringVar(&kind, "kind", "", "dataset kind: f1, epa or matchups")
	return cmd
}
