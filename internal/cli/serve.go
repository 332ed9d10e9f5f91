package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboards over HTTP",
		Long: `Serve the dashboards over HTTP.

Datasets come from the config file. Every view is available at
/views/{view} with the same options as the CLI as query parameters.
Stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleValue.Render("http://"+addr))
			return server.New(runner, c.Config, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
