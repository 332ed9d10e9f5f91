package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/config"
	"github.com/matzehuels/statboard/pkg/render"
)

// completionCommand creates the completion command. Besides subcommands,
// the scripts complete chart names, --format lists and --preset names.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for statboard.

Once loaded, the shell completes subcommands and their values:

  statboard f1 chart <TAB>            kpis dnf gain top-drivers top-teams
  statboard nfl landscape -f svg,<TAB> svg,png svg,json
  statboard labels pts.csv --preset <TAB>
                                      presets from the config file

Load for the current session:

  bash:        source <(statboard completion bash)
  zsh:         source <(statboard completion zsh)
  fish:        statboard completion fish | source
  powershell:  statboard completion powershell | Out-String | Invoke-Expression

To load on every session, write the script where your shell looks for
completions, e.g. "${fpath[1]}/_statboard" for zsh or
~/.config/fish/completions/statboard.fish for fish.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}

// completeFormats completes one item of the comma-separated --format list,
// skipping formats already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := toComplete[:strings.LastIndex(toComplete, ",")+1]
	used := strings.Split(prefix, ",")
	var out []string
	for _, f := range render.Formats {
		if !slices.Contains(used, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completePresets lists the label presets of the config file named by
// --config. PersistentPreRunE does not run for completions, so the file is
// loaded here.
func (c *CLI) completePresets(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg.PresetNames(), cobra.ShellCompDirectiveNoFileComp
}
