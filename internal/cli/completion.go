package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/pkg/network"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for yourcommute.

Station arguments of route and render complete to station IDs, with the
station name as the description.

To load completions:

Bash:
  $ source <(yourcommute completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ yourcommute completion bash > /etc/bash_completion.d/yourcommute
  # macOS:
  $ yourcommute completion bash > $(brew --prefix)/etc/bash_completion.d/yourcommute

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ yourcommute completion zsh > "${fpath[1]}/_yourcommute"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ yourcommute completion fish | source

  # To load completions for each session, execute once:
  $ yourcommute completion fish > ~/.config/fish/completions/yourcommute.fish

PowerShell:
  PS> yourcommute completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> yourcommute completion powershell > yourcommute.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeStations completes the [from] [to] arguments with station IDs
// from the configured network.
func (c *CLI) completeStations(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	m, err := network.LoadDir(cmd.Context(), cfg.DataDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return stationCompletions(m, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func stationCompletions(m *network.Model, prefix string) []string {
	var out []string
	for _, s := range m.Stations() {
		if strings.HasPrefix(s.ID, prefix) {
			out = append(out, s.ID+"\t"+s.DisplayName())
		}
	}
	return out
}
