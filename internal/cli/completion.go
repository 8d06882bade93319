package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for iclabels.

Chip names complete for "iclabels chips show" and "iclabels render --chip".

To load completions:

Bash:
  $ source <(iclabels completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ iclabels completion bash > /etc/bash_completion.d/iclabels
  # macOS:
  $ iclabels completion bash > $(brew --prefix)/etc/bash_completion.d/iclabels

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ iclabels completion zsh > "${fpath[1]}/_iclabels"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ iclabels completion fish | source

  # To load completions for each session, execute once:
  $ iclabels completion fish > ~/.config/fish/completions/iclabels.fish

PowerShell:
  PS> iclabels completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> iclabels completion powershell > iclabels.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeChipNames completes registry chip names by prefix.
func (c *CLI) completeChipNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := c.openRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	prefix := strings.ToUpper(toComplete)
	var out []string
	for _, name := range reg.Names() {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
