package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gnparser.

To load completions:

Bash:
  $ source <(gnparser completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gnparser completion bash > /etc/bash_completion.d/gnparser
  # macOS:
  $ gnparser completion bash > $(brew --prefix)/etc/bash_completion.d/gnparser

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gnparser completion zsh > "${fpath[1]}/_gnparser"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ gnparser completion fish | source

  # To load completions for each session, execute once:
  $ gnparser completion fish > ~/.config/fish/completions/gnparser.fish

PowerShell:
  PS> gnparser completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> gnparser completion powershell > gnparser.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}

	return cmd
}
