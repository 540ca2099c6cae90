package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for qsu.

Bash:
  $ source <(qsu completion bash)
  $ qsu completion bash > /etc/bash_completion.d/qsu

Zsh:
  $ qsu completion zsh > "${fpath[1]}/_qsu"

Fish:
  $ qsu completion fish > ~/.config/fish/completions/qsu.fish

PowerShell:
  PS> qsu completion powershell | Out-String | Invoke-Expression

Start a new shell for the completions to take effect.`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := stdoutFromContext(cmd.Context())
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return unsupportedShellError(args[0])
			}
		},
	}
}

func unsupportedShellError(shell string) error {
	return clierrors.NewUserError(
		fmt.Sprintf("unsupported shell %q", shell),
		"Use one of: bash, zsh, fish, powershell",
	)
}
