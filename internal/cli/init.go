package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/burrow/internal/shell"
)

var initCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Print the shell integration script",
	Long: fmt.Sprintf(`Print the shell integration script. Supported shells: %s.

  bash:        eval "$(burrow init bash)"
  zsh:         eval "$(burrow init zsh)"
  fish:        burrow init fish | source
  powershell:  Invoke-Expression (& burrow init powershell | Out-String)

The script defines 'b' to jump, 'bb' to manage bookmarks, and a hook that
records every directory you enter.`, strings.Join(shell.Supported(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: shell.Supported(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Render(cmd.OutOrStdout(), args[0], shell.DefaultNames)
	},
}
