package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "A smarter cd that remembers where you go",
	Long: `burrow records the directories you visit and ranks them by frecency,
a blend of how often and how recently you went there. Jump back with a few
keywords through the shell function installed by 'burrow init'.

Run with no arguments to print your home directory.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runHome,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx, so long scans stop on
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
}

func runHome(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("home directory: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), home)
	return nil
}
