package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const cleanPreview = 10

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove history entries for directories that no longer exist",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, closeDB, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	out := cmd.OutOrStdout()
	stale, err := eng.FindStale(ctx)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		fmt.Fprintf(out, "%s Database is clean. No stale entries found.\n", okC("✓"))
		return nil
	}

	fmt.Fprintf(out, "%s Found %d stale entries:\n", warnC("!"), len(stale))
	for i, p := range stale {
		if i == cleanPreview {
			fmt.Fprintf(out, "  ... and %d more\n", len(stale)-cleanPreview)
			break
		}
		fmt.Fprintf(out, "  - %s\n", errC(p))
	}

	if !cleanYes {
		in := cmd.InOrStdin()
		if !isInteractive(in) {
			fmt.Fprintln(out, "\nNot a terminal; re-run with --yes to remove them.")
			return nil
		}
		fmt.Fprint(out, "\nRemove them? [y/N] ")
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(out, "No changes were made.")
			return nil
		}
	}

	n, err := eng.Purge(ctx, stale)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Removed %d stale entries.\n", okC("✓"), n)
	return nil
}
