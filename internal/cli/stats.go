package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const (
	statsTop       = 10
	statsBookmarks = 5
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	s, err := eng.Stats(cmd.Context(), statsTop)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, heading("burrow statistics"))
	fmt.Fprintln(out, strings.Repeat("─", 30))
	fmt.Fprintf(out, "Total directories: %s\n", accent(humanize.Comma(int64(s.TotalEntries))))
	fmt.Fprintf(out, "Total visits: %s\n", accent(humanize.Comma(s.TotalVisits)))

	if len(s.MostVisited) > 0 {
		fmt.Fprintf(out, "\n%s\n", warnC("Most visited:"))
		for i, e := range s.MostVisited {
			fmt.Fprintf(out, "  %2d. %s (%s)\n", i+1, pathC(e.Path), visitsLabel(e.Visits))
		}
	}

	if len(s.RecentlyVisited) > 0 {
		fmt.Fprintf(out, "\n%s\n", warnC("Recently visited:"))
		now := eng.Now()
		for i, e := range s.RecentlyVisited {
			fmt.Fprintf(out, "  %2d. %s (%s)\n", i+1, pathC(e.Path), humanize.RelTime(e.LastAccess, now, "ago", "from now"))
		}
	}

	if len(s.Bookmarks) > 0 {
		fmt.Fprintf(out, "\n%s\n", warnC("Bookmarks:"))
		for i, b := range s.Bookmarks {
			if i == statsBookmarks {
				fmt.Fprintf(out, "  ... and %d more\n", len(s.Bookmarks)-statsBookmarks)
				break
			}
			fmt.Fprintf(out, "  %s -> %s\n", nameC(b.Name), pathC(b.Path))
		}
	}
	return nil
}

func visitsLabel(n int64) string {
	if n == 1 {
		return "1 visit"
	}
	return humanize.Comma(n) + " visits"
}
