package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lazypower/burrow/internal/engine"
)

var (
	querySuggest  bool
	queryAncestor bool
)

var queryCmd = &cobra.Command{
	Use:   "query <keyword>...",
	Short: "Print directories matching keywords, best first",
	Long: `Print directories matching keywords, one per line, best first.

A single keyword naming a bookmark prints the bookmark. Otherwise the
history is searched: exact trailing segment, then directory name, then
fuzzy, then substring. When nothing matches, nothing is printed to stdout
and any similar paths are listed on stderr.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&querySuggest, "suggest", false, "Print completion candidates")
	queryCmd.Flags().BoolVar(&queryAncestor, "ancestor", false, "Print the nearest ancestor of the working directory named <keyword>")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if queryAncestor {
		return runAncestor(cmd, args)
	}

	ctx := cmd.Context()
	eng, closeDB, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	out := cmd.OutOrStdout()
	if querySuggest {
		res, err := eng.Suggest(ctx, args)
		if err != nil {
			return err
		}
		for _, p := range res.Paths() {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	res, err := eng.Resolve(ctx, args)
	if err != nil {
		return err
	}
	paths := res.Paths()
	if len(paths) > 0 {
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	// No match: offer paths similar to the first three characters.
	query := engine.JoinKeywords(args)
	prefix := []rune(query)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	similar, err := eng.Query(ctx, []string{string(prefix)})
	if err != nil {
		return err
	}

	if len(similar) > 0 {
		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "%s: no match for %q\n", warnC("burrow"), query)
		fmt.Fprintln(stderr, "Similar paths:")
		for i, s := range similar {
			if i == 3 {
				break
			}
			fmt.Fprintf(stderr, "  %d) %s\n", i+1, pathC(s.Path))
		}
	}
	return nil
}

// runAncestor prints the nearest ancestor of the working directory (itself
// included) whose final segment equals the single keyword. Prints nothing
// when there is none.
func runAncestor(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if dir, ok := findAncestor(cwd, args[0]); ok {
		fmt.Fprintln(cmd.OutOrStdout(), dir)
	}
	return nil
}

func findAncestor(dir, name string) (string, bool) {
	for {
		if filepath.Base(dir) == name {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
