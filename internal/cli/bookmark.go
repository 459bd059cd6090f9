package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Manage named bookmarks",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <name> [path]",
	Short: "Bookmark a directory (default: the current one)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBookmarkAdd,
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a bookmark",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookmarkRemove,
}

var bookmarkListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bookmarks",
	Args:    cobra.NoArgs,
	RunE:    runBookmarkList,
}

var bookmarkGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a bookmark's path (empty if unknown)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkGet,
}

func init() {
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
	bookmarkCmd.AddCommand(bookmarkGetCmd)
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	var target string
	if len(args) == 2 {
		p, err := absPath(args[1])
		if err != nil {
			return err
		}
		target = p
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		target = cwd
	}

	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("path does not exist: %s", target)
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	if err := eng.SetBookmark(cmd.Context(), name, target); err != nil {
		return fmt.Errorf("set bookmark: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s bookmark %s -> %s\n", okC("Saved"), nameC(name), pathC(target))
	return nil
}

func runBookmarkRemove(cmd *cobra.Command, args []string) error {
	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	removed, err := eng.RemoveBookmark(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	if !removed {
		return fmt.Errorf("bookmark %q not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s bookmark %s\n", okC("Removed"), nameC(args[0]))
	return nil
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	bookmarks, err := eng.ListBookmarks(cmd.Context())
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(bookmarks) == 0 {
		fmt.Fprintln(out, "No bookmarks found.")
		return nil
	}
	fmt.Fprintln(out, heading("Bookmarks:"))
	for _, b := range bookmarks {
		fmt.Fprintf(out, "  %s -> %s\n", nameC(b.Name), pathC(b.Path))
	}
	return nil
}

func runBookmarkGet(cmd *cobra.Command, args []string) error {
	eng, closeDB, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	path, ok, err := eng.GetBookmark(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get bookmark: %w", err)
	}
	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
