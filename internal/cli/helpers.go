package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lazypower/burrow/internal/config"
	"github.com/lazypower/burrow/internal/engine"
	"github.com/lazypower/burrow/internal/logging"
	"github.com/lazypower/burrow/internal/store"
)

// cfg is loaded once per invocation by setup.
var cfg *config.Config

var (
	accent  = color.New(color.FgCyan).SprintFunc()
	pathC   = color.New(color.FgBlue).SprintFunc()
	nameC   = color.New(color.FgYellow).SprintFunc()
	okC     = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnC   = color.New(color.FgYellow, color.Bold).SprintFunc()
	errC    = color.New(color.FgRed).SprintFunc()
	heading = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// setup loads config (file, then BURROW_* env), installs the logger and
// decides whether output is coloured.
func setup(cmd *cobra.Command, args []string) error {
	path, err := config.PathFromEnv()
	if err != nil {
		return err
	}
	c, err := config.LoadOrCreateAt(path)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(); err != nil {
		return err
	}
	cfg = c

	logging.Setup(cfg.Logging.Level, cmd.ErrOrStderr())
	configureColor(cmd.OutOrStdout())
	return nil
}

// configureColor disables colour unless w is a terminal.
func configureColor(w io.Writer) {
	f, ok := w.(*os.File)
	color.NoColor = color.NoColor || !ok || !term.IsTerminal(int(f.Fd()))
}

// isInteractive reports whether r can answer a prompt. Non-file readers
// (tests, pipes handed in by callers) count as interactive; a file must be
// a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

// openDB opens the database named by config or BURROW_DB, falling back to
// the XDG data dir.
func openDB() (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		dbPath, err = expandHome(dbPath)
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

func engineOptions(c *config.Config) engine.Options {
	return engine.Options{
		MaxEntries:     c.History.MaxEntries,
		FuzzyMatching:  c.Query.EnableFuzzyMatching,
		SuggestResults: c.Query.SuggestResults,
		AutoClean:      c.History.AutoCleanOnStartup,
	}
}

// openEngine opens the store and returns a ready engine plus its closer.
// Startup maintenance runs here, once per invocation.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	eng := engine.New(db, cfg.Ignores(), engineOptions(cfg))
	eng.Log = slog.Default()
	eng.Startup(ctx)
	return eng, func() { db.Close() }, nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// absPath expands "~" and makes p absolute.
func absPath(p string) (string, error) {
	p, err := expandHome(p)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
