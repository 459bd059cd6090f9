package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/lazypower/burrow/internal/config"
	"github.com/lazypower/burrow/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Args:  cobra.NoArgs,
	// A broken config file must not lock the user out of reset and edit.
	PersistentPreRunE: setupLenient,
	RunE:              runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the config file with defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting (used by the shell scripts)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $VISUAL or $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
}

// setupLenient is setup, except a config that fails to load falls back to
// the defaults with a warning.
func setupLenient(cmd *cobra.Command, args []string) error {
	if err := setup(cmd, args); err != nil {
		c := config.Default()
		cfg = &c
		logging.Setup(cfg.Logging.Level, cmd.ErrOrStderr())
		configureColor(cmd.OutOrStdout())
		slog.Warn("config not loaded, using defaults", "err", err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path, err := config.PathFromEnv()
	if err != nil {
		return err
	}

	enabled := func(b bool) string {
		if b {
			return okC("enabled")
		}
		return errC("disabled")
	}

	fmt.Fprintln(out, heading("burrow configuration"))
	fmt.Fprintf(out, "Config file: %s\n", pathC(path))
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "(default)"
	}
	fmt.Fprintf(out, "Database: %s\n", pathC(dbPath))
	fmt.Fprintf(out, "Max entries: %s\n", accent(cfg.History.MaxEntries))
	fmt.Fprintf(out, "Fuzzy matching: %s\n", enabled(cfg.Query.EnableFuzzyMatching))
	fmt.Fprintf(out, "Suggest results: %s\n", accent(cfg.Query.SuggestResults))
	fmt.Fprintf(out, "Auto clean on startup: %s\n", enabled(cfg.History.AutoCleanOnStartup))
	fmt.Fprintf(out, "Log level: %s\n", accent(cfg.Logging.Level))
	fmt.Fprintf(out, "FZF options: %s\n", pathC(cfg.UI.FzfOptions))

	if len(cfg.History.IgnoredPatterns) > 0 {
		fmt.Fprintf(out, "\n%s\n", warnC("Ignored patterns:"))
		for _, p := range cfg.History.IgnoredPatterns {
			fmt.Fprintf(out, "  - %s\n", errC(p))
		}
	}
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	path, err := config.PathFromEnv()
	if err != nil {
		return err
	}
	c := config.Default()
	if err := c.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s configuration reset: %s\n", okC("✓"), pathC(path))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	v, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.PathFromEnv()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, err := config.PathFromEnv()
	if err != nil {
		return err
	}
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	c := exec.CommandContext(cmd.Context(), editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %s: %w", editor, err)
	}
	return nil
}
