package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lazypower/burrow/internal/ignore"
)

// ErrUnknownKey is returned by Get for a key that names no setting.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all burrow configuration. It is loaded once per invocation and
// treated as read-only afterwards.
type Config struct {
	History  HistoryConfig  `toml:"history"`
	Query    QueryConfig    `toml:"query"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	UI       UIConfig       `toml:"ui"`

	ignores *ignore.Filter
}

type HistoryConfig struct {
	MaxEntries         int      `toml:"max_entries"`
	IgnoredPatterns    []string `toml:"ignored_patterns"`
	AutoCleanOnStartup bool     `toml:"auto_clean_on_startup"`
}

type QueryConfig struct {
	EnableFuzzyMatching bool `toml:"enable_fuzzy_matching"`
	SuggestResults      int  `toml:"suggest_results"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

type UIConfig struct {
	FzfOptions string `toml:"fzf_options"` // passed to fzf by the shell integration
}

// DefaultPath returns the default config path: <user config dir>/burrow/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "burrow", "config.toml"), nil
}

// Load reads a TOML config file at path over the defaults, then validates it
// and compiles the ignore patterns. A missing file, malformed TOML or a bad
// pattern is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.compile(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrCreateAt loads the config at path. If the file does not exist it
// writes the defaults there first (first run) and returns them.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		if err := cfg.compile(); err != nil {
			return nil, err
		}
		return &cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	return Load(path)
}

// Save writes the config as TOML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1, got %d", c.History.MaxEntries)
	}
	if c.Query.SuggestResults < 1 {
		return fmt.Errorf("query.suggest_results must be at least 1, got %d", c.Query.SuggestResults)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) compile() error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := ignore.New(c.History.IgnoredPatterns)
	if err != nil {
		return err
	}
	c.ignores = f
	return nil
}

// Ignores returns the compiled ignore filter. Configs built by Load and
// LoadOrCreateAt always carry one; a hand-built Config gets the defaults
// compiled on first use.
func (c *Config) Ignores() *ignore.Filter {
	if c.ignores == nil {
		patterns := c.History.IgnoredPatterns
		if patterns == nil {
			patterns = DefaultIgnorePatterns()
		}
		f, err := ignore.New(patterns)
		if err != nil {
			return &ignore.Filter{}
		}
		c.ignores = f
	}
	return c.ignores
}

// Keys lists every key accepted by Get, in display order.
func Keys() []string {
	return []string{
		"history.max_entries",
		"history.auto_clean_on_startup",
		"query.enable_fuzzy_matching",
		"query.suggest_results",
		"database.path",
		"logging.level",
		"ui.fzf_options",
	}
}

// Get returns a single setting rendered as text, for shell scripts.
// Bare leaf names ("fzf_options") are accepted as well as dotted keys.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "history.max_entries", "max_entries":
		return strconv.Itoa(c.History.MaxEntries), nil
	case "history.auto_clean_on_startup", "auto_clean_on_startup":
		return strconv.FormatBool(c.History.AutoCleanOnStartup), nil
	case "history.ignored_patterns", "ignored_patterns":
		return strings.Join(c.History.IgnoredPatterns, "\n"), nil
	case "query.enable_fuzzy_matching", "enable_fuzzy_matching":
		return strconv.FormatBool(c.Query.EnableFuzzyMatching), nil
	case "query.suggest_results", "suggest_results":
		return strconv.Itoa(c.Query.SuggestResults), nil
	case "database.path":
		return c.Database.Path, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "ui.fzf_options", "fzf_options":
		return c.UI.FzfOptions, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}
