package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Environment variables, all prefixed BURROW_:
//
//	BURROW_CONFIG        config file path
//	BURROW_DB            database path
//	BURROW_LOG_LEVEL     logging.level
//	BURROW_FUZZY         query.enable_fuzzy_matching
//	BURROW_MAX_ENTRIES   history.max_entries
//	BURROW_AUTO_CLEAN    history.auto_clean_on_startup
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("burrow")
	v.AutomaticEnv()
	return v
}

// PathFromEnv returns BURROW_CONFIG when set, else DefaultPath.
func PathFromEnv() (string, error) {
	if p := newEnv().GetString("config"); p != "" {
		return p, nil
	}
	return DefaultPath()
}

// ApplyEnv overlays BURROW_* environment variables onto c. Environment wins
// over the file. The result is validated again and ignore patterns are
// recompiled.
func (c *Config) ApplyEnv() error {
	v := newEnv()

	if v.IsSet("db") {
		c.Database.Path = v.GetString("db")
	}
	if v.IsSet("log_level") {
		c.Logging.Level = v.GetString("log_level")
	}
	if v.IsSet("fuzzy") {
		c.Query.EnableFuzzyMatching = v.GetBool("fuzzy")
	}
	if v.IsSet("max_entries") {
		c.History.MaxEntries = v.GetInt("max_entries")
	}
	if v.IsSet("auto_clean") {
		c.History.AutoCleanOnStartup = v.GetBool("auto_clean")
	}

	if err := c.compile(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}
