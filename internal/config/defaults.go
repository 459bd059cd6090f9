package config

// DefaultIgnorePatterns returns the directories and file suffixes that are
// never recorded: dependency trees, VCS metadata, build output and caches.
func DefaultIgnorePatterns() []string {
	return []string{
		// node_modules
		"**/node_modules",
		"**/node_modules/**",
		// .git
		"**/.git",
		"**/.git/**",
		// target
		"**/target",
		"**/target/**",
		// .cache
		"**/.cache",
		"**/.cache/**",
		// build
		"**/build",
		"**/build/**",
		// dist
		"**/dist",
		"**/dist/**",
		// File patterns
		"**/*.log",
		"**/*.tmp",
	}
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries:         1000,
			IgnoredPatterns:    DefaultIgnorePatterns(),
			AutoCleanOnStartup: false,
		},
		Query: QueryConfig{
			EnableFuzzyMatching: true,
			SuggestResults:      10,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		UI: UIConfig{
			FzfOptions: "--height=40% --reverse --border",
		},
	}
}
