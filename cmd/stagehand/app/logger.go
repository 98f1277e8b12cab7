package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/openconf/stagehand/pkg/logging"
)

// determineLogLevel resolves the effective log level from config in
// order of precedence: explicit --log-level, --verbose/--quiet, the
// LOG_LEVEL environment variable, then the default.
func determineLogLevel(cfg *Config) string {
	if cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	if cfg.Verbose {
		return "debug"
	}
	if cfg.Quiet {
		return "error"
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// NewLogger builds a logger from the resolved configuration and installs
// it as the package default so library code picks it up too.
func NewLogger(cfg *Config) zerolog.Logger {
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:   determineLogLevel(cfg),
		Format:  cfg.LogFormat,
		Output:  "stderr",
		NoColor: cfg.NoColor,
	})
	logging.SetDefault(logger)
	return logger
}
