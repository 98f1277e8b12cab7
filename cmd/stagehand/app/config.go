package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultStorePath is the store location used when nothing else is
// configured.
const DefaultStorePath = "stagehand.db"

// Config holds the application configuration loaded from flags,
// environment variables, .env files, and the config file.
type Config struct {
	// Store
	StorePath string

	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (bound by cobra after parsing)
//  2. Environment variables (STAGEHAND_*)
//  3. .env files
//  4. Config file (~/.stagehand.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("STAGEHAND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("store", DefaultStorePath)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")

	// Search for config in standard locations (ignore error if absent).
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".stagehand")
	}
	_ = v.ReadInConfig()

	return &Config{
		StorePath:  v.GetString("store"),
		NoColor:    v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		ConfigFile: v.ConfigFileUsed(),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
	}, nil
}

// loadEnvFiles loads .env files from the working directory. Missing
// files are fine; a local override wins over the shared file.
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}
