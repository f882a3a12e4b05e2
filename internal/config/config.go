package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultUserAgent is sent when neither config nor flags provide one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds application configuration
type Config struct {
	// User agent recorded alongside each signature
	UserAgent string

	// Log level (debug, info, warn, error)
	// Default: "warn"
	LogLevel string

	// Width of the URL column in the history table
	HistoryWidth int

	// Signature journal settings
	Journal JournalConfig
}

// JournalConfig holds journal specific configuration
type JournalConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return load(getConfigDir())
}

func load(configDir string) (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("log_level", "warn")
	v.SetDefault("history_width", 48)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", defaultJournalPath())

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("LIVESIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		UserAgent:    v.GetString("user_agent"),
		LogLevel:     v.GetString("log_level"),
		HistoryWidth: v.GetInt("history_width"),
		Journal: JournalConfig{
			Enabled: v.GetBool("journal.enabled"),
			Path:    v.GetString("journal.path"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "livesign")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// defaultJournalPath returns ~/.local/share/livesign/journal.db
func defaultJournalPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "journal.db"
	}
	return filepath.Join(homeDir, ".local", "share", "livesign", "journal.db")
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.saveTo(getConfigDir())
}

func (c *Config) saveTo(configDir string) error {
	v := viper.New()

	// Set config file path
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("user_agent", c.UserAgent)
	v.Set("log_level", c.LogLevel)
	v.Set("history_width", c.HistoryWidth)
	v.Set("journal.enabled", c.Journal.Enabled)
	v.Set("journal.path", c.Journal.Path)

	// Write to file
	return v.WriteConfigAs(configFile)
}
