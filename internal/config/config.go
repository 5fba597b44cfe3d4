package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Grid    GridConfig    `mapstructure:"grid"`
	Source  SourceConfig  `mapstructure:"source"`
	History HistoryConfig `mapstructure:"history"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type GridConfig struct {
	PageSize             int  `mapstructure:"page_size"`
	CaseSensitiveFilters bool `mapstructure:"case_sensitive_filters"`
	MaxCellDisplayLength int  `mapstructure:"max_cell_display_length"`
}

type SourceConfig struct {
	// DSN selects the PostgreSQL source when set; CSV is used otherwise.
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Table  string `mapstructure:"table"`
	CSV    string `mapstructure:"csv"`

	// RowLimit caps how many rows are loaded into the grid.
	RowLimit int `mapstructure:"row_limit"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Grid: GridConfig{
			PageSize:             50,
			CaseSensitiveFilters: false,
			MaxCellDisplayLength: 100,
		},
		Source: SourceConfig{
			Schema:   "public",
			RowLimit: 10000,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "lazygrid"))
	}
	v.AddConfigPath(".")

	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("grid.page_size", 50)
	v.SetDefault("grid.case_sensitive_filters", false)
	v.SetDefault("grid.max_cell_display_length", 100)
	v.SetDefault("source.schema", "public")
	v.SetDefault("source.row_limit", 10000)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	// Missing config file is fine, defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// HistoryPath resolves the history database location, defaulting to
// the user config directory.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "lazygrid")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
