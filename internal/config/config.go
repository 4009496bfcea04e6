package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig
	UI         UIConfig
	Projection ProjectionConfig
	Log        LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string
	DateFormat     string
}

// ProjectionConfig holds projection-view settings.
type ProjectionConfig struct {
	// Months is the projection horizon. Non-positive values fall back
	// to 12 at the projection call.
	Months int
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs go
// to a file; an empty path disables logging.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix NESTEGG_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "nestegg")

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir, "nestegg.db"))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("projection.months", 12)
	v.SetDefault("log.path", filepath.Join(dataDir, "nestegg.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("NESTEGG_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "nestegg"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NESTEGG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
