package config

import "github.com/spf13/viper"

// ServeConfig holds configuration for the MCP query server.
type ServeConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Config holds all runtime configuration for a phasehull invocation.
// Values are populated from .phasehull.yaml, PHASEHULL_* env vars, and CLI flags.
type Config struct {
	CatalogPath                string      `mapstructure:"catalog_path"`
	StorePath                  string      `mapstructure:"store_path"`
	Tolerance                  float64     `mapstructure:"tolerance"`
	ExcludePositiveCorrections bool        `mapstructure:"exclude_positive_corrections"`
	TelemetryPath              string      `mapstructure:"telemetry_path"`
	Verbose                    bool        `mapstructure:"verbose"`
	Serve                      ServeConfig `mapstructure:"serve"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("catalog_path", "entries.toml")
	viper.SetDefault("store_path", ".phasehull/entries.db")
	viper.SetDefault("tolerance", 1e-6)
	viper.SetDefault("exclude_positive_corrections", false)
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("serve.enabled", false)
	viper.SetDefault("serve.port", 8492)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
