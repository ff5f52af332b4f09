package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"CatalogPath", cfg.CatalogPath, "entries.toml"},
		{"StorePath", cfg.StorePath, ".phasehull/entries.db"},
		{"Tolerance", cfg.Tolerance, 1e-6},
		{"ExcludePositiveCorrections", cfg.ExcludePositiveCorrections, false},
		{"TelemetryPath", cfg.TelemetryPath, ""},
		{"Verbose", cfg.Verbose, false},
		{"ServeEnabled", cfg.Serve.Enabled, false},
		{"ServePort", cfg.Serve.Port, 8492},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "catalog_path",
			envKey: "PHASEHULL_CATALOG_PATH",
			envVal: "/data/lifepo.toml",
			field:  func(c Config) any { return c.CatalogPath },
			want:   "/data/lifepo.toml",
		},
		{
			name:   "store_path",
			envKey: "PHASEHULL_STORE_PATH",
			envVal: "/tmp/entries.db",
			field:  func(c Config) any { return c.StorePath },
			want:   "/tmp/entries.db",
		},
		{
			name:   "tolerance",
			envKey: "PHASEHULL_TOLERANCE",
			envVal: "0.0001",
			field:  func(c Config) any { return c.Tolerance },
			want:   0.0001,
		},
		{
			name:   "exclude_positive_corrections",
			envKey: "PHASEHULL_EXCLUDE_POSITIVE_CORRECTIONS",
			envVal: "true",
			field:  func(c Config) any { return c.ExcludePositiveCorrections },
			want:   true,
		},
		{
			name:   "verbose",
			envKey: "PHASEHULL_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so PHASEHULL_* env vars map to config keys.
			viper.SetEnvPrefix("PHASEHULL")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := Load()
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_DefaultsAreNotZero(t *testing.T) {
	resetViper()

	cfg := Load()

	if cfg.CatalogPath == "" {
		t.Error("CatalogPath should not be empty")
	}
	if cfg.StorePath == "" {
		t.Error("StorePath should not be empty")
	}
	if cfg.Tolerance == 0 {
		t.Error("Tolerance should not be zero")
	}
	if cfg.Serve.Port == 0 {
		t.Error("Serve.Port should not be zero")
	}
}
