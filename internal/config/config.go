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
	Provider ProviderConfig `mapstructure:"provider"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
}

// ProviderConfig selects and parameterizes the market-data provider.
type ProviderConfig struct {
	// Mode is "http" (remote analysis endpoint) or "local" (in-process
	// aggregation against FMP and sec-api.io).
	Mode      string `mapstructure:"mode"`
	BaseURL   string `mapstructure:"base_url"`
	FMPKey    string `mapstructure:"fmp_key"`
	FMPKeyEnv string `mapstructure:"fmp_key_env"`
	SECKey    string `mapstructure:"sec_key"`
	SECKeyEnv string `mapstructure:"sec_key_env"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone  string `mapstructure:"timezone"`
	ExportDir string `mapstructure:"export_dir"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// MISPRICING_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "mispricing")

	// default values
	v.SetDefault("provider.mode", "local")
	v.SetDefault("provider.base_url", "http://127.0.0.1:5000")
	v.SetDefault("provider.fmp_key", "")
	v.SetDefault("provider.fmp_key_env", "FMP_API_KEY")
	v.SetDefault("provider.sec_key", "")
	v.SetDefault("provider.sec_key_env", "SEC_API_KEY")
	v.SetDefault("database.path", filepath.Join(dataDir, "mispricing.db"))
	v.SetDefault("ui.timezone", "UTC")
	v.SetDefault("ui.export_dir", dataDir)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MISPRICING_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "mispricing"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MISPRICING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Provider.Mode != "http" && c.Provider.Mode != "local" {
		return Config{}, fmt.Errorf("provider.mode must be http or local, got %q", c.Provider.Mode)
	}
	return c, nil
}

// ResolveFMPKey prefers the literal key, falling back to the named env var.
func (c Config) ResolveFMPKey() string {
	if c.Provider.FMPKey != "" {
		return c.Provider.FMPKey
	}
	return os.Getenv(c.Provider.FMPKeyEnv)
}

// ResolveSECKey prefers the literal key, falling back to the named env var.
func (c Config) ResolveSECKey() string {
	if c.Provider.SECKey != "" {
		return c.Provider.SECKey
	}
	return os.Getenv(c.Provider.SECKeyEnv)
}
