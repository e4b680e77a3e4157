package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvFile is the optional local file that pre-populates the process
// environment before configuration is read.
const EnvFile = ".env"

// APIKeyEnv names the environment variable holding the CoinGecko API key
const APIKeyEnv = "API_KEY_GECKO"

// Config holds all configuration for the crypto fetcher.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	// CoinGecko access
	APIKey   string `mapstructure:"api_key_gecko"`
	BaseURL  string `mapstructure:"coingecko_base_url"`
	KeyParam string `mapstructure:"coingecko_key_param"`

	// Local outputs
	OutputDir     string `mapstructure:"crypto_output_dir"`
	LogFile       string `mapstructure:"crypto_log_file"`
	LogMaxSizeMB  int    `mapstructure:"crypto_log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"crypto_log_max_backups"`
}

// HasAPIKey reports whether a CoinGecko API key was provided
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Load reads configuration from the environment, after pre-populating it
// from EnvFile when that file exists.
//
// Recognised environment variables:
//   - API_KEY_GECKO (required for any download, checked at fetch time)
//   - COINGECKO_BASE_URL (optional, defaults to the public v3 API)
//   - COINGECKO_KEY_PARAM (optional, defaults to x_cg_demo_api_key)
//   - CRYPTO_OUTPUT_DIR (optional, defaults to crypto_data)
//   - CRYPTO_LOG_FILE (optional, defaults to crypto_fetch.log)
//   - CRYPTO_LOG_MAX_SIZE_MB / CRYPTO_LOG_MAX_BACKUPS (optional, 5 and 3)
func Load() (*Config, error) {
	return LoadFrom(EnvFile)
}

// LoadFrom is Load with an explicit env file path
func LoadFrom(envFile string) (*Config, error) {
	// Variables already present in the environment win over the file
	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("coingecko_base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko_key_param", "x_cg_demo_api_key")
	v.SetDefault("crypto_output_dir", "crypto_data")
	v.SetDefault("crypto_log_file", "crypto_fetch.log")
	v.SetDefault("crypto_log_max_size_mb", 5)
	v.SetDefault("crypto_log_max_backups", 3)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.cryptofetcher")
	_ = v.ReadInConfig()

	v.BindEnv("api_key_gecko", APIKeyEnv)
	v.BindEnv("coingecko_base_url", "COINGECKO_BASE_URL")
	v.BindEnv("coingecko_key_param", "COINGECKO_KEY_PARAM")
	v.BindEnv("crypto_output_dir", "CRYPTO_OUTPUT_DIR")
	v.BindEnv("crypto_log_file", "CRYPTO_LOG_FILE")
	v.BindEnv("crypto_log_max_size_mb", "CRYPTO_LOG_MAX_SIZE_MB")
	v.BindEnv("crypto_log_max_backups", "CRYPTO_LOG_MAX_BACKUPS")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings that have no usable zero value.
// A missing API key is not reported here.
func (c *Config) Validate() error {
	var invalid []string
	if c.BaseURL == "" {
		invalid = append(invalid, "COINGECKO_BASE_URL")
	}
	if c.KeyParam == "" {
		invalid = append(invalid, "COINGECKO_KEY_PARAM")
	}
	if c.OutputDir == "" {
		invalid = append(invalid, "CRYPTO_OUTPUT_DIR")
	}
	if c.LogFile == "" {
		invalid = append(invalid, "CRYPTO_LOG_FILE")
	}
	if c.LogMaxSizeMB <= 0 {
		invalid = append(invalid, "CRYPTO_LOG_MAX_SIZE_MB")
	}
	if c.LogMaxBackups < 0 {
		invalid = append(invalid, "CRYPTO_LOG_MAX_BACKUPS")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}
	return nil
}
