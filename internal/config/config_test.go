package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"API_KEY_GECKO",
	"COINGECKO_BASE_URL",
	"COINGECKO_KEY_PARAM",
	"CRYPTO_OUTPUT_DIR",
	"CRYPTO_LOG_FILE",
	"CRYPTO_LOG_MAX_SIZE_MB",
	"CRYPTO_LOG_MAX_BACKUPS",
}

// clearEnv unsets every variable Load reads and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"API_KEY_GECKO":          "test_gecko_key",
		"COINGECKO_BASE_URL":     "https://test.coingecko.com/api/v3",
		"COINGECKO_KEY_PARAM":    "x_cg_pro_api_key",
		"CRYPTO_OUTPUT_DIR":      "out",
		"CRYPTO_LOG_FILE":        "logs/fetch.log",
		"CRYPTO_LOG_MAX_SIZE_MB": "10",
		"CRYPTO_LOG_MAX_BACKUPS": "7",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "test_gecko_key", cfg.APIKey)
	assert.Equal(t, "https://test.coingecko.com/api/v3", cfg.BaseURL)
	assert.Equal(t, "x_cg_pro_api_key", cfg.KeyParam)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "logs/fetch.log", cfg.LogFile)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.Equal(t, 7, cfg.LogMaxBackups)
	assert.True(t, cfg.HasAPIKey())
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.BaseURL)
	assert.Equal(t, "x_cg_demo_api_key", cfg.KeyParam)
	assert.Equal(t, "crypto_data", cfg.OutputDir)
	assert.Equal(t, "crypto_fetch.log", cfg.LogFile)
	assert.Equal(t, 5, cfg.LogMaxSizeMB)
	assert.Equal(t, 3, cfg.LogMaxBackups)
}

func TestLoad_MissingAPIKeyIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	require.NoError(t, os.WriteFile(EnvFile, []byte("API_KEY_GECKO=from_env_file\nCRYPTO_OUTPUT_DIR=file_dir\n"), 0644))

	// Already-set variables take precedence over the file
	t.Setenv("CRYPTO_OUTPUT_DIR", "process_dir")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env_file", cfg.APIKey)
	assert.Equal(t, "process_dir", cfg.OutputDir)
}

func TestLoad_InvalidLogSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRYPTO_LOG_MAX_SIZE_MB", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRYPTO_LOG_MAX_SIZE_MB")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		BaseURL:       "http://localhost",
		KeyParam:      "x_cg_demo_api_key",
		OutputDir:     "crypto_data",
		LogFile:       "crypto_fetch.log",
		LogMaxSizeMB:  5,
		LogMaxBackups: 3,
	}
	assert.NoError(t, cfg.Validate())

	cfg.OutputDir = ""
	cfg.LogFile = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "invalid configuration: CRYPTO_OUTPUT_DIR, CRYPTO_LOG_FILE", err.Error())
}
