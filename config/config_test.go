package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		FloatAmount: "300",
		Locale:      "en-US",
		Symbol:      "$",
		ListenAddr:  ":8080",
		LogLevel:    "warn",
		LogFormat:   "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "fractional float", mutate: func(c *Config) { c.FloatAmount = "150.50" }},
		{name: "zero float", mutate: func(c *Config) { c.FloatAmount = "0" }},
		{
			name:        "non-numeric float",
			mutate:      func(c *Config) { c.FloatAmount = "lots" },
			wantErr:     true,
			errorString: "invalid float amount 'lots': must be a decimal number",
		},
		{
			name:        "negative float",
			mutate:      func(c *Config) { c.FloatAmount = "-5" },
			wantErr:     true,
			errorString: "invalid float amount -5: must not be negative",
		},
		{
			name:        "bad locale",
			mutate:      func(c *Config) { c.Locale = "??" },
			wantErr:     true,
			errorString: "invalid locale '??'",
		},
		{
			name:        "empty symbol",
			mutate:      func(c *Config) { c.Symbol = " " },
			wantErr:     true,
			errorString: "currency symbol cannot be empty",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "chatty" },
			wantErr:     true,
			errorString: "invalid log level 'chatty'",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml': must be text or json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.FloatAmount = "x"
	cfg.LogFormat = "yaml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid float amount")
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"CASHTALLY_FLOAT", "CASHTALLY_LOCALE", "CASHTALLY_SYMBOL", "CASHTALLY_ADDR", "LOG_LEVEL", "LOG_FORMAT"} {
			t.Setenv(k, "")
		}
		cfg := FromEnv()
		assert.Equal(t, "300", cfg.FloatAmount)
		assert.Equal(t, "en-US", cfg.Locale)
		assert.Equal(t, "$", cfg.Symbol)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, "300", cfg.Float().String())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CASHTALLY_FLOAT", "200")
		t.Setenv("CASHTALLY_SYMBOL", "€")
		t.Setenv("LOG_LEVEL", "debug")
		cfg := FromEnv()
		assert.Equal(t, "200", cfg.Float().String())
		assert.Equal(t, "€", cfg.Symbol)
		assert.Equal(t, slog.LevelDebug, cfg.Logging().Level)
	})
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CASHTALLY_FLOAT=250\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set, so start clean.
	t.Setenv("CASHTALLY_FLOAT", "")
	require.NoError(t, os.Unsetenv("CASHTALLY_FLOAT"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "250", cfg.FloatAmount)
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load()
	assert.NoError(t, err)
}

func TestConfig_FloatFallsBackToZero(t *testing.T) {
	cfg := validConfig()
	cfg.FloatAmount = "-1"
	assert.True(t, cfg.Float().IsZero())
}
