package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"cash-tally/logging"
)

type Config struct {
	// Tally
	FloatAmount string

	// Formatting
	Locale string
	Symbol string

	// HTTP
	ListenAddr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env from the working directory when present, then the
// environment. Missing variables fall back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	return &Config{
		FloatAmount: getEnv("CASHTALLY_FLOAT", "300"),
		Locale:      getEnv("CASHTALLY_LOCALE", "en-US"),
		Symbol:      getEnv("CASHTALLY_SYMBOL", "$"),
		ListenAddr:  getEnv("CASHTALLY_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if amount, err := decimal.NewFromString(strings.TrimSpace(c.FloatAmount)); err != nil {
		problems = append(problems, fmt.Sprintf("invalid float amount '%s': must be a decimal number", c.FloatAmount))
	} else if amount.IsNegative() {
		problems = append(problems, fmt.Sprintf("invalid float amount %s: must not be negative", amount.String()))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		problems = append(problems, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}

	if strings.TrimSpace(c.Symbol) == "" {
		problems = append(problems, "currency symbol cannot be empty")
	}

	if c.ListenAddr == "" {
		problems = append(problems, "listen address cannot be empty")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Float returns the configured float. Call Validate first.
func (c *Config) Float() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.FloatAmount))
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.LogLevel); err == nil {
		cfg.Level = level
	}
	cfg.Format = c.LogFormat
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
