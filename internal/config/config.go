package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Binance API
	BinanceApiKey    string
	BinanceSecretKey string
	Testnet          bool

	// Margin
	MarginAsset     string
	MarginType      string
	SafetyBufferPct decimal.Decimal

	// Exchange access
	RulesCacheTTL     time.Duration
	RequestsPerSecond float64
	MaxAttempts       int

	LogDir string
	Debug  bool
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.BinanceApiKey = os.Getenv("BINANCE_API_KEY")
	cfg.BinanceSecretKey = os.Getenv("BINANCE_SECRET_KEY")
	if cfg.BinanceSecretKey == "" {
		cfg.BinanceSecretKey = os.Getenv("BINANCE_API_SECRET")
	}

	cfg.Testnet = true
	if val := os.Getenv("BINANCE_TESTNET"); val != "" {
		cfg.Testnet, err = strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for BINANCE_TESTNET: %w", err)
		}
	}

	cfg.MarginAsset = strings.ToUpper(envOr("MARGIN_ASSET", "USDT"))

	cfg.MarginType = strings.ToUpper(envOr("MARGIN_TYPE", "ISOLATED"))
	if cfg.MarginType != "ISOLATED" && cfg.MarginType != "CROSSED" {
		return nil, fmt.Errorf("invalid value for MARGIN_TYPE: %q (want ISOLATED or CROSSED)", cfg.MarginType)
	}

	cfg.SafetyBufferPct, err = parseDecimal(envOr("SAFETY_BUFFER_PCT", "0.1"), "SAFETY_BUFFER_PCT")
	if err != nil {
		return nil, err
	}
	if cfg.SafetyBufferPct.IsNegative() {
		return nil, fmt.Errorf("SAFETY_BUFFER_PCT must not be negative")
	}

	cfg.RulesCacheTTL, err = parseDuration(envOr("RULES_CACHE_TTL", "5m"), "RULES_CACHE_TTL")
	if err != nil {
		return nil, err
	}

	cfg.RequestsPerSecond, err = parseFloat(envOr("REQUESTS_PER_SECOND", "10"), "REQUESTS_PER_SECOND")
	if err != nil {
		return nil, err
	}

	cfg.MaxAttempts, err = parseInt(envOr("MAX_ATTEMPTS", "3"), "MAX_ATTEMPTS")
	if err != nil {
		return nil, err
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	cfg.LogDir = envOr("LOG_DIR", "logs")
	cfg.Debug = os.Getenv("DEBUG") == "true"

	return cfg, nil
}

// HasCredentials reports whether signed endpoints can be called
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.BinanceApiKey) != "" && strings.TrimSpace(c.BinanceSecretKey) != ""
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func parseFloat(value, name string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return f, nil
}

func parseInt(value, name string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return i, nil
}

func parseDecimal(value, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return d, nil
}

func parseDuration(value, name string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return d, nil
}
