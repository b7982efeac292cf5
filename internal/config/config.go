// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported market-data providers
const (
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
)

// ErrInvalidProvider is returned when MARKET_DATA_PROVIDER names an unknown provider
var ErrInvalidProvider = errors.New("invalid market data provider")

// Config holds application configuration
type Config struct {
	DataDir  string // Directory holding client_data.db (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	Provider        string        // yahoo or financego
	ClientDataCache bool          // Persist provider responses in SQLite across restarts (opt-in)
	FundamentalsTTL time.Duration // Freshness window for persisted responses
	StaleFallback   bool          // Serve expired responses when the provider fails
	MemoTTL         time.Duration // 0 keeps memoised results until invalidated

	ShortlistSize   int
	DefaultMinESG   int
	DefaultMaxPE    float64
	CleanupSchedule string // Cron expression with seconds field
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         dataDir,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvAsInt("PORT", 8080),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		Provider:        strings.ToLower(getEnv("MARKET_DATA_PROVIDER", ProviderYahoo)),
		ClientDataCache: getEnvAsBool("CLIENT_DATA_CACHE", false),
		FundamentalsTTL: getEnvAsDuration("FUNDAMENTALS_TTL", 24*time.Hour),
		StaleFallback:   getEnvAsBool("STALE_FALLBACK", false),
		MemoTTL:         getEnvAsDuration("MEMO_TTL", 0),
		ShortlistSize:   getEnvAsInt("SHORTLIST_SIZE", 5),
		DefaultMinESG:   getEnvAsInt("DEFAULT_MIN_ESG", 60),
		DefaultMaxPE:    getEnvAsFloat("DEFAULT_MAX_PE", 40),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 0 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderYahoo, ProviderFinanceGo:
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidProvider, c.Provider, ProviderYahoo, ProviderFinanceGo)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.ShortlistSize <= 0 {
		return fmt.Errorf("shortlist size must be positive, got %d", c.ShortlistSize)
	}
	if c.DefaultMinESG < 0 || c.DefaultMinESG > 100 {
		return fmt.Errorf("default minimum ESG score must be within [0,100], got %d", c.DefaultMinESG)
	}
	if math.IsNaN(c.DefaultMaxPE) || c.DefaultMaxPE < 0 || c.DefaultMaxPE > 100 {
		return fmt.Errorf("default maximum P/E must be within [0,100], got %v", c.DefaultMaxPE)
	}
	if c.FundamentalsTTL <= 0 {
		return fmt.Errorf("fundamentals TTL must be positive, got %s", c.FundamentalsTTL)
	}
	if c.MemoTTL < 0 {
		return fmt.Errorf("memo TTL cannot be negative, got %s", c.MemoTTL)
	}

	return nil
}

// ClientDataPath returns the location of the persistent provider cache
func (c *Config) ClientDataPath() string {
	return filepath.Join(c.DataDir, "client_data.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90m") and bare seconds ("3600").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
