package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (optional response cache)
	Redis RedisConfig

	// Screening providers
	Finology     FinologyConfig
	EODHD        EODHDConfig
	AlphaVantage AlphaVantageConfig
	ScreenerIn   ScreenerInConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// FinologyConfig holds Finology Ticker API configuration
type FinologyConfig struct {
	APIKey  string
	BaseURL string
}

// EODHDConfig holds EODHD Financial Data API configuration
type EODHDConfig struct {
	APIToken string
	BaseURL  string

	// Requests per second against the fundamentals endpoint
	RateLimit int

	// TTL for cached symbol lists and fundamentals
	CacheTTL time.Duration
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string

	// Symbols the screen operation evaluates (Alpha Vantage has no
	// server-side screener endpoint)
	Watchlist []string
}

// ScreenerInConfig holds screener.in scraping configuration
type ScreenerInConfig struct {
	BaseURL string
}

// Load reads configuration from environment variables
// ⭐ SSOT: this is the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Providers
		Finology: FinologyConfig{
			APIKey:  getEnv("FINOLOGY_API_KEY", ""),
			BaseURL: getEnv("FINOLOGY_BASE_URL", "https://api.finology.in"),
		},

		EODHD: EODHDConfig{
			APIToken:  getEnv("EODHD_API_TOKEN", ""),
			BaseURL:   getEnv("EODHD_BASE_URL", "https://eodhd.com/api"),
			RateLimit: getEnvAsInt("EODHD_RATE_LIMIT", 5),
			CacheTTL:  getEnvAsDuration("EODHD_CACHE_TTL", "6h"),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:    getEnv("ALPHA_VANTAGE_API_KEY", ""),
			BaseURL:   getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			Watchlist: getEnvAsList("ALPHA_VANTAGE_WATCHLIST", ""),
		},

		ScreenerIn: ScreenerInConfig{
			BaseURL: getEnv("SCREENER_IN_BASE_URL", "https://www.screener.in"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated environment variable
func getEnvAsList(key, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
