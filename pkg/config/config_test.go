package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.EODHD.RateLimit != 5 {
		t.Errorf("Expected EODHD RateLimit to be 5, got %d", cfg.EODHD.RateLimit)
	}

	if cfg.EODHD.CacheTTL != 6*time.Hour {
		t.Errorf("Expected EODHD CacheTTL to be 6h, got %s", cfg.EODHD.CacheTTL)
	}

	if cfg.Finology.BaseURL != "https://api.finology.in" {
		t.Errorf("Unexpected Finology BaseURL: %s", cfg.Finology.BaseURL)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("EODHD_RATE_LIMIT", "10")
	os.Setenv("ALPHA_VANTAGE_WATCHLIST", "AAPL, MSFT,GOOG")
	os.Setenv("LOG_LEVEL", "warn")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("EODHD_RATE_LIMIT")
		os.Unsetenv("ALPHA_VANTAGE_WATCHLIST")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.EODHD.RateLimit != 10 {
		t.Errorf("Expected EODHD RateLimit to be 10, got %d", cfg.EODHD.RateLimit)
	}

	watchlist := cfg.AlphaVantage.Watchlist
	if len(watchlist) != 3 || watchlist[0] != "AAPL" || watchlist[1] != "MSFT" || watchlist[2] != "GOOG" {
		t.Errorf("Unexpected watchlist: %v", watchlist)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel to be warn, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "sandbox")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for invalid ENV, got nil")
	}
}
