package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Market.MarketHoursTTL != 30*time.Second {
		t.Errorf("market hours TTL = %v, want 30s", cfg.Market.MarketHoursTTL)
	}
	if cfg.Market.OffHoursTTL != 5*time.Minute {
		t.Errorf("off hours TTL = %v, want 5m", cfg.Market.OffHoursTTL)
	}
	if cfg.Market.CryptoLimit != 10 {
		t.Errorf("crypto limit = %d, want 10", cfg.Market.CryptoLimit)
	}
	if cfg.Market.ScraperSubject != "market.scraper.completed" {
		t.Errorf("scraper subject = %s", cfg.Market.ScraperSubject)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MARKET_CRYPTO_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Market.CryptoLimit != 25 {
		t.Errorf("crypto limit = %d, want 25", cfg.Market.CryptoLimit)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative port should fail validation")
	}

	cfg.Server.Port = 8080
	cfg.Market.OffHoursTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero TTL should fail validation")
	}
}

func TestGetMySQLDSN(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	dsn := cfg.GetMySQLDSN()
	want := "market:market123@tcp(localhost:3306)/market?parseTime=true&multiStatements=true"
	if dsn != want {
		t.Errorf("DSN = %s, want %s", dsn, want)
	}
}
