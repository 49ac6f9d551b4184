package config

import (
	"os"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	os.Unsetenv("SCRAPE_DEFAULT_LIMIT")
	os.Unsetenv("TG_RATE_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultLimit != 100 {
		t.Errorf("DefaultLimit = %d, want 100", cfg.DefaultLimit)
	}
	if cfg.MaxLimit != 1000 {
		t.Errorf("MaxLimit = %d, want 1000", cfg.MaxLimit)
	}
	if cfg.DefaultRetryAfterSec != 60 {
		t.Errorf("DefaultRetryAfterSec = %d, want 60", cfg.DefaultRetryAfterSec)
	}
}

func TestConfig_FromEnv(t *testing.T) {
	os.Setenv("SCRAPE_DEFAULT_LIMIT", "25")
	os.Setenv("TG_RATE_LIMIT", "0.5")
	defer os.Unsetenv("SCRAPE_DEFAULT_LIMIT")
	defer os.Unsetenv("TG_RATE_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultLimit != 25 {
		t.Errorf("DefaultLimit = %d, want 25", cfg.DefaultLimit)
	}
	if cfg.TGRateLimit != 0.5 {
		t.Errorf("TGRateLimit = %f, want 0.5", cfg.TGRateLimit)
	}
}

func TestConfig_InvalidEnvFallsBack(t *testing.T) {
	os.Setenv("SCRAPE_MAX_PAGES", "not-a-number")
	defer os.Unsetenv("SCRAPE_MAX_PAGES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxPages != 50 {
		t.Errorf("MaxPages = %d, want default 50", cfg.MaxPages)
	}
}
