package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
server:
  api_key: "super-secret"
  jwt_secret: "hmac-secret"
`

func TestLoadFromFile(t *testing.T) {
	t.Run("minimal config gets the defaults", func(t *testing.T) {
		cfg, err := loadFromFile(writeConfig(t, minimalConfig))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("unexpected log defaults: %+v", cfg.Log)
		}
		if cfg.Store.Backend != "local" {
			t.Errorf("expected default backend 'local', got %q", cfg.Store.Backend)
		}
		if cfg.Scheduler.BadgeInterval != time.Minute {
			t.Errorf("expected default badge interval 1m, got %v", cfg.Scheduler.BadgeInterval)
		}
		if cfg.Redis.TTL != time.Hour {
			t.Errorf("expected default redis ttl 1h, got %v", cfg.Redis.TTL)
		}
	})

	t.Run("missing jwt_secret is rejected", func(t *testing.T) {
		_, err := loadFromFile(writeConfig(t, `
server:
  api_key: "super-secret"
`))
		if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
			t.Fatalf("expected a jwt_secret error, got %v", err)
		}
	})

	t.Run("missing api_key is rejected", func(t *testing.T) {
		_, err := loadFromFile(writeConfig(t, `
server:
  jwt_secret: "hmac-secret"
`))
		if err == nil || !strings.Contains(err.Error(), "api_key") {
			t.Fatalf("expected an api_key error, got %v", err)
		}
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		_, err := loadFromFile(writeConfig(t, minimalConfig+`
store:
  backend: "mongo"
`))
		if err == nil || !strings.Contains(err.Error(), "store.backend") {
			t.Fatalf("expected a backend error, got %v", err)
		}
	})

	t.Run("postgres backend requires database.url", func(t *testing.T) {
		_, err := loadFromFile(writeConfig(t, minimalConfig+`
store:
  backend: "postgres"
`))
		if err == nil || !strings.Contains(err.Error(), "database.url") {
			t.Fatalf("expected a database.url error, got %v", err)
		}
	})
}

func TestConfig_PriceTable(t *testing.T) {
	t.Run("valid table converts", func(t *testing.T) {
		cfg := &Config{Pricing: PricingConfig{
			"comprehensive": {"Monthly": 150000},
			"singleSubject": {"Annual": 500000},
		}}
		table, err := cfg.PriceTable()
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if len(table) != 2 {
			t.Fatalf("expected 2 modes, got %d", len(table))
		}
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		cfg := &Config{Pricing: PricingConfig{"perSeat": {"Monthly": 1}}}
		if _, err := cfg.PriceTable(); err == nil {
			t.Fatal("expected an error for an unknown mode")
		}
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		cfg := &Config{Pricing: PricingConfig{"comprehensive": {"Weekly": 1}}}
		if _, err := cfg.PriceTable(); err == nil {
			t.Fatal("expected an error for an unknown plan")
		}
	})
}
