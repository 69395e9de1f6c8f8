package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"edu-entitlement-platform/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // postgres | local
	Path    string `yaml:"path"`    // snapshot file for the local backend
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type SchedulerConfig struct {
	BadgeInterval time.Duration `yaml:"badge_interval"`
}

// PricingConfig holds the price table keyed by mode then plan, in the
// smallest currency unit.
type PricingConfig map[string]map[string]int64

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Pricing   PricingConfig   `yaml:"pricing"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	cfg, err := loadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "local"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.Scheduler.BadgeInterval <= 0 {
		cfg.Scheduler.BadgeInterval = time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Store.Backend != "postgres" && cfg.Store.Backend != "local" {
		return nil, fmt.Errorf("store.backend must be postgres or local, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "postgres" && cfg.Database.URL == "" {
		return nil, errors.New("database.url is required for the postgres backend")
	}
	if cfg.Server.APIKey == "" {
		return nil, errors.New("server.api_key is required")
	}
	// An empty HMAC secret would let anyone sign valid admin session tokens.
	if cfg.Server.JWTSecret == "" {
		return nil, errors.New("server.jwt_secret is required")
	}

	return &cfg, nil
}

// PriceTable converts the yaml pricing section into the domain table,
// rejecting unknown modes and plans.
func (c *Config) PriceTable() (model.PriceTable, error) {
	table := model.PriceTable{}
	for mode, plans := range c.Pricing {
		m := model.PricingMode(mode)
		if m != model.PricingModeComprehensive && m != model.PricingModeSingleSubject {
			return nil, fmt.Errorf("pricing: unknown mode %q", mode)
		}
		table[m] = map[model.Plan]int64{}
		for plan, price := range plans {
			p, err := model.ParsePlan(plan)
			if err != nil {
				return nil, fmt.Errorf("pricing: %w", err)
			}
			table[m][p] = price
		}
	}
	return table, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
