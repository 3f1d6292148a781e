package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Events    EventsConfig    `yaml:"events"`
	Cache     CacheConfig     `yaml:"cache"`
	Refresher RefresherConfig `yaml:"refresher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type RefresherConfig struct {
	Enabled        bool `yaml:"enabled"`
	TickIntervalMs int  `yaml:"tick_interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Refresher.TickIntervalMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	// A .env file in the working directory feeds the HOQ_ overrides below.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Database: DatabaseConfig{
			MigrateOnStart: true,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Refresher: RefresherConfig{
			Enabled:        true,
			TickIntervalMs: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HOQ_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("HOQ_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("HOQ_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("HOQ_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("HOQ_MIGRATE_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.MigrateOnStart = b
		}
	}
	if v := os.Getenv("HOQ_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("HOQ_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("HOQ_REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("HOQ_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("HOQ_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = n
		}
	}
	if v := os.Getenv("HOQ_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("HOQ_REFRESHER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Refresher.Enabled = b
		}
	}
	if v := os.Getenv("HOQ_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Refresher.TickIntervalMs = n
		}
	}
	if v := os.Getenv("HOQ_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
