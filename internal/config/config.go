package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Seed    SeedConfig
	Worker  WorkerConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	RateLimitRPS  int
	AllowedOrigin string
}

type DatabaseConfig struct {
	Driver string // sqlite or pgx
	DSN    string
}

type SeedConfig struct {
	Dir       string
	URL       string // takes precedence over Dir when set
	OnStartup bool
	Schedule  string // cron expression, empty disables reseeding
}

type WorkerConfig struct {
	Count int
}

type CacheConfig struct {
	RedisAddr     string // empty disables caching
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "localhost"),
			Port:          getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS:  getEnvInt("RATE_LIMIT_RPS", 20),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		DB: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "./data/tamis.db"),
		},
		Seed: SeedConfig{
			Dir:       getEnv("SEED_DIR", "./data/seed"),
			URL:       getEnv("SEED_URL", ""),
			OnStartup: getEnvBool("SEED_ON_STARTUP", true),
			Schedule:  getEnv("SEED_SCHEDULE", ""),
		},
		Worker: WorkerConfig{
			Count: getEnvInt("WORKER_COUNT", 4),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           getEnvDuration("CACHE_TTL", time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s, got %d", c.Server.RateLimitRPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.DB.Driver != "sqlite" && c.DB.Driver != "pgx" {
		return fmt.Errorf("invalid database driver: %s", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.Seed.Dir == "" && c.Seed.URL == "" {
		return fmt.Errorf("one of SEED_DIR or SEED_URL is required")
	}
	if c.Seed.Schedule != "" {
		if _, err := cron.ParseStandard(c.Seed.Schedule); err != nil {
			return fmt.Errorf("invalid seed schedule %q: %w", c.Seed.Schedule, err)
		}
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
