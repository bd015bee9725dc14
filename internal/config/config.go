package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingToken  = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingDB     = errors.New("DATABASE_URL is required")
	ErrMissingAPIKey = errors.New("GUARDIAN_API_KEY is required")
)

type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Guardian GuardianConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Watch    WatchConfig
}

type TelegramConfig struct {
	Token string
}

type DatabaseConfig struct {
	URL string
}

type GuardianConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

type WatchConfig struct {
	Interval    time.Duration
	Concurrency int
	PageSize    int
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Guardian: GuardianConfig{
			APIKey:  os.Getenv("GUARDIAN_API_KEY"),
			BaseURL: getEnvOrDefault("GUARDIAN_BASE_URL", "https://content.guardianapis.com"),
			Timeout: time.Duration(getEnvIntOrDefault("GUARDIAN_TIMEOUT_SEC", 30)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Watch: WatchConfig{
			Interval:    time.Duration(getEnvIntOrDefault("WATCH_INTERVAL_SEC", 900)) * time.Second,
			Concurrency: getEnvIntOrDefault("WATCH_CONCURRENCY", 4),
			PageSize:    getEnvIntOrDefault("WATCH_PAGE_SIZE", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.Guardian.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
