package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Storage backends selectable via STORE_BACKEND.
const (
	BackendSQL    = "sql"
	BackendNotion = "notion"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv           string
	HTTPPort         int
	StoreBackend     string
	DBDriver         string
	DBDSN            string
	RedisAddr        string
	CacheTTLMinutes  int
	NotionToken      string
	NotionTicketsDB  string
	NotionFeedbackDB string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("HTTP_PORT", "8080"))
	if err != nil {
		port = 8080
	}

	ttl, err := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "10"))
	if err != nil || ttl <= 0 {
		ttl = 10
	}

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		HTTPPort:         port,
		StoreBackend:     getEnv("STORE_BACKEND", BackendSQL),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:            getEnv("DB_DSN", "./data/supportdesk.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTLMinutes:  ttl,
		NotionToken:      os.Getenv("NOTION_TOKEN"),
		NotionTicketsDB:  os.Getenv("NOTION_TICKETS_DB"),
		NotionFeedbackDB: os.Getenv("NOTION_FEEDBACK_DB"),
	}

	switch cfg.StoreBackend {
	case BackendSQL:
	case BackendNotion:
		if cfg.NotionToken == "" {
			return nil, fmt.Errorf("NOTION_TOKEN is required when STORE_BACKEND=notion")
		}
		if cfg.NotionTicketsDB == "" || cfg.NotionFeedbackDB == "" {
			return nil, fmt.Errorf("NOTION_TICKETS_DB and NOTION_FEEDBACK_DB are required when STORE_BACKEND=notion")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
