package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "flashstudy-dev-session-secret-change-me"

type Config struct {
	Addr          string
	DBPath        string
	LogLevel      string
	SessionSecret string
	SecureCookies bool

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	ServerURL       string
	SyncWorkerCount int
	SyncQueueSize   int
	HTTPTimeout     time.Duration
	ClientLogPath   string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:flashstudy.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		SessionSecret:   envOr("SESSION_SECRET", defaultSessionSecret),
		SecureCookies:   strings.EqualFold(os.Getenv("SECURE_COOKIES"), "true"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		ServerURL:       strings.TrimRight(envOr("SERVER_URL", "http://localhost:8080"), "/"),
		SyncWorkerCount: envIntOr("SYNC_WORKER_COUNT", 2),
		SyncQueueSize:   envIntOr("SYNC_QUEUE_SIZE", 16),
		HTTPTimeout:     envDurationOr("HTTP_TIMEOUT", 15*time.Second),
		ClientLogPath:   envOr("FLASHSTUDY_LOG", "flashstudy.log"),
	}
}

// Validate checks the values both binaries depend on.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel)
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	if c.SyncWorkerCount < 1 || c.SyncWorkerCount > 16 {
		return fmt.Errorf("SYNC_WORKER_COUNT must be between 1 and 16 (got %d)", c.SyncWorkerCount)
	}
	if c.SyncQueueSize < 1 {
		return fmt.Errorf("SYNC_QUEUE_SIZE must be positive (got %d)", c.SyncQueueSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("SERVER_URL must start with http:// or https:// (got %q)", c.ServerURL)
	}
	return nil
}

// UsingDefaultSecret reports whether the session secret was left at its
// development value.
func (c Config) UsingDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
