package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	HTTPPort      string
	LogLevel      string
	JWTSecret     string
	TokenTTL      time.Duration
	ResponseDelay time.Duration
	SessionKey    string
	MockDataPath  string
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	tokenTTL, err := getEnvAsDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	delay, err := getEnvAsDuration("RESPONSE_DELAY", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", "covalence.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      tokenTTL,
		ResponseDelay: delay,
		SessionKey:    getEnv("SESSION_KEY", "demo_user"),
		MockDataPath:  getEnv("MOCK_DATA_PATH", ""),
	}, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("HTTP_PORT must be numeric, got %q", c.HTTPPort)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean INFO.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("2s") or bare milliseconds ("1500").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	return d, nil
}
