package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	LLMProvider     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	ModelName       string

	StaticDir             string
	ConsolidationInterval time.Duration
}

func Load() (*Config, error) {
	interval, err := time.ParseDuration(getEnv("CONSOLIDATION_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONSOLIDATION_INTERVAL: %w", err)
	}

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		LogLevel:              parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:              getEnv("REDIS_URL", "localhost:6379"),
		LLMProvider:           getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:       getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:             getEnv("MODEL_NAME", "gpt-4o-mini"),
		StaticDir:             getEnv("STATIC_DIR", "./public"),
		ConsolidationInterval: interval,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
