package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "./public", cfg.StaticDir)
	assert.Equal(t, "1h0m0s", cfg.ConsolidationInterval.String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "3456")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("CONSOLIDATION_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3456", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "15m0s", cfg.ConsolidationInterval.String())
}

func TestLoadInvalidInterval(t *testing.T) {
	t.Setenv("CONSOLIDATION_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
