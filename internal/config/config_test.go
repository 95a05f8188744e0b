package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rinkbook/internal/factory"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, "rinkbook.db", cfg.SQLitePath)
	assert.Equal(t, time.Duration(0), cfg.RedisGameTTL)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"HOST":                 "127.0.0.1",
		"PORT":                 "8081",
		"STORAGE_TYPE":         "redis",
		"REDIS_URL":            "redis://cache:6379/2",
		"REDIS_GAME_TTL":       "720h",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://rink.example",
		"LOG_LEVEL":            "debug",
		"LOG_FORMAT":           "text",
		"METRICS_ENABLED":      "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 720*time.Hour, cfg.RedisGameTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://rink.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "mongo"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"postgres without url", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"negative ttl", map[string]string{"REDIS_GAME_TTL": "-1s"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"bad bool", map[string]string{"METRICS_ENABLED": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnvUnderProcessEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=6000\nLOG_FORMAT=text\n"), 0o600))

	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
}

func TestLoadSkipsMissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestFactoryConfig(t *testing.T) {
	cfg, err := Parse(map[string]string{"STORAGE_TYPE": "redis", "REDIS_URL": "redis://r:6379", "REDIS_GAME_TTL": "1h"})
	require.NoError(t, err)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://r:6379", fc.RedisConfig.URL)
	assert.Equal(t, time.Hour, fc.RedisConfig.GameTTL)
	assert.True(t, fc.MetricsEnabled)

	cfg, err = Parse(map[string]string{"STORAGE_TYPE": "postgres", "DATABASE_URL": "postgres://db/rink"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/rink", cfg.Factory(nil).DSN)
}

func TestServerConfig(t *testing.T) {
	cfg, err := Parse(map[string]string{"HOST": "0.0.0.0", "PORT": "9000"})
	require.NoError(t, err)

	sc := cfg.Server()
	assert.Equal(t, "0.0.0.0", sc.Host)
	assert.Equal(t, 9000, sc.Port)
	assert.Positive(t, sc.ReadHeaderTimeout)
}

func TestNewLoggerHonoursFormatAndLevel(t *testing.T) {
	cfg, err := Parse(map[string]string{"LOG_FORMAT": "text", "LOG_LEVEL": "warn"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}
