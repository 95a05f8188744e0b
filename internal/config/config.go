// Package config loads server configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/rinkbook/internal/api"
	"github.com/mcoot/rinkbook/internal/factory"
	redisstorage "github.com/mcoot/rinkbook/internal/storage/redis"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds every server setting
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"5000"`

	StorageType  string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL"`
	RedisGameTTL time.Duration `env:"REDIS_GAME_TTL" envDefault:"0s"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"rinkbook.db"`
	DatabaseURL  string        `env:"DATABASE_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads the given .env files (default ".env") underneath the process
// environment and parses the result. Missing files are skipped; variables
// already set in the process win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	vars := make(map[string]string)
	for _, f := range files {
		fileVars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range fileVars {
			if _, seen := vars[k]; !seen {
				vars[k] = v
			}
		}
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}

	return Parse(vars)
}

// Parse builds a Config from vars alone
func Parse(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case factory.StorageTypeSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite")
		}
	case factory.StorageTypePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}

	if c.RedisGameTTL < 0 {
		return errors.New("REDIS_GAME_TTL must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatText, c.LogFormat)
	}
	return nil
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error)
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the server logger writing to w
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Factory converts the settings into application factory config
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:         logger,
		StorageType:    c.StorageType,
		MetricsEnabled: c.MetricsEnabled,
	}

	switch c.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.GameTTL = c.RedisGameTTL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		cfg.DSN = c.SQLitePath
	case factory.StorageTypePostgres:
		cfg.DSN = c.DatabaseURL
	}
	return cfg
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	sc := api.DefaultServerConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	return sc
}
