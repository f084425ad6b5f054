// Package config loads score engine settings from defaults, an optional TOML
// file, a .env file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the root configuration.
type Config struct {
	Port           string   `toml:"port"`
	DatabaseURL    string   `toml:"database_url"`
	RedisURL       string   `toml:"redis_url"`
	CacheTTL       duration `toml:"cache_ttl"`
	StrengthsPath  string   `toml:"strengths_path"`
	LogLevel       string   `toml:"log_level"`
	HistoryLimit   int      `toml:"history_limit"` // max records returned by the history endpoint
	RequestTimeout duration `toml:"request_timeout"`
}

// duration wraps time.Duration so TOML strings like "30s" decode.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:           "8080",
		CacheTTL:       duration{30 * time.Second},
		LogLevel:       "info",
		HistoryLimit:   500,
		RequestTimeout: duration{30 * time.Second},
	}
}

// Load builds a Config. path may be empty, in which case only defaults and
// the environment apply. A .env file in the working directory is loaded if
// present.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that would make the server unusable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("config: port %q is not a number", c.Port))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("config: history_limit must be positive, got %d", c.HistoryLimit))
	}
	if c.CacheTTL.Duration < 0 {
		errs = append(errs, errors.New("config: cache_ttl must not be negative"))
	}
	if c.RequestTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("config: request_timeout must be positive, got %v", c.RequestTimeout.Duration))
	}
	return errors.Join(errs...)
}

// Level maps LogLevel to a slog level; unknown names mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Timeout is the per-request timeout applied by the router.
func (c *Config) Timeout() time.Duration { return c.RequestTimeout.Duration }

// TTL is the Redis cache entry lifetime.
func (c *Config) TTL() time.Duration { return c.CacheTTL.Duration }

// applyEnvOverrides reports every malformed numeric or duration value.
func applyEnvOverrides(cfg *Config) error {
	setStr(&cfg.Port, "PORT")
	setStr(&cfg.DatabaseURL, "DATABASE_URL")
	setStr(&cfg.RedisURL, "REDIS_URL")
	setStr(&cfg.StrengthsPath, "STRENGTHS_PATH")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	return errors.Join(
		setDuration(&cfg.CacheTTL, "REDIS_CACHE_TTL"),
		setInt(&cfg.HistoryLimit, "HISTORY_LIMIT"),
		setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT"),
	)
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	*dst = n
	return nil
}

func setDuration(dst *duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	dst.Duration = d
	return nil
}
