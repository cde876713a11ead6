package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StreakConfig tunes the backward streak walk.
type StreakConfig struct {
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig controls the rotating JSON log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// MirrorConfig selects where widget/complication totals are handed off.
type MirrorConfig struct {
	// Backend is "file" or "redis".
	Backend   string `mapstructure:"backend" yaml:"backend"`
	Path      string `mapstructure:"path" yaml:"path"`
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`
}

// HealthConfig controls background health syncing.
type HealthConfig struct {
	SyncInterval time.Duration `mapstructure:"sync_interval" yaml:"sync_interval"`
}

// ServerConfig holds settings for `fit serve`.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr" yaml:"addr"`
	JWTSecret string  `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath    string       `mapstructure:"db_path" yaml:"db_path"`
	DayFormat string       `mapstructure:"day_format" yaml:"day_format"`
	Streak    StreakConfig `mapstructure:"streak" yaml:"streak"`
	Log       LogConfig    `mapstructure:"log" yaml:"log"`
	Mirror    MirrorConfig `mapstructure:"mirror" yaml:"mirror"`
	Health    HealthConfig `mapstructure:"health" yaml:"health"`
	Server    ServerConfig `mapstructure:"server" yaml:"server"`
}

const (
	DefaultDayFormat       = "1/2/2006"
	DefaultStreakBatchSize = 14
	DefaultSyncInterval    = 15 * time.Minute
	DefaultServerAddr      = "127.0.0.1:8787"
	DefaultRateLimit       = 10
)

var defaults = map[string]any{
	"day_format":           DefaultDayFormat,
	"streak.batch_size":    DefaultStreakBatchSize,
	"log.level":            "info",
	"mirror.backend":       "file",
	"mirror.redis_addr":    "localhost:6379",
	"health.sync_interval": DefaultSyncInterval,
	"server.addr":          DefaultServerAddr,
	"server.rate_limit":    DefaultRateLimit,
}

// Default returns the configuration used when no file exists.
func Default() *AppConfig {
	return &AppConfig{
		DayFormat: DefaultDayFormat,
		Streak:    StreakConfig{BatchSize: DefaultStreakBatchSize},
		Log:       LogConfig{Level: "info"},
		Mirror:    MirrorConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Health:    HealthConfig{SyncInterval: DefaultSyncInterval},
		Server:    ServerConfig{Addr: DefaultServerAddr, RateLimit: DefaultRateLimit},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads configuration from the YAML file at path. A missing file yields
// defaults. FIT_* environment variables (optionally from a .env file in the
// working directory) override file values.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.DayFormat) == "" {
		return fmt.Errorf("day_format must not be empty")
	}
	if err := checkDayFormat(c.DayFormat); err != nil {
		return err
	}
	if c.Streak.BatchSize <= 0 {
		return fmt.Errorf("streak.batch_size must be > 0")
	}
	switch c.Mirror.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("mirror.backend must be file or redis, got %q", c.Mirror.Backend)
	}
	if c.Health.SyncInterval <= 0 {
		return fmt.Errorf("health.sync_interval must be > 0")
	}
	return nil
}

// checkDayFormat rejects layouts that would put two days of a year in one
// bucket, or split one day across buckets.
func checkDayFormat(layout string) error {
	seen := make(map[string]time.Time, 366)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		bucket := day.Format(layout)
		if late := day.Add(23*time.Hour + 59*time.Minute).Format(layout); late != bucket {
			return fmt.Errorf("day_format %q changes within a day (%q vs %q)", layout, bucket, late)
		}
		if prev, ok := seen[bucket]; ok {
			return fmt.Errorf("day_format %q gives %s and %s the same bucket %q", layout, prev.Format("2006-01-02"), day.Format("2006-01-02"), bucket)
		}
		seen[bucket] = day
		day = day.AddDate(0, 0, 1)
	}
	return nil
}

// Set writes a single key into the YAML file at path, keeping the other
// values already in it.
func Set(path, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	if _, ok := defaults[key]; !ok && !knownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	v.Set(key, value)

	candidate := newViper(path)
	for _, k := range v.AllKeys() {
		candidate.Set(k, v.Get(k))
	}
	cfg := Default()
	if err := candidate.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func knownKey(key string) bool {
	switch key {
	case "db_path", "log.file", "mirror.path", "server.jwt_secret":
		return true
	}
	return false
}

