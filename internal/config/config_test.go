package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DayFormat != DefaultDayFormat {
		t.Fatalf("expected default day format, got %q", cfg.DayFormat)
	}
	if cfg.Streak.BatchSize != DefaultStreakBatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.Streak.BatchSize)
	}
	if cfg.Mirror.Backend != "file" || cfg.Health.SyncInterval != DefaultSyncInterval {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSetPersistsAndKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := Set(path, "log.file", "/tmp/fit.log"); err != nil {
		t.Fatalf("set log.file: %v", err)
	}
	if err := Set(path, "health.sync_interval", "30m"); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if err := Set(path, "streak.batch_size", "7"); err != nil {
		t.Fatalf("set batch size: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.File != "/tmp/fit.log" {
		t.Fatalf("expected log file kept, got %q", cfg.Log.File)
	}
	if cfg.Health.SyncInterval != 30*time.Minute {
		t.Fatalf("expected 30m interval, got %s", cfg.Health.SyncInterval)
	}
	if cfg.Streak.BatchSize != 7 {
		t.Fatalf("expected batch size 7, got %d", cfg.Streak.BatchSize)
	}
}

func TestSetRejectsUnknownAndInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Set(path, "nope", "1"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
	if err := Set(path, "mirror.backend", "s3"); err == nil {
		t.Fatalf("expected invalid backend to fail")
	}
	if err := Set(path, "streak.batch_size", "0"); err == nil {
		t.Fatalf("expected zero batch size to fail")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Set(path, "day_format", "2006-01-02"); err != nil {
		t.Fatalf("set: %v", err)
	}
	t.Setenv("FIT_DAY_FORMAT", "01/02/2006")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DayFormat != "01/02/2006" {
		t.Fatalf("expected env override, got %q", cfg.DayFormat)
	}
}

func TestValidateRejectsAmbiguousDayFormats(t *testing.T) {
	for _, layout := range []string{"Jan 2006", "2006", "Monday", "1/2/2006 15:04"} {
		cfg := Default()
		cfg.DayFormat = layout
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected day_format %q to be rejected", layout)
		}
	}
	for _, layout := range []string{DefaultDayFormat, "2006-01-02", "02 Jan 06"} {
		cfg := Default()
		cfg.DayFormat = layout
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected day_format %q to be accepted: %v", layout, err)
		}
	}
	if err := Set(filepath.Join(t.TempDir(), "config.yaml"), "day_format", "Jan 2006"); err == nil {
		t.Fatalf("expected Set to refuse a month-only day_format")
	}
}
