package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/daybucket"
	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/model"
)

type HealthCacheInput struct {
	Day            string
	ActiveCalories float64
	BaseCalories   float64
	Steps          *float64
	Weight         *float64
}

const healthCacheColumns = `id, active_calories, base_calories, weight, steps, day, created_at, updated_at`

// HealthCacheByDay returns nil when the day has no cache row.
func HealthCacheByDay(ctx context.Context, db *sqlx.DB, day string) (*model.HealthCache, error) {
	var c model.HealthCache
	err := db.GetContext(ctx, &c, `SELECT `+healthCacheColumns+` FROM health_caches WHERE day = ?`, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get health cache for %s: %w", day, err)
	}
	return &c, nil
}

// UpsertHealthCache writes the day's cache, updating the existing row when
// one exists so a day never holds more than one cache.
func UpsertHealthCache(ctx context.Context, db *sqlx.DB, in HealthCacheInput) (string, error) {
	in.Day = strings.TrimSpace(in.Day)
	if in.Day == "" {
		return "", invalidf("day is required")
	}
	if err := validateNonNegativeFloat("active calories", in.ActiveCalories); err != nil {
		return "", err
	}
	if err := validateNonNegativeFloat("base calories", in.BaseCalories); err != nil {
		return "", err
	}
	if in.Steps != nil {
		if err := validateNonNegativeFloat("steps", *in.Steps); err != nil {
			return "", err
		}
	}

	now := nowUTC()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin health cache tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO health_caches(id, active_calories, base_calories, weight, steps, day, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(day) DO UPDATE SET
  active_calories = excluded.active_calories,
  base_calories = excluded.base_calories,
  steps = COALESCE(excluded.steps, health_caches.steps),
  weight = COALESCE(excluded.weight, health_caches.weight),
  updated_at = excluded.updated_at
`, newID(), in.ActiveCalories, in.BaseCalories, in.Weight, in.Steps, in.Day, now, now)
	if err != nil {
		return "", fmt.Errorf("upsert health cache for %s: %w", in.Day, err)
	}
	var id string
	if err := tx.GetContext(ctx, &id, `SELECT id FROM health_caches WHERE day = ?`, in.Day); err != nil {
		return "", fmt.Errorf("resolve health cache id for %s: %w", in.Day, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit health cache for %s: %w", in.Day, err)
	}
	return id, nil
}

// SyncHealthCache pulls the day's totals from src and stores them. A source
// failure or an all-zero result leaves the existing cache untouched, and the
// current cache (possibly nil) is returned.
func SyncHealthCache(ctx context.Context, db *sqlx.DB, src health.Source, days daybucket.Formatter, date time.Time, log *zap.Logger) (*model.HealthCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	day := days.Format(date)
	stats := queryHealth(ctx, src, days, date, log)
	if !stats.IsZero() {
		steps := stats.Steps
		if _, err := UpsertHealthCache(ctx, db, HealthCacheInput{
			Day:            day,
			ActiveCalories: stats.Active,
			BaseCalories:   stats.Basal,
			Steps:          &steps,
		}); err != nil {
			return nil, err
		}
		log.Debug("health_cache_synced", zap.String("day", day), zap.Float64("active", stats.Active), zap.Float64("basal", stats.Basal), zap.Float64("steps", stats.Steps))
	}
	return HealthCacheByDay(ctx, db, day)
}

// queryHealth degrades source errors to zero stats.
func queryHealth(ctx context.Context, src health.Source, days daybucket.Formatter, date time.Time, log *zap.Logger) health.Stats {
	if src == nil {
		return health.Stats{}
	}
	start, end := days.Window(date)
	stats, err := src.DayStats(ctx, start, end)
	if err != nil {
		log.Warn("health_query_failed", zap.String("day", days.Format(date)), zap.Error(err))
		return health.Stats{}
	}
	return stats
}

// ListHealthCaches returns every cache row, newest day first by update time.
func ListHealthCaches(ctx context.Context, db *sqlx.DB) ([]model.HealthCache, error) {
	var caches []model.HealthCache
	if err := db.SelectContext(ctx, &caches, `SELECT `+healthCacheColumns+` FROM health_caches ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("list health caches: %w", err)
	}
	return caches, nil
}
