package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/service"
)

func TestUpsertHealthCacheKeepsOneRowPerDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)

	steps := 4000.0
	first, err := service.UpsertHealthCache(ctx, sqldb, service.HealthCacheInput{Day: "3/7/2026", ActiveCalories: 300.7, BaseCalories: 1700.9, Steps: &steps})
	if err != nil {
		t.Fatalf("insert cache: %v", err)
	}
	second, err := service.UpsertHealthCache(ctx, sqldb, service.HealthCacheInput{Day: "3/7/2026", ActiveCalories: 450, BaseCalories: 1750})
	if err != nil {
		t.Fatalf("update cache: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same cache id, got %s and %s", first, second)
	}

	var rows int
	if err := sqldb.Get(&rows, `SELECT COUNT(1) FROM health_caches WHERE day = ?`, "3/7/2026"); err != nil {
		t.Fatalf("count caches: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 cache row, got %d", rows)
	}

	c, err := service.HealthCacheByDay(ctx, sqldb, "3/7/2026")
	if err != nil {
		t.Fatalf("cache by day: %v", err)
	}
	if c.Burned() != 2200 {
		t.Fatalf("expected burned 2200, got %d", c.Burned())
	}
	if c.StepCount() != 4000 {
		t.Fatalf("expected steps kept at 4000, got %d", c.StepCount())
	}

	missing, err := service.HealthCacheByDay(ctx, sqldb, "3/8/2026")
	if err != nil {
		t.Fatalf("missing cache: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil cache, got %+v", missing)
	}
}

func TestBurnedTruncatesEachComponent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)
	if _, err := service.UpsertHealthCache(ctx, sqldb, service.HealthCacheInput{Day: "3/7/2026", ActiveCalories: 0.9, BaseCalories: 0.9}); err != nil {
		t.Fatalf("insert cache: %v", err)
	}
	c, err := service.HealthCacheByDay(ctx, sqldb, "3/7/2026")
	if err != nil {
		t.Fatalf("cache by day: %v", err)
	}
	if c.Burned() != 0 {
		t.Fatalf("expected 0, got %d", c.Burned())
	}
	if c.TotalBurned() != 1 {
		t.Fatalf("expected the rollup sum to truncate to 1, got %d", c.TotalBurned())
	}
}

func TestSyncHealthCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	days := utcDays()
	day := date(2026, 3, 7)

	t.Run("all zero leaves the store alone", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		c, err := service.SyncHealthCache(ctx, sqldb, health.None, days, day, nil)
		if err != nil {
			t.Fatalf("sync: %v", err)
		}
		if c != nil {
			t.Fatalf("expected no cache, got %+v", c)
		}
	})

	t.Run("source error degrades to zero", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		if _, err := service.UpsertHealthCache(ctx, sqldb, service.HealthCacheInput{Day: "3/7/2026", ActiveCalories: 100, BaseCalories: 1000}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		failing := health.SourceFunc(func(context.Context, time.Time, time.Time) (health.Stats, error) {
			return health.Stats{}, errors.New("permission denied")
		})
		c, err := service.SyncHealthCache(ctx, sqldb, failing, days, day, nil)
		if err != nil {
			t.Fatalf("sync should not fail: %v", err)
		}
		if c == nil || c.Burned() != 1100 {
			t.Fatalf("expected the existing cache, got %+v", c)
		}
	})

	t.Run("writes the day window", func(t *testing.T) {
		t.Parallel()
		sqldb := newTestDB(t)
		var gotStart, gotEnd time.Time
		src := health.SourceFunc(func(_ context.Context, start, end time.Time) (health.Stats, error) {
			gotStart, gotEnd = start, end
			return health.Stats{Active: 500, Basal: 1600, Steps: 9000}, nil
		})
		c, err := service.SyncHealthCache(ctx, sqldb, src, days, day, nil)
		if err != nil {
			t.Fatalf("sync: %v", err)
		}
		if c == nil || c.Burned() != 2100 || c.StepCount() != 9000 {
			t.Fatalf("unexpected cache %+v", c)
		}
		if !gotStart.Equal(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)) || !gotEnd.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected window %s - %s", gotStart, gotEnd)
		}
	})
}
