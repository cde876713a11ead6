package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/mirror"
	"github.com/johnpc/fit-cli/internal/service"
)

func TestDaySummaryRemainingAndMirror(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)
	days := utcDays()
	today := date(2026, 3, 7)
	store := mirror.NewMemoryStore()

	for _, cal := range []int{600, 700} {
		if _, err := service.CreateFood(ctx, sqldb, service.CreateFoodInput{Calories: cal, Protein: intPtr(20), Day: "3/7/2026"}); err != nil {
			t.Fatalf("create food: %v", err)
		}
	}
	src := health.SourceFunc(func(context.Context, time.Time, time.Time) (health.Stats, error) {
		return health.Stats{Active: 350.8, Basal: 1650.2, Steps: 7000}, nil
	})
	now := func() time.Time { return today }
	deps := service.Deps{
		DB:     sqldb,
		Health: src,
		Days:   days,
		Mirror: mirror.NewPublisher(store, days, nil).WithClock(now),
		Now:    now,
	}

	got, err := service.DaySummary(ctx, deps, today)
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if got.Consumed != 1300 || got.Burned != 2000 || got.Remaining != 700 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.Remaining != got.Burned-got.Consumed {
		t.Fatalf("remaining must equal burned minus consumed")
	}
	if got.Protein != 40 || got.Steps != 7000 {
		t.Fatalf("unexpected protein/steps %d/%d", got.Protein, got.Steps)
	}
	if len(got.QuickAdds) != len(service.DefaultQuickAdds) {
		t.Fatalf("expected default quick adds, got %d", len(got.QuickAdds))
	}

	consumed, err := mirror.Int(ctx, store, mirror.KeyTodayConsumed)
	if err != nil || consumed != 1300 {
		t.Fatalf("expected mirrored consumed 1300, got %d (%v)", consumed, err)
	}
	burned, err := mirror.Int(ctx, store, mirror.KeyTodayBurned)
	if err != nil || burned != 2000 {
		t.Fatalf("expected mirrored burned 2000, got %d (%v)", burned, err)
	}
}

func TestDaySummaryPastDayDoesNotTouchMirror(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)
	days := utcDays()
	store := mirror.NewMemoryStore()
	now := func() time.Time { return date(2026, 3, 8) }

	if _, err := service.CreateFood(ctx, sqldb, service.CreateFoodInput{Calories: 500, Day: "3/7/2026"}); err != nil {
		t.Fatalf("create food: %v", err)
	}
	deps := service.Deps{DB: sqldb, Health: health.None, Days: days, Mirror: mirror.NewPublisher(store, days, nil).WithClock(now), Now: now}
	got, err := service.DaySummary(ctx, deps, date(2026, 3, 7))
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if got.Burned != 0 || got.Remaining != -500 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if _, err := store.Bytes(ctx, mirror.KeyTodayConsumed); err != mirror.ErrMissing {
		t.Fatalf("expected no mirror write for a past day, got %v", err)
	}
}
