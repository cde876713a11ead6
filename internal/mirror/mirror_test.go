package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/johnpc/fit-cli/internal/daybucket"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "shared.json")
	s := NewFileStore(path)

	if _, err := s.Bytes(ctx, "missing"); err != ErrMissing {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if err := SetInt(ctx, s, KeyTodayConsumed, 1450); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := SetJSON(ctx, s, "list", []string{"a", "b"}); err != nil {
		t.Fatalf("set json: %v", err)
	}

	reopened := NewFileStore(path)
	v, err := Int(ctx, reopened, KeyTodayConsumed)
	if err != nil {
		t.Fatalf("int: %v", err)
	}
	if v != 1450 {
		t.Fatalf("expected 1450, got %d", v)
	}
	var list []string
	if err := JSON(ctx, reopened, "list", &list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(list) != 2 || list[1] != "b" {
		t.Fatalf("unexpected list %v", list)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away")
	}
}

func TestIntMissingIsZero(t *testing.T) {
	t.Parallel()
	v, err := Int(context.Background(), NewMemoryStore(), KeyWatchBurned)
	if err != nil || v != 0 {
		t.Fatalf("expected 0 and nil, got %d and %v", v, err)
	}
}

func TestPublisherKeepsWidgetConsistent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	days := daybucket.Formatter{Layout: daybucket.DefaultLayout, Location: time.UTC}
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	p := NewPublisher(store, days, nil).WithClock(func() time.Time { return now })

	p.SaveBurned(ctx, 2100)
	p.SaveConsumed(ctx, 1500)

	w, err := LoadWidget(ctx, store, days, now)
	if err != nil {
		t.Fatalf("load widget: %v", err)
	}
	if w == nil {
		t.Fatalf("expected widget data for today")
	}
	if w.Burned != 2100 || w.Consumed != 1500 || w.Remaining() != 600 {
		t.Fatalf("unexpected widget %+v", w)
	}

	// A new day starts from zero instead of carrying yesterday's burn.
	now = now.AddDate(0, 0, 1)
	p.SaveConsumed(ctx, 300)
	w, err = LoadWidget(ctx, store, days, now)
	if err != nil {
		t.Fatalf("load widget: %v", err)
	}
	if w.Burned != 0 || w.Consumed != 300 || w.Day != "3/8/2026" {
		t.Fatalf("unexpected widget after rollover %+v", w)
	}
}

func TestLoadWidgetIgnoresStaleDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	days := daybucket.Formatter{Layout: daybucket.DefaultLayout, Location: time.UTC}
	if err := SetJSON(ctx, store, KeyWidgetData, WidgetData{Burned: 1, Consumed: 2, Day: "1/1/2020"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w, err := LoadWidget(ctx, store, days, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("load widget: %v", err)
	}
	if w != nil {
		t.Fatalf("expected stale widget data to be ignored, got %+v", w)
	}
}

func TestSaveWatchWritesRemaining(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewPublisher(store, daybucket.Default(), nil)
	p.SaveWatch(ctx, WatchData{Consumed: 800, Burned: 2000, QuickAdds: []WatchQuickAdd{{ID: "q1", Name: "Oats", Calories: 300, Icon: "🥣"}}})

	remaining, err := Int(ctx, store, KeyWatchRemaining)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 1200 {
		t.Fatalf("expected 1200 remaining, got %d", remaining)
	}
	var qa []WatchQuickAdd
	if err := JSON(ctx, store, KeyWatchQuickAdds, &qa); err != nil {
		t.Fatalf("quick adds: %v", err)
	}
	if len(qa) != 1 || qa[0].Name != "Oats" {
		t.Fatalf("unexpected quick adds %+v", qa)
	}
}
