package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/johnpc/fit-cli/internal/service"
)

func TestNormalizeIcon(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"🥣":      "🥣",
		"☕ hot":   "☕ hot",
		"oats":    service.DefaultQuickAddIcon,
		"":        service.DefaultQuickAddIcon,
		"1🍕":     service.DefaultQuickAddIcon,
		"  🍎  ": "🍎",
	}
	for in, want := range cases {
		if got := service.NormalizeIcon(in); got != want {
			t.Fatalf("NormalizeIcon(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuickAddLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)

	effective, err := service.EffectiveQuickAdds(ctx, sqldb)
	if err != nil {
		t.Fatalf("effective quick adds: %v", err)
	}
	if len(effective) != len(service.DefaultQuickAdds) {
		t.Fatalf("expected defaults when none saved")
	}

	id, err := service.CreateQuickAdd(ctx, sqldb, service.QuickAddInput{Name: "Protein shake", Calories: 160, Protein: intPtr(30), Icon: "shake"})
	if err != nil {
		t.Fatalf("create quick add: %v", err)
	}
	items, err := service.EffectiveQuickAdds(ctx, sqldb)
	if err != nil {
		t.Fatalf("effective quick adds: %v", err)
	}
	if len(items) != 1 || items[0].Icon != service.DefaultQuickAddIcon {
		t.Fatalf("unexpected quick adds %+v", items)
	}

	if err := service.UpdateQuickAdd(ctx, sqldb, service.QuickAddInput{ID: id, Name: "Shake", Calories: 180, Icon: "🥤"}); err != nil {
		t.Fatalf("update quick add: %v", err)
	}
	foodID, err := service.UseQuickAdd(ctx, sqldb, id, "3/7/2026")
	if err != nil {
		t.Fatalf("use quick add: %v", err)
	}
	food, err := service.FoodByID(ctx, sqldb, foodID)
	if err != nil {
		t.Fatalf("food by id: %v", err)
	}
	if food.Calories != 180 || food.DisplayName() != "Shake" {
		t.Fatalf("unexpected food from quick add %+v", food)
	}

	if _, err := service.UseQuickAdd(ctx, sqldb, "default-m", "3/7/2026"); err != nil {
		t.Fatalf("use default quick add: %v", err)
	}

	if err := service.DeleteQuickAdd(ctx, sqldb, id); err != nil {
		t.Fatalf("delete quick add: %v", err)
	}
	if err := service.UpdateQuickAdd(ctx, sqldb, service.QuickAddInput{ID: id, Name: "x", Calories: 1}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.CreateQuickAdd(ctx, sqldb, service.QuickAddInput{Name: " ", Calories: 1}); err == nil {
		t.Fatalf("expected name validation error")
	}
}
