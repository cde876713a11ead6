package service_test

import (
	"context"
	"testing"

	"github.com/johnpc/fit-cli/internal/service"
)

func TestPreferencesCreateThenUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)

	p, err := service.GetPreferences(ctx, sqldb)
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if p.ID != "" || p.HideProtein || p.HideSteps {
		t.Fatalf("expected zero preferences, got %+v", p)
	}

	yes, no := true, false
	created, err := service.UpdatePreferences(ctx, sqldb, service.PreferencesInput{HideProtein: &yes})
	if err != nil {
		t.Fatalf("create preferences: %v", err)
	}
	updated, err := service.UpdatePreferences(ctx, sqldb, service.PreferencesInput{HideSteps: &yes, HideProtein: &no})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if created.ID != updated.ID {
		t.Fatalf("expected the same record to be updated")
	}

	var rows int
	if err := sqldb.Get(&rows, `SELECT COUNT(1) FROM preferences`); err != nil {
		t.Fatalf("count preferences: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one preferences row, got %d", rows)
	}
	p, err = service.GetPreferences(ctx, sqldb)
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if p.HideProtein || !p.HideSteps {
		t.Fatalf("unexpected preferences %+v", p)
	}
}

func TestGoalReplacesValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)

	g, err := service.CurrentGoal(ctx, sqldb)
	if err != nil || g != nil {
		t.Fatalf("expected no goal, got %+v (%v)", g, err)
	}
	if _, err := service.SetGoal(ctx, sqldb, 1800); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if _, err := service.SetGoal(ctx, sqldb, 1650); err != nil {
		t.Fatalf("replace goal: %v", err)
	}
	if _, err := service.SetGoal(ctx, sqldb, -1); err == nil {
		t.Fatalf("expected validation error")
	}
	g, err = service.CurrentGoal(ctx, sqldb)
	if err != nil {
		t.Fatalf("current goal: %v", err)
	}
	if g.DietCalories != 1650 {
		t.Fatalf("expected 1650, got %d", g.DietCalories)
	}
}
