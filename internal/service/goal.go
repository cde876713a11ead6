package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

// SetGoal stores the daily diet calorie target. There is one current goal;
// setting it again replaces the value.
func SetGoal(ctx context.Context, db *sqlx.DB, dietCalories int) (model.Goal, error) {
	if err := validateNonNegativeInt("diet calories", dietCalories); err != nil {
		return model.Goal{}, err
	}
	existing, err := CurrentGoal(ctx, db)
	if err != nil {
		return model.Goal{}, err
	}
	now := nowUTC()
	if existing == nil {
		g := model.Goal{ID: newID(), DietCalories: dietCalories, CreatedAt: now, UpdatedAt: now}
		if _, err := db.ExecContext(ctx, `INSERT INTO goals(id, diet_calories, created_at, updated_at) VALUES(?, ?, ?, ?)`, g.ID, g.DietCalories, g.CreatedAt, g.UpdatedAt); err != nil {
			return model.Goal{}, fmt.Errorf("create goal: %w", err)
		}
		return g, nil
	}
	existing.DietCalories = dietCalories
	existing.UpdatedAt = now
	if _, err := db.ExecContext(ctx, `UPDATE goals SET diet_calories = ?, updated_at = ? WHERE id = ?`, dietCalories, now, existing.ID); err != nil {
		return model.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return *existing, nil
}

// CurrentGoal returns nil when no goal has been set.
func CurrentGoal(ctx context.Context, db *sqlx.DB) (*model.Goal, error) {
	var g model.Goal
	err := db.GetContext(ctx, &g, `SELECT id, diet_calories, created_at, updated_at FROM goals ORDER BY updated_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &g, nil
}
