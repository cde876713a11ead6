package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

type PreferencesInput struct {
	HideProtein *bool
	HideSteps   *bool
}

// GetPreferences returns the stored preferences, or the zero value when the
// user has never saved any.
func GetPreferences(ctx context.Context, db *sqlx.DB) (model.Preferences, error) {
	var p model.Preferences
	err := db.GetContext(ctx, &p, `SELECT id, hide_protein, hide_steps, created_at, updated_at FROM preferences ORDER BY created_at ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Preferences{}, nil
	}
	if err != nil {
		return model.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// UpdatePreferences changes only the flags that are set, creating the record
// on first use.
func UpdatePreferences(ctx context.Context, db *sqlx.DB, in PreferencesInput) (model.Preferences, error) {
	current, err := GetPreferences(ctx, db)
	if err != nil {
		return model.Preferences{}, err
	}
	if in.HideProtein != nil {
		current.HideProtein = *in.HideProtein
	}
	if in.HideSteps != nil {
		current.HideSteps = *in.HideSteps
	}
	now := nowUTC()
	if current.ID == "" {
		current.ID = newID()
		current.CreatedAt = now
		current.UpdatedAt = now
		if _, err := db.NamedExecContext(ctx, `
INSERT INTO preferences(id, hide_protein, hide_steps, created_at, updated_at)
VALUES(:id, :hide_protein, :hide_steps, :created_at, :updated_at)
`, current); err != nil {
			return model.Preferences{}, fmt.Errorf("create preferences: %w", err)
		}
		return current, nil
	}
	current.UpdatedAt = now
	if _, err := db.NamedExecContext(ctx, `
UPDATE preferences SET hide_protein = :hide_protein, hide_steps = :hide_steps, updated_at = :updated_at WHERE id = :id
`, current); err != nil {
		return model.Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	return current, nil
}
