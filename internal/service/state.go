package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// State keys kept in app_config. These record what the app did, not user
// settings; user settings live in the YAML config.
const (
	StateLastHealthSync = "last_health_sync"
	StateLastBackup     = "last_backup"
)

func SetState(ctx context.Context, db *sqlx.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("state key is required")
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value), nowUTC())
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

func GetState(ctx context.Context, db *sqlx.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("state key is required")
	}
	var value string
	err := db.GetContext(ctx, &value, `SELECT value FROM app_config WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get state %q: %w", key, err)
	}
	return value, true, nil
}

func ListState(ctx context.Context, db *sqlx.DB) (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.SelectContext(ctx, &rows, `SELECT key, value FROM app_config ORDER BY key ASC`); err != nil {
		return nil, fmt.Errorf("list state: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func MarkTime(ctx context.Context, db *sqlx.DB, key string, t time.Time) error {
	return SetState(ctx, db, key, t.UTC().Format(time.RFC3339))
}
