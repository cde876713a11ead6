package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS foods (
  id TEXT PRIMARY KEY,
  name TEXT,
  calories INTEGER NOT NULL CHECK(calories >= 0),
  protein INTEGER CHECK(protein >= 0),
  day TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  photos_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_foods_day ON foods(day);

CREATE TABLE IF NOT EXISTS health_caches (
  id TEXT PRIMARY KEY,
  active_calories REAL NOT NULL DEFAULT 0,
  base_calories REAL NOT NULL DEFAULT 0,
  weight REAL,
  steps REAL,
  day TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_health_caches_day ON health_caches(day);

CREATE TABLE IF NOT EXISTS quick_adds (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  calories INTEGER NOT NULL CHECK(calories >= 0),
  protein INTEGER CHECK(protein >= 0),
  icon TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);
`,
	},
	{
		version: 2,
		name:    "body_samples",
		sql: `
CREATE TABLE IF NOT EXISTS weights (
  id TEXT PRIMARY KEY,
  current_weight INTEGER NOT NULL CHECK(current_weight > 0),
  created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weights_created_at ON weights(created_at);

CREATE TABLE IF NOT EXISTS heights (
  id TEXT PRIMARY KEY,
  current_height INTEGER NOT NULL CHECK(current_height > 0),
  created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_heights_created_at ON heights(created_at);
`,
	},
	{
		version: 3,
		name:    "preferences_and_goals",
		sql: `
CREATE TABLE IF NOT EXISTS preferences (
  id TEXT PRIMARY KEY,
  hide_protein INTEGER NOT NULL DEFAULT 0,
  hide_steps INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
  id TEXT PRIMARY KEY,
  diet_calories INTEGER NOT NULL CHECK(diet_calories >= 0),
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);
`,
	},
	{
		version: 4,
		name:    "health_samples",
		sql: `
CREATE TABLE IF NOT EXISTS health_samples (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK(kind IN ('activeEnergyBurned', 'basalEnergyBurned', 'stepCount')),
  value REAL NOT NULL CHECK(value >= 0),
  start_at DATETIME NOT NULL,
  end_at DATETIME NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  UNIQUE(kind, start_at, end_at, source)
);

CREATE INDEX IF NOT EXISTS idx_health_samples_kind_start ON health_samples(kind, start_at);
`,
	},
	{
		version: 5,
		name:    "health_cache_unique_day",
		sql: `
DELETE FROM health_caches
WHERE rowid NOT IN (
  SELECT rowid FROM (
    SELECT rowid, ROW_NUMBER() OVER (PARTITION BY day ORDER BY updated_at DESC, rowid DESC) AS rn
    FROM health_caches
  ) WHERE rn = 1
);

DROP INDEX IF EXISTS idx_health_caches_day;
CREATE UNIQUE INDEX IF NOT EXISTS idx_health_caches_day_unique ON health_caches(day);
`,
	},
	{
		version: 6,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

// LatestVersion is the schema version after all migrations are applied.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

func ApplyMigrations(db *sqlx.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.Get(&exists, `SELECT 1 FROM schema_migrations WHERE version = ?`, m.version)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}
