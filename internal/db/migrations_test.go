package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/johnpc/fit-cli/internal/db"
)

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "fit.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	var migrationCount int
	if err := sqldb.Get(&migrationCount, `SELECT COUNT(1) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != db.LatestVersion() {
		t.Fatalf("expected %d migration versions, got %d", db.LatestVersion(), migrationCount)
	}

	for _, table := range []string{"foods", "health_caches", "quick_adds", "weights", "heights", "preferences", "goals", "health_samples", "app_config"} {
		var n int
		if err := sqldb.Get(&n, `SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	var uniqueDayIndex int
	if err := sqldb.Get(&uniqueDayIndex, `SELECT COUNT(1) FROM sqlite_master WHERE type = 'index' AND name = 'idx_health_caches_day_unique'`); err != nil {
		t.Fatalf("check unique day index: %v", err)
	}
	if uniqueDayIndex != 1 {
		t.Fatalf("expected idx_health_caches_day_unique index to exist")
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestHealthCacheDayIsUnique(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "fit.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	insert := `INSERT INTO health_caches(id, active_calories, base_calories, day, created_at, updated_at) VALUES(?, 1, 1, '3/7/2026', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	if _, err := sqldb.Exec(insert, "a"); err != nil {
		t.Fatalf("insert first cache: %v", err)
	}
	if _, err := sqldb.Exec(insert, "b"); err == nil {
		t.Fatalf("expected duplicate day insert to fail")
	}
}
