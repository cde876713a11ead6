package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	SchemaVersion    int      `json:"schema_version"`
	UnparseableDays  []string `json:"unparseable_days,omitempty"`
	EmptyCaches      int      `json:"empty_caches"`
	MissingCacheDays []string `json:"missing_cache_days,omitempty"`
	FilledCaches     int      `json:"filled_caches,omitempty"`
	RemovedCaches    int      `json:"removed_caches,omitempty"`
	LastHealthSync   string   `json:"last_health_sync,omitempty"`
}

// OK reports whether nothing needs attention.
func (r DoctorReport) OK() bool {
	return len(r.UnparseableDays) == 0 && r.EmptyCaches == 0 && len(r.MissingCacheDays) == 0
}

// CreateBackup writes a consistent copy of the open database with VACUUM INTO
// and records its checksum next to it. Failing to record the backup time is
// logged; the backup itself still stands.
func CreateBackup(ctx context.Context, db *sqlx.DB, outPath string, log *zap.Logger) (BackupInfo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("write backup: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	if err := MarkTime(ctx, db, StateLastBackup, st.ModTime()); err != nil {
		log.Warn("backup_state_failed", zap.String("path", outPath), zap.Error(err))
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies a backup over dbPath. The database must not be open.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	// Stale WAL files from the replaced database would be replayed on open.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s file: %w", suffix, err)
		}
	}
	return copyFile(backupPath, dbPath)
}

func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor checks day buckets against the configured layout and looks for
// caches that carry no data or are missing for tracked days. With fix,
// empty caches are removed and missing ones are filled from the health
// source when it has data.
func RunDoctor(ctx context.Context, d Deps, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := d.DB.GetContext(ctx, &report.SchemaVersion, `SELECT IFNULL(MAX(version), 0) FROM schema_migrations`); err != nil {
		return report, fmt.Errorf("doctor schema check: %w", err)
	}

	var days []string
	if err := d.DB.SelectContext(ctx, &days, `SELECT day FROM foods UNION SELECT day FROM health_caches ORDER BY day`); err != nil {
		return report, fmt.Errorf("doctor day query: %w", err)
	}
	for _, day := range days {
		if _, err := d.Days.Parse(day); err != nil {
			report.UnparseableDays = append(report.UnparseableDays, day)
		}
	}

	if err := d.DB.GetContext(ctx, &report.EmptyCaches, `SELECT COUNT(1) FROM health_caches WHERE active_calories <= 0 AND base_calories <= 0`); err != nil {
		return report, fmt.Errorf("doctor empty cache query: %w", err)
	}
	if err := d.DB.SelectContext(ctx, &report.MissingCacheDays, `
SELECT DISTINCT f.day FROM foods f
LEFT JOIN health_caches c ON c.day = f.day
WHERE c.id IS NULL
ORDER BY f.day
`); err != nil {
		return report, fmt.Errorf("doctor missing cache query: %w", err)
	}
	if last, ok, err := GetState(ctx, d.DB, StateLastHealthSync); err != nil {
		return report, err
	} else if ok {
		report.LastHealthSync = last
	}

	if !fix {
		return report, nil
	}
	res, err := d.DB.ExecContext(ctx, `DELETE FROM health_caches WHERE active_calories <= 0 AND base_calories <= 0`)
	if err != nil {
		return report, fmt.Errorf("doctor fix empty caches: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return report, fmt.Errorf("doctor fix empty caches: read rows affected: %w", err)
	}
	report.RemovedCaches = int(removed)

	lookup := StoreLookup{DB: d.DB, Health: d.Health, Days: d.Days, Log: d.log(), Fallback: true}
	for _, day := range report.MissingCacheDays {
		date, err := d.Days.Parse(day)
		if err != nil {
			d.log().Warn("doctor_skip_day", zap.String("day", day), zap.Error(err))
			continue
		}
		stats, err := lookup.Lookup(ctx, date)
		if err != nil {
			return report, err
		}
		if stats.Burned > 0 {
			report.FilledCaches++
		}
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
