package health

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

// SampleStore keeps raw samples in SQLite and sums them per window, the way a
// statistics query with a cumulative-sum option would.
type SampleStore struct {
	db *sqlx.DB
}

func NewSampleStore(db *sqlx.DB) *SampleStore {
	return &SampleStore{db: db}
}

// DayStats sums every sample whose start falls inside [start, end).
func (s *SampleStore) DayStats(ctx context.Context, start, end time.Time) (Stats, error) {
	if !start.Before(end) {
		return Stats{}, fmt.Errorf("health window start must be before end")
	}
	var rows []struct {
		Kind  string  `db:"kind"`
		Total float64 `db:"total"`
	}
	err := s.db.SelectContext(ctx, &rows, `
SELECT kind, IFNULL(SUM(value), 0) AS total
FROM health_samples
WHERE start_at >= ? AND start_at < ?
GROUP BY kind
`, start.UTC(), end.UTC())
	if err != nil {
		return Stats{}, fmt.Errorf("sum health samples: %w", err)
	}

	var out Stats
	for _, r := range rows {
		switch Kind(r.Kind) {
		case ActiveEnergy:
			out.Active = r.Total
		case BasalEnergy:
			out.Basal = r.Total
		case StepCount:
			out.Steps = r.Total
		}
	}
	return out, nil
}

// Add stores samples, skipping exact duplicates of an earlier import.
// It returns how many rows were new.
func (s *SampleStore) Add(ctx context.Context, samples []model.HealthSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sample import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
INSERT OR IGNORE INTO health_samples(id, kind, value, start_at, end_at, source)
VALUES(?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i, sm := range samples {
		if !Kind(sm.Kind).Valid() {
			return 0, fmt.Errorf("sample %d: unsupported kind %q", i, sm.Kind)
		}
		if sm.Value < 0 {
			return 0, fmt.Errorf("sample %d: value must be >= 0", i)
		}
		if sm.StartAt.IsZero() {
			return 0, fmt.Errorf("sample %d: start time is required", i)
		}
		if sm.EndAt.IsZero() {
			sm.EndAt = sm.StartAt
		}
		if sm.EndAt.Before(sm.StartAt) {
			return 0, fmt.Errorf("sample %d: end is before start", i)
		}
		if sm.ID == "" {
			sm.ID = uuid.NewString()
		}
		res, err := stmt.ExecContext(ctx, sm.ID, sm.Kind, sm.Value, sm.StartAt.UTC(), sm.EndAt.UTC(), sm.Source)
		if err != nil {
			return 0, fmt.Errorf("insert sample %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("read rows affected: %w", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sample import: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored samples per kind.
func (s *SampleStore) Count(ctx context.Context) (map[Kind]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT kind, COUNT(1) AS n FROM health_samples GROUP BY kind`); err != nil {
		return nil, fmt.Errorf("count health samples: %w", err)
	}
	out := make(map[Kind]int, len(rows))
	for _, r := range rows {
		out[Kind(r.Kind)] = r.Count
	}
	return out, nil
}
