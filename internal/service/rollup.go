package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnpc/fit-cli/internal/daybucket"
	"github.com/johnpc/fit-cli/internal/health"
)

// DefaultStreakBatchSize is how many days the streak walk looks up at once.
const DefaultStreakBatchSize = 14

// CaloriesPerPound converts a calorie surplus or deficit to body weight.
const CaloriesPerPound = 3500.0

type DayStats struct {
	Day      string `json:"day"`
	ShortDay string `json:"short_day"`
	Consumed int    `json:"consumed"`
	Burned   int    `json:"burned"`
	Net      int    `json:"net"`
	Tracked  bool   `json:"tracked"`
}

// DayLookup resolves the consumed and burned totals for the day containing
// date.
type DayLookup interface {
	Lookup(ctx context.Context, date time.Time) (DayStats, error)
}

// StoreLookup reads totals from the store. With Fallback set, a tracked day
// that has no cached burn is filled from Health and the cache is written.
// FallbackAlways does the same for every day, logged food or not.
type StoreLookup struct {
	DB             *sqlx.DB
	Health         health.Source
	Days           daybucket.Formatter
	Log            *zap.Logger
	Fallback       bool
	FallbackAlways bool
}

func (l StoreLookup) Lookup(ctx context.Context, date time.Time) (DayStats, error) {
	bucket := l.Days.Format(date)
	consumed, count, err := DayFoodTotal(ctx, l.DB, bucket)
	if err != nil {
		return DayStats{}, err
	}
	cache, err := HealthCacheByDay(ctx, l.DB, bucket)
	if err != nil {
		return DayStats{}, err
	}
	burned := cache.TotalBurned()

	if burned == 0 && (l.FallbackAlways || (l.Fallback && count > 0)) {
		log := l.Log
		if log == nil {
			log = zap.NewNop()
		}
		stats := queryHealth(ctx, l.Health, l.Days, date, log)
		if stats.Active > 0 || stats.Basal > 0 {
			steps := stats.Steps
			if _, err := UpsertHealthCache(ctx, l.DB, HealthCacheInput{
				Day:            bucket,
				ActiveCalories: stats.Active,
				BaseCalories:   stats.Basal,
				Steps:          &steps,
			}); err != nil {
				return DayStats{}, err
			}
			burned = int(stats.Active + stats.Basal)
		}
	}

	return newDayStats(bucket, consumed, burned, count > 0), nil
}

func newDayStats(bucket string, consumed, burned int, tracked bool) DayStats {
	return DayStats{
		Day:      bucket,
		ShortDay: daybucket.ShortDay(bucket),
		Consumed: consumed,
		Burned:   burned,
		Net:      consumed - burned,
		Tracked:  tracked,
	}
}

type WeekResult struct {
	Days    []DayStats `json:"days"`
	Net     int        `json:"net"`
	Tracked int        `json:"tracked"`
}

// Pounds is the week's net expressed in pounds of body weight.
func (w WeekResult) Pounds() float64 {
	return float64(w.Net) / CaloriesPerPound
}

// Week returns the seven days ending on end, oldest first. Only tracked days
// count toward the net.
func Week(ctx context.Context, lookup DayLookup, days daybucket.Formatter, end time.Time) (WeekResult, error) {
	out := WeekResult{Days: make([]DayStats, 7)}
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 7; i++ {
		i := i
		date := days.Shift(end, i-6)
		g.Go(func() error {
			s, err := lookup.Lookup(gctx, date)
			if err != nil {
				return err
			}
			out.Days[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return WeekResult{}, fmt.Errorf("load week: %w", err)
	}
	for _, d := range out.Days {
		if d.Tracked {
			out.Net += d.Net
			out.Tracked++
		}
	}
	return out, nil
}

type StreakResult struct {
	Days int `json:"days"`
	Net  int `json:"net"`
	// Recent holds the streak's days newest first.
	Recent []DayStats `json:"recent,omitempty"`
}

func (s StreakResult) Pounds() float64 {
	return float64(s.Net) / CaloriesPerPound
}

// Streak walks backward from ref and counts consecutive days with at least
// one food entry. Each batch of days is looked up in parallel, then scanned
// in order; the walk ends at the first day with nothing logged.
func Streak(ctx context.Context, lookup DayLookup, days daybucket.Formatter, ref time.Time, batchSize int) (StreakResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultStreakBatchSize
	}
	var out StreakResult
	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return StreakResult{}, err
		}
		batch := make([]DayStats, batchSize)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < batchSize; i++ {
			i := i
			date := days.Shift(ref, -(offset + i))
			g.Go(func() error {
				s, err := lookup.Lookup(gctx, date)
				if err != nil {
					return err
				}
				batch[i] = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return StreakResult{}, fmt.Errorf("load streak days: %w", err)
		}
		for _, s := range batch {
			if !s.Tracked {
				return out, nil
			}
			out.Days++
			out.Net += s.Net
			out.Recent = append(out.Recent, s)
		}
	}
}
