package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnpc/fit-cli/internal/daybucket"
	"github.com/johnpc/fit-cli/internal/health"
	"github.com/johnpc/fit-cli/internal/mirror"
	"github.com/johnpc/fit-cli/internal/model"
)

// Deps bundles what the day-level operations need beyond the store.
type Deps struct {
	DB     *sqlx.DB
	Health health.Source
	Days   daybucket.Formatter
	Mirror *mirror.Publisher
	Log    *zap.Logger
	Now    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Today is the bucket for the current day.
func (d Deps) Today() string {
	return d.Days.Format(d.now())
}

func (d Deps) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

type Day struct {
	Day       string             `json:"day"`
	Date      time.Time          `json:"date"`
	Consumed  int                `json:"consumed"`
	Burned    int                `json:"burned"`
	Remaining int                `json:"remaining"`
	Protein   int                `json:"protein"`
	Steps     int                `json:"steps"`
	Cache     *model.HealthCache `json:"cache,omitempty"`
	Foods     []model.Food       `json:"foods"`
	QuickAdds []model.QuickAdd   `json:"quick_adds"`
}

// Remaining is what is left of the day's burn after what was eaten.
func Remaining(burned, consumed int) int {
	return burned - consumed
}

// DaySummary loads a day's foods, cache and presets, refreshes the cache from
// the health source, and publishes today's totals to the mirror.
func DaySummary(ctx context.Context, d Deps, date time.Time) (*Day, error) {
	bucket := d.Days.Format(date)

	var (
		foods     []model.Food
		cache     *model.HealthCache
		quickAdds []model.QuickAdd
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		foods, err = ListFoodByDay(gctx, d.DB, bucket)
		return err
	})
	g.Go(func() error {
		var err error
		cache, err = HealthCacheByDay(gctx, d.DB, bucket)
		return err
	})
	g.Go(func() error {
		var err error
		quickAdds, err = EffectiveQuickAdds(gctx, d.DB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	synced, err := SyncHealthCache(ctx, d.DB, d.Health, d.Days, date, d.log())
	if err != nil {
		return nil, err
	}
	if synced != nil {
		cache = synced
	}

	consumed, protein := sumFoods(foods)
	burned := cache.Burned()
	out := &Day{
		Day:       bucket,
		Date:      d.Days.StartOfDay(date),
		Consumed:  consumed,
		Burned:    burned,
		Remaining: Remaining(burned, consumed),
		Protein:   protein,
		Steps:     cache.StepCount(),
		Cache:     cache,
		Foods:     foods,
		QuickAdds: quickAdds,
	}
	if d.Days.IsToday(bucket, d.now()) {
		d.Mirror.SaveConsumed(ctx, consumed)
		d.Mirror.SaveBurned(ctx, burned)
	}
	return out, nil
}

// PublishToday recomputes today's consumed total after a food change and
// hands it to the mirror. Changes to other days are not published.
func PublishToday(ctx context.Context, d Deps, day string) {
	if d.Mirror == nil || !d.Days.IsToday(day, d.now()) {
		return
	}
	total, _, err := DayFoodTotal(ctx, d.DB, day)
	if err != nil {
		d.log().Warn("mirror_total_failed", zap.String("day", day), zap.Error(err))
		return
	}
	d.Mirror.SaveConsumed(ctx, total)
}
