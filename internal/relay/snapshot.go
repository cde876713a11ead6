package relay

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/johnpc/fit-cli/internal/mirror"
	"github.com/johnpc/fit-cli/internal/model"
	"github.com/johnpc/fit-cli/internal/service"
)

// Snapshot loads today's foods, presets and cache, and primes the watch keys
// in the mirror with the same numbers.
func (d *Dispatcher) Snapshot(ctx context.Context) (*Snapshot, error) {
	day := d.deps.Today()
	var (
		foods     []model.Food
		quickAdds []model.QuickAdd
		cache     *model.HealthCache
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		foods, err = service.ListFoodByDay(gctx, d.deps.DB, day)
		return err
	})
	g.Go(func() error {
		var err error
		quickAdds, err = service.ListQuickAdds(gctx, d.deps.DB)
		return err
	})
	g.Go(func() error {
		var err error
		cache, err = service.HealthCacheByDay(gctx, d.deps.DB, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Snapshot{
		Burned:    cache.Burned(),
		Foods:     make([]SnapshotFood, 0, len(foods)),
		QuickAdds: make([]mirror.WatchQuickAdd, 0, len(quickAdds)),
	}
	for _, f := range foods {
		out.Consumed += f.Calories
		out.Foods = append(out.Foods, SnapshotFood{ID: f.ID, Name: f.DisplayName(), Calories: f.Calories})
	}
	for _, q := range quickAdds {
		protein := 0
		if q.Protein != nil {
			protein = *q.Protein
		}
		out.QuickAdds = append(out.QuickAdds, mirror.WatchQuickAdd{
			ID:       q.ID,
			Name:     q.Name,
			Calories: q.Calories,
			Icon:     q.Icon,
			Protein:  protein,
		})
	}

	d.deps.Mirror.SaveWatch(ctx, mirror.WatchData{
		Consumed:  out.Consumed,
		Burned:    out.Burned,
		QuickAdds: out.QuickAdds,
	})
	return out, nil
}
