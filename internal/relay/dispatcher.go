package relay

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/mirror"
	"github.com/johnpc/fit-cli/internal/service"
)

type SnapshotFood struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Snapshot is today's state as a device renders it.
type Snapshot struct {
	Consumed  int                    `json:"consumed"`
	Burned    int                    `json:"burned"`
	Foods     []SnapshotFood         `json:"foods"`
	QuickAdds []mirror.WatchQuickAdd `json:"quickAdds"`
}

type Dispatcher struct {
	deps service.Deps
}

func NewDispatcher(deps service.Deps) *Dispatcher {
	return &Dispatcher{deps: deps}
}

func (d *Dispatcher) log() *zap.Logger {
	if d.deps.Log == nil {
		return zap.NewNop()
	}
	return d.deps.Log
}

// Handle applies one raw message and returns the snapshot to send back, or
// nil when the message needs no reply. Malformed messages are logged and
// dropped. Store failures are returned.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (*Snapshot, error) {
	m, err := Decode(raw)
	if err != nil {
		d.log().Warn("relay_message_dropped", zap.Error(err))
		return nil, nil
	}
	return d.Apply(ctx, m)
}

// rejected reports whether err is a message the store refused, such as a
// stale delete or a negative total. Those are dropped; anything else is a
// store failure.
func (d *Dispatcher) rejected(m Message, err error) bool {
	if !errors.Is(err, service.ErrNotFound) && !errors.Is(err, service.ErrInvalid) {
		return false
	}
	d.log().Warn("relay_message_rejected", zap.String("action", string(m.Action)), zap.String("id", m.ID), zap.Error(err))
	return true
}

// Apply performs one decoded message. Messages arrive in no particular
// order, so a delete for a food that is already gone still gets a snapshot.
func (d *Dispatcher) Apply(ctx context.Context, m Message) (*Snapshot, error) {
	day := d.deps.Today()
	switch m.Action {
	case RequestData:
		return d.Snapshot(ctx)
	case AddFood:
		if _, err := service.CreateFood(ctx, d.deps.DB, service.CreateFoodInput{
			Name:     m.Name,
			Calories: m.Calories,
			Protein:  m.Protein,
			Day:      day,
		}); err != nil {
			if d.rejected(m, err) {
				return nil, nil
			}
			return nil, err
		}
		service.PublishToday(ctx, d.deps, day)
		return d.Snapshot(ctx)
	case DeleteFood:
		if err := service.DeleteFood(ctx, d.deps.DB, m.ID); err != nil && !d.rejected(m, err) {
			return nil, err
		}
		service.PublishToday(ctx, d.deps, day)
		return d.Snapshot(ctx)
	case SyncHealthKit:
		steps := m.Steps
		if _, err := service.UpsertHealthCache(ctx, d.deps.DB, service.HealthCacheInput{
			Day:            day,
			ActiveCalories: m.Active,
			BaseCalories:   m.Base,
			Steps:          &steps,
		}); err != nil {
			if d.rejected(m, err) {
				return nil, nil
			}
			return nil, err
		}
		d.deps.Mirror.SaveBurned(ctx, int(m.Active)+int(m.Base))
		return nil, nil
	}
	d.log().Warn("relay_unknown_action", zap.String("action", string(m.Action)))
	return nil, nil
}
