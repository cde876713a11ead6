package mirror

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/daybucket"
)

const (
	KeyTodayConsumed  = "todayConsumed"
	KeyTodayBurned    = "todayBurned"
	KeyWidgetData     = "widgetData"
	KeyWatchConsumed  = "watchConsumed"
	KeyWatchBurned    = "watchBurned"
	KeyWatchRemaining = "watchRemaining"
	KeyWatchQuickAdds = "watchQuickAdds"
)

// WidgetData is the record a home-screen widget renders. It is only valid
// for Day.
type WidgetData struct {
	Burned   int    `json:"burned"`
	Consumed int    `json:"consumed"`
	Day      string `json:"day"`
}

func (w WidgetData) Remaining() int {
	return w.Burned - w.Consumed
}

type WatchQuickAdd struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Icon     string `json:"icon"`
	Protein  int    `json:"protein"`
}

type WatchData struct {
	Consumed  int
	Burned    int
	QuickAdds []WatchQuickAdd
}

// Publisher writes totals for today's day bucket. Writes are best effort:
// a failing mirror is logged and never fails the caller.
type Publisher struct {
	store Store
	days  daybucket.Formatter
	log   *zap.Logger
	now   func() time.Time
	mu    sync.Mutex
}

func NewPublisher(store Store, days daybucket.Formatter, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{store: store, days: days, log: log, now: time.Now}
}

// WithClock overrides the clock used to decide what "today" is.
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

func (p *Publisher) SaveConsumed(ctx context.Context, consumed int) {
	p.save(ctx, KeyTodayConsumed, consumed, func(w *WidgetData) { w.Consumed = consumed })
}

func (p *Publisher) SaveBurned(ctx context.Context, burned int) {
	p.save(ctx, KeyTodayBurned, burned, func(w *WidgetData) { w.Burned = burned })
}

func (p *Publisher) save(ctx context.Context, key string, value int, apply func(*WidgetData)) {
	if p == nil || p.store == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := SetInt(ctx, p.store, key, value); err != nil {
		p.log.Warn("mirror_write_failed", zap.String("key", key), zap.Error(err))
		return
	}

	today := p.days.Format(p.now())
	var w WidgetData
	if err := JSON(ctx, p.store, KeyWidgetData, &w); err != nil && !errors.Is(err, ErrMissing) {
		p.log.Warn("mirror_read_failed", zap.String("key", KeyWidgetData), zap.Error(err))
	}
	if w.Day != today {
		w = WidgetData{Day: today}
	}
	apply(&w)
	if err := SetJSON(ctx, p.store, KeyWidgetData, w); err != nil {
		p.log.Warn("mirror_write_failed", zap.String("key", KeyWidgetData), zap.Error(err))
	}
}

// SaveWatch primes the complication keys.
func (p *Publisher) SaveWatch(ctx context.Context, d WatchData) {
	if p == nil || p.store == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	writes := []struct {
		key   string
		value int
	}{
		{KeyWatchConsumed, d.Consumed},
		{KeyWatchBurned, d.Burned},
		{KeyWatchRemaining, d.Burned - d.Consumed},
	}
	for _, w := range writes {
		if err := SetInt(ctx, p.store, w.key, w.value); err != nil {
			p.log.Warn("mirror_write_failed", zap.String("key", w.key), zap.Error(err))
		}
	}
	if d.QuickAdds != nil {
		if err := SetJSON(ctx, p.store, KeyWatchQuickAdds, d.QuickAdds); err != nil {
			p.log.Warn("mirror_write_failed", zap.String("key", KeyWatchQuickAdds), zap.Error(err))
		}
	}
}

// LoadWidget returns the widget record, or nil when none was written for the
// day containing now.
func LoadWidget(ctx context.Context, s Store, days daybucket.Formatter, now time.Time) (*WidgetData, error) {
	var w WidgetData
	if err := JSON(ctx, s, KeyWidgetData, &w); err != nil {
		if errors.Is(err, ErrMissing) {
			return nil, nil
		}
		return nil, err
	}
	if w.Day != days.Format(now) {
		return nil, nil
	}
	return &w, nil
}

// Widget returns the widget record for the publisher's current day.
func (p *Publisher) Widget(ctx context.Context) (*WidgetData, error) {
	return LoadWidget(ctx, p.store, p.days, p.now())
}
