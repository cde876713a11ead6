// Package health reads daily energy and step totals from imported health
// samples.
package health

import (
	"context"
	"time"
)

type Kind string

const (
	ActiveEnergy Kind = "activeEnergyBurned"
	BasalEnergy  Kind = "basalEnergyBurned"
	StepCount    Kind = "stepCount"
)

func (k Kind) Valid() bool {
	switch k {
	case ActiveEnergy, BasalEnergy, StepCount:
		return true
	}
	return false
}

// Stats are cumulative sums for one window. Energy is in kilocalories.
type Stats struct {
	Active float64 `json:"active"`
	Basal  float64 `json:"basal"`
	Steps  float64 `json:"steps"`
}

// IsZero reports whether the source had nothing for the window.
func (s Stats) IsZero() bool {
	return s.Active <= 0 && s.Basal <= 0 && s.Steps <= 0
}

// Source answers cumulative-sum queries over [start, end).
type Source interface {
	DayStats(ctx context.Context, start, end time.Time) (Stats, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, start, end time.Time) (Stats, error)

func (f SourceFunc) DayStats(ctx context.Context, start, end time.Time) (Stats, error) {
	return f(ctx, start, end)
}

// None is a Source with no data.
var None Source = SourceFunc(func(context.Context, time.Time, time.Time) (Stats, error) {
	return Stats{}, nil
})
