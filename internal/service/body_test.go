package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/johnpc/fit-cli/internal/service"
)

func TestComputeBodyStatus(t *testing.T) {
	t.Parallel()
	s := service.ComputeBodyStatus(180, 70)
	if math.Abs(s.BMI-25.82) > 0.01 {
		t.Fatalf("unexpected bmi %.3f", s.BMI)
	}
	if s.Label != service.Overweight {
		t.Fatalf("expected overweight, got %s", s.Label)
	}
	if math.Abs(s.MaxHealthy-174.25) > 0.01 {
		t.Fatalf("unexpected healthy boundary %.3f", s.MaxHealthy)
	}

	labels := map[float64]service.BMILabel{
		18.4: service.Underweight,
		18.5: service.Healthy,
		24.9: service.Healthy,
		25:   service.Overweight,
		30:   service.Obese,
	}
	for bmi, want := range labels {
		if got := service.LabelForBMI(bmi); got != want {
			t.Fatalf("LabelForBMI(%v) = %s, want %s", bmi, got, want)
		}
	}
}

func TestCurrentBodyStatusUsesLatestSample(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqldb := newTestDB(t)

	s, err := service.CurrentBodyStatus(ctx, sqldb)
	if err != nil {
		t.Fatalf("body status: %v", err)
	}
	if s.WeightLbs != service.DefaultWeightLbs || s.HeightIn != service.DefaultHeightIn || s.WeightRecorded {
		t.Fatalf("expected defaults, got %+v", s)
	}

	for _, w := range []int{200, 190} {
		if _, err := service.AddWeight(ctx, sqldb, w); err != nil {
			t.Fatalf("add weight: %v", err)
		}
	}
	if _, err := service.AddHeight(ctx, sqldb, 72); err != nil {
		t.Fatalf("add height: %v", err)
	}
	if _, err := service.AddWeight(ctx, sqldb, 0); err == nil {
		t.Fatalf("expected weight validation error")
	}

	s, err = service.CurrentBodyStatus(ctx, sqldb)
	if err != nil {
		t.Fatalf("body status: %v", err)
	}
	if s.WeightLbs != 190 || s.HeightIn != 72 || !s.WeightRecorded || !s.HeightRecorded {
		t.Fatalf("unexpected status %+v", s)
	}

	weights, err := service.ListWeights(ctx, sqldb, 0)
	if err != nil {
		t.Fatalf("list weights: %v", err)
	}
	if len(weights) != 2 || weights[0].CurrentWeight != 190 {
		t.Fatalf("expected newest first, got %+v", weights)
	}
}
