package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

const (
	DefaultWeightLbs = 180
	DefaultHeightIn  = 70
)

type BMILabel string

const (
	Underweight BMILabel = "underweight"
	Healthy     BMILabel = "healthy"
	Overweight  BMILabel = "overweight"
	Obese       BMILabel = "obese"
)

// BodyStatus is the latest weight and height with the derived BMI. Max*
// fields are the heaviest weight, in pounds, that stays inside each band at
// the current height.
type BodyStatus struct {
	WeightLbs      int      `json:"weight_lbs"`
	HeightIn       int      `json:"height_in"`
	WeightRecorded bool     `json:"weight_recorded"`
	HeightRecorded bool     `json:"height_recorded"`
	BMI            float64  `json:"bmi"`
	Label          BMILabel `json:"label"`
	MaxUnderweight float64  `json:"max_underweight_lbs"`
	MaxHealthy     float64  `json:"max_healthy_lbs"`
	MaxOverweight  float64  `json:"max_overweight_lbs"`
}

func AddWeight(ctx context.Context, db *sqlx.DB, lbs int) (string, error) {
	if lbs <= 0 {
		return "", invalidf("weight must be > 0")
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `INSERT INTO weights(id, current_weight, created_at) VALUES(?, ?, ?)`, id, lbs, nowUTC()); err != nil {
		return "", fmt.Errorf("insert weight: %w", err)
	}
	return id, nil
}

func AddHeight(ctx context.Context, db *sqlx.DB, inches int) (string, error) {
	if inches <= 0 {
		return "", invalidf("height must be > 0")
	}
	id := newID()
	if _, err := db.ExecContext(ctx, `INSERT INTO heights(id, current_height, created_at) VALUES(?, ?, ?)`, id, inches, nowUTC()); err != nil {
		return "", fmt.Errorf("insert height: %w", err)
	}
	return id, nil
}

// ListWeights returns samples newest first. A limit <= 0 returns all.
func ListWeights(ctx context.Context, db *sqlx.DB, limit int) ([]model.WeightSample, error) {
	if limit <= 0 {
		limit = -1
	}
	out := make([]model.WeightSample, 0)
	if err := db.SelectContext(ctx, &out, `SELECT id, current_weight, created_at FROM weights ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	return out, nil
}

func ListHeights(ctx context.Context, db *sqlx.DB, limit int) ([]model.HeightSample, error) {
	if limit <= 0 {
		limit = -1
	}
	out := make([]model.HeightSample, 0)
	if err := db.SelectContext(ctx, &out, `SELECT id, current_height, created_at FROM heights ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list heights: %w", err)
	}
	return out, nil
}

func CurrentBodyStatus(ctx context.Context, db *sqlx.DB) (BodyStatus, error) {
	weights, err := ListWeights(ctx, db, 1)
	if err != nil {
		return BodyStatus{}, err
	}
	heights, err := ListHeights(ctx, db, 1)
	if err != nil {
		return BodyStatus{}, err
	}
	weight, height := DefaultWeightLbs, DefaultHeightIn
	if len(weights) > 0 {
		weight = weights[0].CurrentWeight
	}
	if len(heights) > 0 {
		height = heights[0].CurrentHeight
	}
	status := ComputeBodyStatus(weight, height)
	status.WeightRecorded = len(weights) > 0
	status.HeightRecorded = len(heights) > 0
	return status, nil
}

// ComputeBodyStatus uses the imperial BMI formula, weight / height^2 * 703.
func ComputeBodyStatus(weightLbs, heightIn int) BodyStatus {
	h2 := float64(heightIn * heightIn)
	s := BodyStatus{WeightLbs: weightLbs, HeightIn: heightIn}
	if h2 == 0 {
		return s
	}
	s.BMI = float64(weightLbs) / h2 * 703
	s.Label = LabelForBMI(s.BMI)
	s.MaxUnderweight = 18.5 / 703 * h2
	s.MaxHealthy = 25.0 / 703 * h2
	s.MaxOverweight = 30.0 / 703 * h2
	return s
}

func LabelForBMI(bmi float64) BMILabel {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Healthy
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}
