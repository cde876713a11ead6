package model

import "time"

// Food is a single logged food entry. Day is the day-bucket string the entry
// is grouped under, not a calendar date.
type Food struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Calories  int       `db:"calories" json:"calories"`
	Protein   *int      `db:"protein" json:"protein,omitempty"`
	Day       string    `db:"day" json:"day"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	Photos    []string  `db:"-" json:"photos,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName falls back to "Food" for unnamed entries.
func (f Food) DisplayName() string {
	if f.Name == nil || *f.Name == "" {
		return "Food"
	}
	return *f.Name
}

// HealthCache is the per-day snapshot of energy and step totals pulled from
// the health source.
type HealthCache struct {
	ID             string    `db:"id" json:"id"`
	ActiveCalories float64   `db:"active_calories" json:"active_calories"`
	BaseCalories   float64   `db:"base_calories" json:"base_calories"`
	Weight         *float64  `db:"weight" json:"weight,omitempty"`
	Steps          *float64  `db:"steps" json:"steps,omitempty"`
	Day            string    `db:"day" json:"day"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Burned truncates each component before summing. The day view and the
// widget use it.
func (c *HealthCache) Burned() int {
	if c == nil {
		return 0
	}
	return int(c.ActiveCalories) + int(c.BaseCalories)
}

// TotalBurned truncates the sum. Week and streak rollups use it.
func (c *HealthCache) TotalBurned() int {
	if c == nil {
		return 0
	}
	return int(c.ActiveCalories + c.BaseCalories)
}

func (c *HealthCache) StepCount() int {
	if c == nil || c.Steps == nil {
		return 0
	}
	return int(*c.Steps)
}

type QuickAdd struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Calories  int       `db:"calories" json:"calories"`
	Protein   *int      `db:"protein" json:"protein,omitempty"`
	Icon      string    `db:"icon" json:"icon"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WeightSample is a body-weight reading in pounds.
type WeightSample struct {
	ID            string    `db:"id" json:"id"`
	CurrentWeight int       `db:"current_weight" json:"current_weight"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HeightSample is a body-height reading in inches.
type HeightSample struct {
	ID            string    `db:"id" json:"id"`
	CurrentHeight int       `db:"current_height" json:"current_height"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Preferences struct {
	ID          string    `db:"id" json:"id"`
	HideProtein bool      `db:"hide_protein" json:"hide_protein"`
	HideSteps   bool      `db:"hide_steps" json:"hide_steps"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Goal struct {
	ID           string    `db:"id" json:"id"`
	DietCalories int       `db:"diet_calories" json:"diet_calories"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HealthSample is one raw reading imported from a health export.
type HealthSample struct {
	ID      string    `db:"id" json:"id"`
	Kind    string    `db:"kind" json:"kind"`
	Value   float64   `db:"value" json:"value"`
	StartAt time.Time `db:"start_at" json:"start_at"`
	EndAt   time.Time `db:"end_at" json:"end_at"`
	Source  string    `db:"source" json:"source"`
}
