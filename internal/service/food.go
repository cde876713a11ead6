package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

type CreateFoodInput struct {
	Name     string
	Calories int
	Protein  *int
	Day      string
	Notes    string
	Photos   []string
}

type UpdateFoodInput struct {
	ID       string
	Name     string
	Calories int
	Protein  *int
	Day      string
	Notes    string
}

type foodRow struct {
	model.Food
	PhotosJSON string `db:"photos_json"`
}

func (r foodRow) toModel() (model.Food, error) {
	f := r.Food
	if r.PhotosJSON != "" {
		if err := json.Unmarshal([]byte(r.PhotosJSON), &f.Photos); err != nil {
			return model.Food{}, fmt.Errorf("decode photos for food %s: %w", f.ID, err)
		}
	}
	return f, nil
}

const foodColumns = `id, name, calories, protein, day, notes, photos_json, created_at, updated_at`

func optionalName(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}

func validateFood(calories int, protein *int, day string) error {
	if err := validateNonNegativeInt("calories", calories); err != nil {
		return err
	}
	if err := validateOptionalInt("protein", protein); err != nil {
		return err
	}
	if strings.TrimSpace(day) == "" {
		return invalidf("day is required")
	}
	return nil
}

func encodePhotos(photos []string) (string, error) {
	clean := make([]string, 0, len(photos))
	for _, p := range photos {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		return "", nil
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encode photos: %w", err)
	}
	return string(b), nil
}

func CreateFood(ctx context.Context, db *sqlx.DB, in CreateFoodInput) (string, error) {
	if err := validateFood(in.Calories, in.Protein, in.Day); err != nil {
		return "", err
	}
	photos, err := encodePhotos(in.Photos)
	if err != nil {
		return "", err
	}
	id := newID()
	now := nowUTC()
	_, err = db.ExecContext(ctx, `
INSERT INTO foods(id, name, calories, protein, day, notes, photos_json, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, id, optionalName(in.Name), in.Calories, in.Protein, strings.TrimSpace(in.Day), strings.TrimSpace(in.Notes), photos, now, now)
	if err != nil {
		return "", fmt.Errorf("insert food: %w", err)
	}
	return id, nil
}

// ListFoodByDay returns the entries for one day bucket in the order they were
// logged.
func ListFoodByDay(ctx context.Context, db *sqlx.DB, day string) ([]model.Food, error) {
	var rows []foodRow
	err := db.SelectContext(ctx, &rows, `SELECT `+foodColumns+` FROM foods WHERE day = ? ORDER BY created_at ASC, id ASC`, day)
	if err != nil {
		return nil, fmt.Errorf("list foods for %s: %w", day, err)
	}
	foods := make([]model.Food, 0, len(rows))
	for _, r := range rows {
		f, err := r.toModel()
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, nil
}

func FoodByID(ctx context.Context, db *sqlx.DB, id string) (*model.Food, error) {
	id, err := requireID("food", id)
	if err != nil {
		return nil, err
	}
	var r foodRow
	if err := db.GetContext(ctx, &r, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("food", id)
		}
		return nil, fmt.Errorf("get food %s: %w", id, err)
	}
	f, err := r.toModel()
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func UpdateFood(ctx context.Context, db *sqlx.DB, in UpdateFoodInput) error {
	id, err := requireID("food", in.ID)
	if err != nil {
		return err
	}
	if err := validateFood(in.Calories, in.Protein, in.Day); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
UPDATE foods
SET name = ?, calories = ?, protein = ?, day = ?, notes = ?, updated_at = ?
WHERE id = ?
`, optionalName(in.Name), in.Calories, in.Protein, strings.TrimSpace(in.Day), strings.TrimSpace(in.Notes), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("update food %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for food %s: %w", id, err)
	}
	if affected == 0 {
		return notFound("food", id)
	}
	return nil
}

func DeleteFood(ctx context.Context, db *sqlx.DB, id string) error {
	id, err := requireID("food", id)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete food %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for food %s: %w", id, err)
	}
	if affected == 0 {
		return notFound("food", id)
	}
	return nil
}

// DayFoodTotal returns the summed calories and the number of entries for a
// day bucket.
func DayFoodTotal(ctx context.Context, db *sqlx.DB, day string) (int, int, error) {
	var out struct {
		Total int `db:"total"`
		Count int `db:"count"`
	}
	if err := db.GetContext(ctx, &out, `SELECT IFNULL(SUM(calories), 0) AS total, COUNT(*) AS count FROM foods WHERE day = ?`, day); err != nil {
		return 0, 0, fmt.Errorf("sum foods for %s: %w", day, err)
	}
	return out.Total, out.Count, nil
}

// ListFoodDays returns every distinct day bucket that has food entries.
func ListFoodDays(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var days []string
	if err := db.SelectContext(ctx, &days, `SELECT DISTINCT day FROM foods ORDER BY day`); err != nil {
		return nil, fmt.Errorf("list food days: %w", err)
	}
	return days, nil
}

func sumFoods(foods []model.Food) (calories, protein int) {
	for _, f := range foods {
		calories += f.Calories
		if f.Protein != nil {
			protein += *f.Protein
		}
	}
	return calories, protein
}
