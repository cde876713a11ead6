package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/johnpc/fit-cli/internal/model"
)

// DefaultQuickAddIcon replaces icons that do not start with an emoji.
const DefaultQuickAddIcon = "🍽️"

type QuickAddInput struct {
	ID       string
	Name     string
	Calories int
	Protein  *int
	Icon     string
}

// DefaultQuickAdds are offered until the user saves presets of their own.
var DefaultQuickAdds = []model.QuickAdd{
	{ID: "default-xs", Name: "XS", Calories: 100, Icon: "🍬"},
	{ID: "default-s", Name: "S", Calories: 250, Icon: "🍎"},
	{ID: "default-m", Name: "M", Calories: 500, Icon: "🥪"},
	{ID: "default-l", Name: "L", Calories: 800, Icon: "🍔"},
	{ID: "default-xl", Name: "XL", Calories: 1200, Icon: "🍕"},
}

// NormalizeIcon keeps icons whose first rune is an emoji and substitutes the
// default otherwise.
func NormalizeIcon(icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return DefaultQuickAddIcon
	}
	r, _ := utf8.DecodeRuneInString(icon)
	if !isEmojiRune(r) {
		return DefaultQuickAddIcon
	}
	return icon
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r == 0x00A9 || r == 0x00AE || r == 0x203C || r == 0x2049 || r == 0x2122 || r == 0x2139:
		return true
	}
	return false
}

func validateQuickAdd(in QuickAddInput) (QuickAddInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, invalidf("quick add name is required")
	}
	if err := validateNonNegativeInt("calories", in.Calories); err != nil {
		return in, err
	}
	if err := validateOptionalInt("protein", in.Protein); err != nil {
		return in, err
	}
	in.Icon = NormalizeIcon(in.Icon)
	return in, nil
}

func CreateQuickAdd(ctx context.Context, db *sqlx.DB, in QuickAddInput) (string, error) {
	in, err := validateQuickAdd(in)
	if err != nil {
		return "", err
	}
	id := newID()
	now := nowUTC()
	_, err = db.ExecContext(ctx, `
INSERT INTO quick_adds(id, name, calories, protein, icon, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, in.Name, in.Calories, in.Protein, in.Icon, now, now)
	if err != nil {
		return "", fmt.Errorf("insert quick add: %w", err)
	}
	return id, nil
}

func ListQuickAdds(ctx context.Context, db *sqlx.DB) ([]model.QuickAdd, error) {
	items := make([]model.QuickAdd, 0)
	if err := db.SelectContext(ctx, &items, `
SELECT id, name, calories, protein, icon, created_at, updated_at
FROM quick_adds
ORDER BY created_at ASC, id ASC
`); err != nil {
		return nil, fmt.Errorf("list quick adds: %w", err)
	}
	return items, nil
}

// EffectiveQuickAdds returns the user's presets, or the defaults when there
// are none.
func EffectiveQuickAdds(ctx context.Context, db *sqlx.DB) ([]model.QuickAdd, error) {
	items, err := ListQuickAdds(ctx, db)
	if err != nil {
		return nil, err
	}
	return effectiveQuickAdds(items), nil
}

func effectiveQuickAdds(items []model.QuickAdd) []model.QuickAdd {
	if len(items) > 0 {
		return items
	}
	out := make([]model.QuickAdd, len(DefaultQuickAdds))
	copy(out, DefaultQuickAdds)
	return out
}

// QuickAddByID resolves user presets first and then the defaults.
func QuickAddByID(ctx context.Context, db *sqlx.DB, id string) (*model.QuickAdd, error) {
	id, err := requireID("quick add", id)
	if err != nil {
		return nil, err
	}
	var q model.QuickAdd
	err = db.GetContext(ctx, &q, `SELECT id, name, calories, protein, icon, created_at, updated_at FROM quick_adds WHERE id = ?`, id)
	if err == nil {
		return &q, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get quick add %s: %w", id, err)
	}
	for _, d := range DefaultQuickAdds {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, notFound("quick add", id)
}

func UpdateQuickAdd(ctx context.Context, db *sqlx.DB, in QuickAddInput) error {
	id, err := requireID("quick add", in.ID)
	if err != nil {
		return err
	}
	in, err = validateQuickAdd(in)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
UPDATE quick_adds
SET name = ?, calories = ?, protein = ?, icon = ?, updated_at = ?
WHERE id = ?
`, in.Name, in.Calories, in.Protein, in.Icon, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("update quick add %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for quick add %s: %w", id, err)
	}
	if affected == 0 {
		return notFound("quick add", id)
	}
	return nil
}

func DeleteQuickAdd(ctx context.Context, db *sqlx.DB, id string) error {
	id, err := requireID("quick add", id)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM quick_adds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quick add %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for quick add %s: %w", id, err)
	}
	if affected == 0 {
		return notFound("quick add", id)
	}
	return nil
}

// UseQuickAdd logs a food entry from a preset for the given day.
func UseQuickAdd(ctx context.Context, db *sqlx.DB, id, day string) (string, error) {
	q, err := QuickAddByID(ctx, db, id)
	if err != nil {
		return "", err
	}
	return CreateFood(ctx, db, CreateFoodInput{
		Name:     q.Name,
		Calories: q.Calories,
		Protein:  q.Protein,
		Day:      day,
	})
}
