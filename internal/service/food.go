package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/saadjs/mealwise/internal/model"
)

type AddFoodInput struct {
	Name            string
	ProteinPer100g  float64
	CaloriesPer100g float64
	Category        string
	FoodType        model.FoodType
}

type UpdateFoodInput struct {
	ID              string
	Name            string
	ProteinPer100g  float64
	CaloriesPer100g float64
	Category        string
	FoodType        model.FoodType
}

type ListFoodsFilter struct {
	Category   string
	FoodType   model.FoodType
	Query      string
	CustomOnly bool
}

const foodColumns = `id, name, protein_per_100g, calories_per_100g, category, food_type, is_custom`

func validateFood(name string, protein, calories float64, foodType model.FoodType) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("food name is required")
	}
	if err := validateNonNegativeFloat("protein per 100g", protein); err != nil {
		return err
	}
	if err := validateNonNegativeFloat("calories per 100g", calories); err != nil {
		return err
	}
	if !foodType.Valid() {
		return fmt.Errorf("invalid food type %q (expected veg, egg or non-veg)", foodType)
	}
	return nil
}

// AddFood stores a user-authored food and returns its id.
func AddFood(db *sql.DB, in AddFoodInput) (string, error) {
	if err := validateFood(in.Name, in.ProteinPer100g, in.CaloriesPer100g, in.FoodType); err != nil {
		return "", err
	}
	name := strings.TrimSpace(in.Name)
	key := model.NameKey(name)
	if err := ensureFoodNameFree(db, key, ""); err != nil {
		return "", err
	}

	id := newID()
	_, err := db.Exec(`
INSERT INTO foods(id, name, name_key, protein_per_100g, calories_per_100g, category, food_type, is_custom)
VALUES(?, ?, ?, ?, ?, ?, ?, 1)
`, id, name, key, in.ProteinPer100g, in.CaloriesPer100g, normalizeCategory(in.Category), string(in.FoodType))
	if err != nil {
		return "", fmt.Errorf("insert food: %w", err)
	}
	return id, nil
}

func ensureFoodNameFree(db *sql.DB, key, exceptID string) error {
	var existing string
	err := db.QueryRow(`SELECT id FROM foods WHERE name_key = ? AND id <> ? LIMIT 1`, key, exceptID).Scan(&existing)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check food name: %w", err)
	}
	return fmt.Errorf("food %q already exists (id %s)", key, existing)
}

func ListFoods(db *sql.DB, f ListFoodsFilter) ([]model.FoodItem, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE 1=1`
	args := make([]any, 0)
	if c := normalizeCategory(f.Category); c != "" {
		query += ` AND category = ?`
		args = append(args, c)
	}
	if f.FoodType != "" {
		if !f.FoodType.Valid() {
			return nil, fmt.Errorf("invalid food type %q (expected veg, egg or non-veg)", f.FoodType)
		}
		query += ` AND food_type = ?`
		args = append(args, string(f.FoodType))
	}
	if q := model.NameKey(f.Query); q != "" {
		query += ` AND instr(name_key, ?) > 0`
		args = append(args, q)
	}
	if f.CustomOnly {
		query += ` AND is_custom = 1`
	}
	query += ` ORDER BY name_key ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	foods := make([]model.FoodItem, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return foods, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (model.FoodItem, error) {
	var f model.FoodItem
	var foodType string
	var custom int
	if err := row.Scan(&f.ID, &f.Name, &f.ProteinPer100g, &f.CaloriesPer100g, &f.Category, &foodType, &custom); err != nil {
		return model.FoodItem{}, err
	}
	f.FoodType = model.FoodType(foodType)
	f.IsCustom = custom == 1
	return f, nil
}

func FoodByID(db *sql.DB, id string) (*model.FoodItem, error) {
	f, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, strings.TrimSpace(id)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("food %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get food %q: %w", id, err)
	}
	return &f, nil
}

// ResolveFood accepts an id or a case-insensitive exact name.
func ResolveFood(db *sql.DB, ref string) (*model.FoodItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("food reference is required")
	}
	f, err := FoodByID(db, ref)
	if err == nil {
		return f, nil
	}
	byName, nerr := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE name_key = ? LIMIT 1`, model.NameKey(ref)))
	if nerr == sql.ErrNoRows {
		return nil, fmt.Errorf("food %q: %w", ref, ErrNotFound)
	}
	if nerr != nil {
		return nil, fmt.Errorf("resolve food %q: %w", ref, nerr)
	}
	return &byName, nil
}

// UpdateFood rewrites a food in place. Logged intake keeps the macros it
// was created with.
func UpdateFood(db *sql.DB, in UpdateFoodInput) error {
	if err := validateFood(in.Name, in.ProteinPer100g, in.CaloriesPer100g, in.FoodType); err != nil {
		return err
	}
	name := strings.TrimSpace(in.Name)
	key := model.NameKey(name)
	if err := ensureFoodNameFree(db, key, in.ID); err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE foods
SET name = ?, name_key = ?, protein_per_100g = ?, calories_per_100g = ?, category = ?, food_type = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, name, key, in.ProteinPer100g, in.CaloriesPer100g, normalizeCategory(in.Category), string(in.FoodType), in.ID)
	if err != nil {
		return fmt.Errorf("update food: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("food %q: %w", in.ID, ErrNotFound)
	}
	return nil
}

// DeleteFood removes a custom food. Seeded foods cannot be deleted.
func DeleteFood(db *sql.DB, id string) error {
	f, err := FoodByID(db, id)
	if err != nil {
		return err
	}
	if !f.IsCustom {
		return fmt.Errorf("cannot delete seeded food %q", f.Name)
	}
	if _, err := db.Exec(`DELETE FROM foods WHERE id = ?`, f.ID); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	return nil
}
