package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/nutrition"
)

type LogFoodInput struct {
	FoodRef string
	Grams   float64
	// Date defaults to the calendar day of At; At defaults to now.
	Date string
	At   time.Time
}

type LogRecipeInput struct {
	RecipeRef string
	Servings  float64
	Date      string
	At        time.Time
}

type ListIntakeFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Limit    int
}

const intakeColumns = `id, food_id, food_name, quantity, protein, calories, date, timestamp, food_type`

// LogFood records grams of a catalog food. Macros are scaled from the
// food's current rates and frozen on the entry.
func LogFood(db *sql.DB, in LogFoodInput) (*model.IntakeEntry, error) {
	if err := validatePositiveFloat("grams", in.Grams); err != nil {
		return nil, err
	}
	date, at, err := resolveLogTime(in.Date, in.At)
	if err != nil {
		return nil, err
	}
	food, err := ResolveFood(db, in.FoodRef)
	if err != nil {
		return nil, err
	}

	e := model.IntakeEntry{
		ID:        newID(),
		FoodID:    food.ID,
		FoodName:  food.Name,
		Quantity:  in.Grams,
		Protein:   nutrition.Scale(food.ProteinPer100g, in.Grams),
		Calories:  nutrition.Scale(food.CaloriesPer100g, in.Grams),
		Date:      date,
		Timestamp: at.UnixMilli(),
		FoodType:  food.FoodType,
	}
	if err := insertIntake(db, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// LogRecipe records servings of a recipe. Quantity stays 0; the servings
// are baked into the macros.
func LogRecipe(db *sql.DB, in LogRecipeInput) (*model.IntakeEntry, error) {
	if err := validatePositiveFloat("servings", in.Servings); err != nil {
		return nil, err
	}
	date, at, err := resolveLogTime(in.Date, in.At)
	if err != nil {
		return nil, err
	}
	r, err := ResolveRecipe(db, in.RecipeRef)
	if err != nil {
		return nil, err
	}

	e := model.IntakeEntry{
		ID:        newID(),
		FoodID:    r.ID,
		FoodName:  r.Name,
		Quantity:  0,
		Protein:   r.ProteinPerServing * in.Servings,
		Calories:  r.CaloriesPerServing * in.Servings,
		Date:      date,
		Timestamp: at.UnixMilli(),
		FoodType:  r.FoodType,
	}
	if err := insertIntake(db, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func resolveLogTime(date string, at time.Time) (string, time.Time, error) {
	if at.IsZero() {
		at = time.Now()
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = at.Format(dateLayout)
	}
	if err := validateDate(date); err != nil {
		return "", time.Time{}, err
	}
	return date, at, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertIntake(db execer, e model.IntakeEntry) error {
	_, err := db.Exec(`
INSERT INTO intake_entries(`+intakeColumns+`)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, e.FoodID, e.FoodName, e.Quantity, e.Protein, e.Calories, e.Date, e.Timestamp, string(e.FoodType))
	if err != nil {
		return fmt.Errorf("insert intake entry: %w", err)
	}
	return nil
}

func ListIntake(db *sql.DB, f ListIntakeFilter) ([]model.IntakeEntry, error) {
	query := `SELECT ` + intakeColumns + ` FROM intake_entries WHERE 1=1`
	args := make([]any, 0)
	if d := strings.TrimSpace(f.Date); d != "" {
		if err := validateDate(d); err != nil {
			return nil, err
		}
		query += ` AND date = ?`
		args = append(args, d)
	}
	if d := strings.TrimSpace(f.FromDate); d != "" {
		if err := validateDate(d); err != nil {
			return nil, err
		}
		query += ` AND date >= ?`
		args = append(args, d)
	}
	if d := strings.TrimSpace(f.ToDate); d != "" {
		if err := validateDate(d); err != nil {
			return nil, err
		}
		query += ` AND date <= ?`
		args = append(args, d)
	}
	query += ` ORDER BY date ASC, timestamp ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list intake entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.IntakeEntry, 0)
	for rows.Next() {
		var e model.IntakeEntry
		var foodType string
		if err := rows.Scan(&e.ID, &e.FoodID, &e.FoodName, &e.Quantity, &e.Protein, &e.Calories, &e.Date, &e.Timestamp, &foodType); err != nil {
			return nil, fmt.Errorf("scan intake entry: %w", err)
		}
		e.FoodType = model.FoodType(foodType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intake entries: %w", err)
	}
	return entries, nil
}

// AllIntake returns the whole log, oldest first.
func AllIntake(db *sql.DB) ([]model.IntakeEntry, error) {
	return ListIntake(db, ListIntakeFilter{})
}

func DeleteIntake(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM intake_entries WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete intake entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("intake entry %q: %w", id, ErrNotFound)
	}
	return nil
}
