package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/model"
)

const ExportVersion = "1.2"

type ExportData struct {
	Version          string               `json:"version"`
	ExportDate       string               `json:"exportDate"`
	Foods            []model.FoodItem     `json:"foods"`
	IntakeEntries    []model.IntakeEntry  `json:"intakeEntries"`
	Goals            model.DailyGoals     `json:"goals"`
	DietPreference   model.DietPreference `json:"dietPreference,omitempty"`
	PreferredFoodIDs []string             `json:"preferredFoodIds,omitempty"`
	Recipes          []model.Recipe       `json:"recipes,omitempty"`
}

type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

func ParseImportMode(raw string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ImportModeMerge, nil
	case ImportModeMerge, ImportModeReplace:
		return m, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (expected merge or replace)", raw)
	}
}

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Mode           ImportMode `json:"mode"`
	DryRun         bool       `json:"dryRun"`
	FoodsAdded     int        `json:"foodsAdded"`
	FoodsSkipped   int        `json:"foodsSkipped"`
	EntriesAdded   int        `json:"entriesAdded"`
	EntriesSkipped int        `json:"entriesSkipped"`
	RecipesAdded   int        `json:"recipesAdded"`
	RecipesSkipped int        `json:"recipesSkipped"`
	Warnings       []string   `json:"warnings,omitempty"`
}

func ExportDataSnapshot(db *sql.DB) (*ExportData, error) {
	foods, err := ListFoods(db, ListFoodsFilter{})
	if err != nil {
		return nil, err
	}
	entries, err := AllIntake(db)
	if err != nil {
		return nil, err
	}
	goals, err := CurrentGoals(db)
	if err != nil {
		return nil, err
	}
	prefs, err := LoadPreferences(db)
	if err != nil {
		return nil, err
	}
	recipes, err := ListRecipes(db, ListRecipesFilter{})
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Version:          ExportVersion,
		ExportDate:       time.Now().UTC().Format(time.RFC3339),
		Foods:            foods,
		IntakeEntries:    entries,
		Goals:            goals,
		DietPreference:   prefs.Diet,
		PreferredFoodIDs: prefs.PreferredFoodIDs,
		Recipes:          recipes,
	}, nil
}

// ValidateImport checks the shape of a raw export before anything is
// decoded into typed structs. Problems are reported per array index.
func ValidateImport(raw []byte) ValidationResult {
	res := ValidationResult{Errors: []string{}, Warnings: []string{}}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		res.Errors = append(res.Errors, "invalid file format: expected a JSON object")
		return res
	}

	if v, ok := doc["version"].(string); !ok || v == "" {
		res.Warnings = append(res.Warnings, "no version information found; import may not be fully compatible")
	} else if v != ExportVersion {
		res.Warnings = append(res.Warnings, fmt.Sprintf("export version %s differs from %s", v, ExportVersion))
	}

	if foods, ok := doc["foods"].([]any); !ok {
		res.Errors = append(res.Errors, "missing or invalid 'foods' array")
	} else {
		for i, item := range foods {
			food, _ := item.(map[string]any)
			if !validFoodShape(food) {
				res.Errors = append(res.Errors, fmt.Sprintf("invalid food item at index %d", i))
				continue
			}
			if _, has := food["foodType"]; !has {
				res.Warnings = append(res.Warnings, fmt.Sprintf("food at index %d has no foodType; it will be imported as non-veg", i))
			}
		}
	}

	if entries, ok := doc["intakeEntries"].([]any); !ok {
		res.Errors = append(res.Errors, "missing or invalid 'intakeEntries' array")
	} else {
		for i, item := range entries {
			entry, _ := item.(map[string]any)
			if !validEntryShape(entry) {
				res.Errors = append(res.Errors, fmt.Sprintf("invalid intake entry at index %d", i))
			}
		}
	}

	goals, _ := doc["goals"].(map[string]any)
	if !validGoalsShape(goals) {
		res.Errors = append(res.Errors, "missing or invalid 'goals' object")
	}

	if v, has := doc["dietPreference"]; has {
		if s, ok := v.(string); !ok || !model.DietPreference(s).Valid() {
			res.Errors = append(res.Errors, "invalid 'dietPreference'")
		}
	}
	if v, has := doc["preferredFoodIds"]; has {
		ids, ok := v.([]any)
		if !ok {
			res.Errors = append(res.Errors, "invalid 'preferredFoodIds' array")
		}
		for i, id := range ids {
			if _, ok := id.(string); !ok {
				res.Errors = append(res.Errors, fmt.Sprintf("invalid preferred food id at index %d", i))
			}
		}
	}
	if v, has := doc["recipes"]; has {
		recipes, ok := v.([]any)
		if !ok {
			res.Errors = append(res.Errors, "invalid 'recipes' array")
		}
		for i, item := range recipes {
			recipe, _ := item.(map[string]any)
			if !validRecipeShape(recipe) {
				res.Errors = append(res.Errors, fmt.Sprintf("invalid recipe at index %d", i))
			}
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func isString(m map[string]any, key string) bool {
	_, ok := m[key].(string)
	return ok
}

func nonNegativeNumber(m map[string]any, key string) bool {
	v, ok := m[key].(float64)
	return ok && v >= 0
}

func validFoodShape(f map[string]any) bool {
	if f == nil || !isString(f, "id") || !isString(f, "name") {
		return false
	}
	if !nonNegativeNumber(f, "proteinPer100g") || !nonNegativeNumber(f, "caloriesPer100g") {
		return false
	}
	if _, ok := f["isCustom"].(bool); !ok {
		return false
	}
	if c, has := f["category"]; has && c != nil {
		if _, ok := c.(string); !ok {
			return false
		}
	}
	if t, has := f["foodType"]; has {
		s, ok := t.(string)
		if !ok || !model.FoodType(s).Valid() {
			return false
		}
	}
	return true
}

func validEntryShape(e map[string]any) bool {
	if e == nil || !isString(e, "id") || !isString(e, "foodId") || !isString(e, "foodName") {
		return false
	}
	if !nonNegativeNumber(e, "quantity") || !nonNegativeNumber(e, "protein") || !nonNegativeNumber(e, "calories") {
		return false
	}
	if _, ok := e["timestamp"].(float64); !ok {
		return false
	}
	date, ok := e["date"].(string)
	return ok && validateDate(date) == nil
}

func validGoalsShape(g map[string]any) bool {
	if g == nil {
		return false
	}
	cal, ok1 := g["calorieGoal"].(float64)
	protein, ok2 := g["proteinGoal"].(float64)
	return ok1 && ok2 && cal > 0 && protein > 0
}

func validRecipeShape(r map[string]any) bool {
	if r == nil || !isString(r, "id") || !isString(r, "name") {
		return false
	}
	servings, ok := r["servings"].(float64)
	if !ok || servings <= 0 {
		return false
	}
	ings, ok := r["ingredients"].([]any)
	if !ok {
		return false
	}
	for _, item := range ings {
		ing, _ := item.(map[string]any)
		if ing == nil || !isString(ing, "foodId") || !isString(ing, "foodName") {
			return false
		}
		if !nonNegativeNumber(ing, "quantity") || !nonNegativeNumber(ing, "protein") || !nonNegativeNumber(ing, "calories") {
			return false
		}
	}
	return true
}

// ParseImport validates raw and decodes it. A non-valid result comes back
// with a nil snapshot and a nil error.
func ParseImport(raw []byte) (*ExportData, ValidationResult, error) {
	res := ValidateImport(raw)
	if !res.IsValid {
		return nil, res, nil
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, res, fmt.Errorf("decode import file: %w", err)
	}
	return &data, res, nil
}

// ImportDataSnapshot applies an export. Replace clears foods, intake and
// recipes first; merge only adds ids not already present. Goals and
// preferences are always overwritten. A dry run rolls everything back and
// reports what would have changed.
func ImportDataSnapshot(db *sql.DB, data *ExportData, opts ImportOptions) (ImportReport, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeMerge
	}
	report := ImportReport{Mode: mode, DryRun: opts.DryRun}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == ImportModeReplace {
		if err := clearUserData(tx); err != nil {
			return report, err
		}
	}

	for _, f := range data.Foods {
		if f.FoodType == "" {
			f.FoodType = model.FoodTypeNonVeg
		}
		var existingID string
		err := tx.QueryRow(`SELECT id FROM foods WHERE name_key = ? AND id <> ? LIMIT 1`, model.NameKey(f.Name), f.ID).Scan(&existingID)
		if err == nil {
			report.FoodsSkipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("food %q already exists as %s; skipped", f.Name, existingID))
			continue
		}
		if err != sql.ErrNoRows {
			return report, fmt.Errorf("check food %q: %w", f.Name, err)
		}
		res, err := tx.Exec(`
INSERT OR IGNORE INTO foods(id, name, name_key, protein_per_100g, calories_per_100g, category, food_type, is_custom)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, f.ID, f.Name, model.NameKey(f.Name), f.ProteinPer100g, f.CaloriesPer100g, normalizeCategory(f.Category), string(f.FoodType), boolToInt(f.IsCustom))
		if err != nil {
			return report, fmt.Errorf("import food %q: %w", f.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			report.FoodsAdded++
		} else {
			report.FoodsSkipped++
		}
	}

	for _, e := range data.IntakeEntries {
		res, err := tx.Exec(`
INSERT OR IGNORE INTO intake_entries(`+intakeColumns+`)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, e.FoodID, e.FoodName, e.Quantity, e.Protein, e.Calories, e.Date, e.Timestamp, string(e.FoodType))
		if err != nil {
			return report, fmt.Errorf("import intake entry %q: %w", e.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			report.EntriesAdded++
		} else {
			report.EntriesSkipped++
		}
	}

	for i := range data.Recipes {
		r := data.Recipes[i]
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM recipes WHERE id = ? OR name_key = ?`, r.ID, model.NameKey(r.Name)).Scan(&exists)
		if err == nil {
			report.RecipesSkipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("recipe %q already exists; skipped", r.Name))
			continue
		}
		if err != sql.ErrNoRows {
			return report, fmt.Errorf("check recipe %q: %w", r.Name, err)
		}
		r.Category = normalizeCategory(r.Category)
		if err := insertRecipe(tx, &r); err != nil {
			return report, fmt.Errorf("import recipe %q: %w", r.Name, err)
		}
		report.RecipesAdded++
	}

	if err := SetGoals(tx, data.Goals); err != nil {
		return report, err
	}
	if data.DietPreference != "" {
		if err := SetDietPreference(tx, data.DietPreference); err != nil {
			return report, err
		}
	}
	if data.PreferredFoodIDs != nil {
		if err := storePreferredFoods(tx, data.PreferredFoodIDs); err != nil {
			return report, err
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}

func clearUserData(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM recipe_ingredients`,
		`DELETE FROM recipes`,
		`DELETE FROM intake_entries`,
		`DELETE FROM foods`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("clear data for replace mode: %w", err)
		}
	}
	return nil
}
