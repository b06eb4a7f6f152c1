package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/nutrition"
)

type IngredientInput struct {
	FoodRef string
	Grams   float64
}

type RecipeInput struct {
	Name        string
	Description string
	Category    string
	Tags        []string
	Servings    float64
	Ingredients []IngredientInput
}

type ListRecipesFilter struct {
	Diet     model.DietPreference
	Category string
	// Query matches name, description, category or any tag.
	Query string
}

type RecipeStats struct {
	TotalRecipes          int                    `json:"totalRecipes"`
	ByCategory            map[string]int         `json:"byCategory"`
	ByFoodType            map[model.FoodType]int `json:"byFoodType"`
	AvgCaloriesPerServing float64                `json:"avgCaloriesPerServing"`
	AvgProteinPerServing  float64                `json:"avgProteinPerServing"`
}

const recipeColumns = `id, name, description, category, tags_json, servings, created_at, updated_at`

// CreateRecipe resolves each ingredient against the catalog, snapshots its
// macros and stores the recipe with derived totals.
func CreateRecipe(db *sql.DB, in RecipeInput) (*model.Recipe, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	if err := validatePositiveFloat("servings", in.Servings); err != nil {
		return nil, err
	}
	if len(in.Ingredients) == 0 {
		return nil, fmt.Errorf("recipe needs at least one ingredient")
	}

	r := model.Recipe{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    normalizeCategory(in.Category),
		Tags:        cleanTags(in.Tags),
		Servings:    in.Servings,
	}
	for i, ing := range in.Ingredients {
		if err := validatePositiveFloat(fmt.Sprintf("ingredient %d grams", i+1), ing.Grams); err != nil {
			return nil, err
		}
		food, err := ResolveFood(db, ing.FoodRef)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		r.Ingredients = append(r.Ingredients, nutrition.Ingredient(*food, ing.Grams))
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	if err := withTx(db, func(tx *sql.Tx) error { return insertRecipe(tx, &r) }); err != nil {
		return nil, err
	}
	return &r, nil
}

func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// insertRecipe recomputes derived fields before writing, so stored totals
// always agree with the ingredient rows.
func insertRecipe(tx *sql.Tx, r *model.Recipe) error {
	nutrition.ApplyRecipeNutrition(r)
	tags, err := json.Marshal(cleanTags(r.Tags))
	if err != nil {
		return fmt.Errorf("encode recipe tags: %w", err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	_, err = tx.Exec(`
INSERT INTO recipes(id, name, name_key, description, category, tags_json, servings, total_calories, total_protein, food_type, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, r.Name, model.NameKey(r.Name), r.Description, r.Category, string(tags), r.Servings,
		r.TotalCalories, r.TotalProtein, string(r.FoodType), sqliteTime(r.CreatedAt), sqliteTime(r.UpdatedAt))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("recipe %q already exists", r.Name)
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	for i, ing := range r.Ingredients {
		_, err := tx.Exec(`
INSERT INTO recipe_ingredients(recipe_id, position, food_id, food_name, quantity, protein, calories, food_type)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, i, ing.FoodID, ing.FoodName, ing.Quantity, ing.Protein, ing.Calories, string(ing.FoodType))
		if err != nil {
			return fmt.Errorf("insert recipe ingredient %d: %w", i+1, err)
		}
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func ListRecipes(db *sql.DB, f ListRecipesFilter) ([]model.Recipe, error) {
	rows, err := db.Query(`SELECT ` + recipeColumns + ` FROM recipes ORDER BY name_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	recipes := make([]model.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	for i := range recipes {
		if err := loadIngredients(db, &recipes[i]); err != nil {
			return nil, err
		}
	}

	if f.Diet != "" {
		if !f.Diet.Valid() {
			return nil, fmt.Errorf("invalid diet preference %q", f.Diet)
		}
		recipes = nutrition.FilterRecipesByDiet(recipes, f.Diet)
	}
	category := normalizeCategory(f.Category)
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if category == "" && query == "" {
		return recipes, nil
	}
	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if category != "" && r.Category != category {
			continue
		}
		if query != "" && !recipeMatches(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func recipeMatches(r model.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Description), query) ||
		strings.Contains(r.Category, query) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(t, query) {
			return true
		}
	}
	return false
}

func scanRecipe(row rowScanner) (model.Recipe, error) {
	var r model.Recipe
	var tags string
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Category, &tags, &r.Servings, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return model.Recipe{}, err
	}
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		return model.Recipe{}, fmt.Errorf("decode tags for recipe %s: %w", r.ID, err)
	}
	return r, nil
}

func loadIngredients(db *sql.DB, r *model.Recipe) error {
	rows, err := db.Query(`
SELECT food_id, food_name, quantity, protein, calories, food_type
FROM recipe_ingredients
WHERE recipe_id = ?
ORDER BY position ASC
`, r.ID)
	if err != nil {
		return fmt.Errorf("list ingredients for recipe %s: %w", r.ID, err)
	}
	defer rows.Close()

	r.Ingredients = make([]model.RecipeIngredient, 0)
	for rows.Next() {
		var ing model.RecipeIngredient
		var foodType string
		if err := rows.Scan(&ing.FoodID, &ing.FoodName, &ing.Quantity, &ing.Protein, &ing.Calories, &foodType); err != nil {
			return fmt.Errorf("scan ingredient: %w", err)
		}
		ing.FoodType = model.FoodType(foodType)
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ingredients: %w", err)
	}
	nutrition.ApplyRecipeNutrition(r)
	return nil
}

// ResolveRecipe accepts an id or a case-insensitive exact name.
func ResolveRecipe(db *sql.DB, ref string) (*model.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("recipe reference is required")
	}
	r, err := scanRecipe(db.QueryRow(`SELECT `+recipeColumns+` FROM recipes WHERE id = ? OR name_key = ? LIMIT 1`, ref, model.NameKey(ref)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipe %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve recipe %q: %w", ref, err)
	}
	if err := loadIngredients(db, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func DeleteRecipe(db *sql.DB, ref string) error {
	r, err := ResolveRecipe(db, ref)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM recipes WHERE id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe %q: %w", ref, err)
	}
	return nil
}

// DuplicateRecipe copies a recipe under a new name, "<name> (Copy)" when
// newName is empty.
func DuplicateRecipe(db *sql.DB, ref, newName string) (*model.Recipe, error) {
	src, err := ResolveRecipe(db, ref)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(newName)
	if name == "" {
		name = src.Name + " (Copy)"
	}
	dup := *src
	dup.ID = newID()
	dup.Name = name
	dup.Tags = append([]string(nil), src.Tags...)
	dup.Ingredients = append([]model.RecipeIngredient(nil), src.Ingredients...)
	now := time.Now().UTC()
	dup.CreatedAt, dup.UpdatedAt = now, now

	if err := withTx(db, func(tx *sql.Tx) error { return insertRecipe(tx, &dup) }); err != nil {
		return nil, err
	}
	return &dup, nil
}

func ComputeRecipeStats(db *sql.DB) (RecipeStats, error) {
	recipes, err := ListRecipes(db, ListRecipesFilter{})
	if err != nil {
		return RecipeStats{}, err
	}
	stats := RecipeStats{
		TotalRecipes: len(recipes),
		ByCategory:   map[string]int{},
		ByFoodType:   map[model.FoodType]int{model.FoodTypeVeg: 0, model.FoodTypeEgg: 0, model.FoodTypeNonVeg: 0},
	}
	for _, r := range recipes {
		if r.Category != "" {
			stats.ByCategory[r.Category]++
		}
		stats.ByFoodType[r.FoodType]++
		stats.AvgCaloriesPerServing += r.CaloriesPerServing
		stats.AvgProteinPerServing += r.ProteinPerServing
	}
	if len(recipes) > 0 {
		stats.AvgCaloriesPerServing /= float64(len(recipes))
		stats.AvgProteinPerServing /= float64(len(recipes))
	}
	return stats, nil
}
