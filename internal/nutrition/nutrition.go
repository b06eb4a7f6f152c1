// Package nutrition holds the per-100g arithmetic and diet admission rules
// shared by the planner and the analytics engine.
package nutrition

import "github.com/saadjs/mealwise/internal/model"

// Scale converts a per-100g rate to the amount carried by grams of food.
// Negative quantities are not guarded.
func Scale(ratePer100g, grams float64) float64 {
	return grams / 100 * ratePer100g
}

// Admits reports whether a diet preference allows a food classification.
// vegetarian ⊂ eggetarian ⊂ non-vegetarian.
func Admits(pref model.DietPreference, t model.FoodType) bool {
	switch pref {
	case model.DietVegetarian:
		return t == model.FoodTypeVeg
	case model.DietEggetarian:
		return t == model.FoodTypeVeg || t == model.FoodTypeEgg
	default:
		return true
	}
}

// FilterByDiet keeps the admissible foods in input order. Non-vegetarian
// returns the input slice as is.
func FilterByDiet(foods []model.FoodItem, pref model.DietPreference) []model.FoodItem {
	if pref != model.DietVegetarian && pref != model.DietEggetarian {
		return foods
	}
	out := make([]model.FoodItem, 0, len(foods))
	for _, f := range foods {
		if Admits(pref, f.FoodType) {
			out = append(out, f)
		}
	}
	return out
}

func FilterRecipesByDiet(recipes []model.Recipe, pref model.DietPreference) []model.Recipe {
	if pref != model.DietVegetarian && pref != model.DietEggetarian {
		return recipes
	}
	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if Admits(pref, r.FoodType) {
			out = append(out, r)
		}
	}
	return out
}
