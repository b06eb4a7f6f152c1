package nutrition

import "github.com/saadjs/mealwise/internal/model"

type RecipeTotals struct {
	TotalCalories      float64
	TotalProtein       float64
	CaloriesPerServing float64
	ProteinPerServing  float64
	FoodType           model.FoodType
}

// Ingredient scales a food to the given grams for use inside a recipe.
func Ingredient(food model.FoodItem, grams float64) model.RecipeIngredient {
	return model.RecipeIngredient{
		FoodID:   food.ID,
		FoodName: food.Name,
		Quantity: grams,
		Protein:  Scale(food.ProteinPer100g, grams),
		Calories: Scale(food.CaloriesPer100g, grams),
		FoodType: food.FoodType,
	}
}

// RecipeFoodType returns the most restrictive classification among the
// ingredients: non-veg beats egg beats veg.
func RecipeFoodType(ingredients []model.RecipeIngredient) model.FoodType {
	out := model.FoodTypeVeg
	for _, ing := range ingredients {
		switch ing.FoodType {
		case model.FoodTypeNonVeg:
			return model.FoodTypeNonVeg
		case model.FoodTypeEgg:
			out = model.FoodTypeEgg
		}
	}
	return out
}

func RecipeNutrition(ingredients []model.RecipeIngredient, servings float64) RecipeTotals {
	out := RecipeTotals{FoodType: RecipeFoodType(ingredients)}
	for _, ing := range ingredients {
		out.TotalCalories += ing.Calories
		out.TotalProtein += ing.Protein
	}
	if servings > 0 {
		out.CaloriesPerServing = out.TotalCalories / servings
		out.ProteinPerServing = out.TotalProtein / servings
	}
	return out
}

// ApplyRecipeNutrition recomputes the derived fields of r from its ingredients.
func ApplyRecipeNutrition(r *model.Recipe) {
	totals := RecipeNutrition(r.Ingredients, r.Servings)
	r.TotalCalories = totals.TotalCalories
	r.TotalProtein = totals.TotalProtein
	r.CaloriesPerServing = totals.CaloriesPerServing
	r.ProteinPerServing = totals.ProteinPerServing
	r.FoodType = totals.FoodType
}
