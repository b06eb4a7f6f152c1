package nutrition_test

import (
	"math"
	"testing"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/nutrition"
)

func sampleFoods() []model.FoodItem {
	return []model.FoodItem{
		{ID: "rice", Name: "Rice", FoodType: model.FoodTypeVeg},
		{ID: "egg", Name: "Egg", FoodType: model.FoodTypeEgg},
		{ID: "chicken", Name: "Chicken", FoodType: model.FoodTypeNonVeg},
		{ID: "dal", Name: "Dal", FoodType: model.FoodTypeVeg},
		{ID: "omelette", Name: "Omelette", FoodType: model.FoodTypeEgg},
	}
}

func TestScale(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rate, grams, want float64
	}{
		{rate: 20, grams: 150, want: 30},
		{rate: 365, grams: 0, want: 0},
		{rate: 0, grams: 250, want: 0},
		{rate: 3.4, grams: 37, want: 1.258},
	}
	for _, c := range cases {
		got := nutrition.Scale(c.rate, c.grams)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("expected Scale(%v, %v) = %v, got %v", c.rate, c.grams, c.want, got)
		}
	}
}

func TestFilterByDietAdmission(t *testing.T) {
	t.Parallel()
	foods := sampleFoods()

	veg := nutrition.FilterByDiet(foods, model.DietVegetarian)
	if len(veg) != 2 || veg[0].ID != "rice" || veg[1].ID != "dal" {
		t.Fatalf("expected rice and dal in order for vegetarian, got %+v", veg)
	}

	egg := nutrition.FilterByDiet(foods, model.DietEggetarian)
	want := []string{"rice", "egg", "dal", "omelette"}
	if len(egg) != len(want) {
		t.Fatalf("expected %d eggetarian foods, got %d", len(want), len(egg))
	}
	for i := range want {
		if egg[i].ID != want[i] {
			t.Fatalf("expected eggetarian order %v, got %+v", want, egg)
		}
	}

	all := nutrition.FilterByDiet(foods, model.DietNonVegetarian)
	if len(all) != len(foods) {
		t.Fatalf("expected non-vegetarian to keep all %d foods, got %d", len(foods), len(all))
	}
}

func TestFilterByDietSubsetProperty(t *testing.T) {
	t.Parallel()
	foods := sampleFoods()
	for _, pref := range []model.DietPreference{model.DietVegetarian, model.DietEggetarian, model.DietNonVegetarian} {
		out := nutrition.FilterByDiet(foods, pref)
		for _, f := range out {
			if !nutrition.Admits(pref, f.FoodType) {
				t.Fatalf("%s admitted %s food %s", pref, f.FoodType, f.ID)
			}
		}
		kept := 0
		for _, f := range foods {
			if nutrition.Admits(pref, f.FoodType) {
				kept++
			}
		}
		if kept != len(out) {
			t.Fatalf("%s: expected %d admitted foods, got %d", pref, kept, len(out))
		}
	}
}

func TestFilterByDietEmptyInput(t *testing.T) {
	t.Parallel()
	if out := nutrition.FilterByDiet(nil, model.DietVegetarian); len(out) != 0 {
		t.Fatalf("expected empty output, got %+v", out)
	}
}

func TestRecipeFoodTypeMostRestrictive(t *testing.T) {
	t.Parallel()
	veg := model.RecipeIngredient{FoodType: model.FoodTypeVeg}
	egg := model.RecipeIngredient{FoodType: model.FoodTypeEgg}
	meat := model.RecipeIngredient{FoodType: model.FoodTypeNonVeg}

	if got := nutrition.RecipeFoodType(nil); got != model.FoodTypeVeg {
		t.Fatalf("expected veg for no ingredients, got %s", got)
	}
	if got := nutrition.RecipeFoodType([]model.RecipeIngredient{veg, egg, veg}); got != model.FoodTypeEgg {
		t.Fatalf("expected egg, got %s", got)
	}
	if got := nutrition.RecipeFoodType([]model.RecipeIngredient{egg, meat, veg}); got != model.FoodTypeNonVeg {
		t.Fatalf("expected non-veg, got %s", got)
	}
}

func TestRecipeNutritionPerServing(t *testing.T) {
	t.Parallel()
	oats := model.FoodItem{ID: "oats", Name: "Oats", ProteinPer100g: 13, CaloriesPer100g: 380, FoodType: model.FoodTypeVeg}
	milk := model.FoodItem{ID: "milk", Name: "Milk", ProteinPer100g: 3.4, CaloriesPer100g: 60, FoodType: model.FoodTypeVeg}
	ings := []model.RecipeIngredient{
		nutrition.Ingredient(oats, 100),
		nutrition.Ingredient(milk, 200),
	}
	totals := nutrition.RecipeNutrition(ings, 2)
	if math.Abs(totals.TotalCalories-500) > 1e-9 {
		t.Fatalf("expected 500 total kcal, got %v", totals.TotalCalories)
	}
	if math.Abs(totals.ProteinPerServing-9.9) > 1e-9 {
		t.Fatalf("expected 9.9g protein per serving, got %v", totals.ProteinPerServing)
	}

	zero := nutrition.RecipeNutrition(ings, 0)
	if zero.CaloriesPerServing != 0 || zero.ProteinPerServing != 0 {
		t.Fatalf("expected zero per-serving values for zero servings, got %+v", zero)
	}
}

func TestFilterRecipesByDiet(t *testing.T) {
	t.Parallel()
	recipes := []model.Recipe{
		{ID: "a", FoodType: model.FoodTypeVeg},
		{ID: "b", FoodType: model.FoodTypeEgg},
		{ID: "c", FoodType: model.FoodTypeNonVeg},
	}
	if got := nutrition.FilterRecipesByDiet(recipes, model.DietEggetarian); len(got) != 2 {
		t.Fatalf("expected 2 eggetarian recipes, got %d", len(got))
	}
	if got := nutrition.FilterRecipesByDiet(recipes, model.DietVegetarian); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only recipe a, got %+v", got)
	}
}
