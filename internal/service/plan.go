package service

import (
	"database/sql"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/nutrition"
	"github.com/saadjs/mealwise/internal/planner"
)

type PlanResult struct {
	planner.MealPlan
	Goals            model.DailyGoals     `json:"goals"`
	Diet             model.DietPreference `json:"dietPreference"`
	PreferredFoodIDs []string             `json:"preferredFoodIds"`
	Candidates       int                  `json:"candidates"`
}

// GeneratePlan loads the catalog, goals and preferences and asks gen for a
// fresh plan. Each call samples anew.
func GeneratePlan(db *sql.DB, gen *planner.Generator) (*PlanResult, error) {
	foods, err := ListFoods(db, ListFoodsFilter{})
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

	candidates := nutrition.FilterByDiet(foods, prefs.Diet)
	return &PlanResult{
		MealPlan:         gen.Generate(candidates, goals, prefs.PreferredFoodIDs),
		Goals:            goals,
		Diet:             prefs.Diet,
		PreferredFoodIDs: prefs.PreferredFoodIDs,
		Candidates:       len(candidates),
	}, nil
}
