package service_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/planner"
	"github.com/saadjs/mealwise/internal/service"
)

func TestGeneratePlanHonoursDietAndPreferredFoods(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetDietPreference(db, model.DietVegetarian); err != nil {
		t.Fatalf("set diet: %v", err)
	}
	foods, err := service.ListFoods(db, service.ListFoodsFilter{})
	if err != nil {
		t.Fatalf("list foods: %v", err)
	}
	typeByID := map[string]model.FoodType{}
	for _, f := range foods {
		typeByID[f.ID] = f.FoodType
	}

	for seed := int64(1); seed <= 20; seed++ {
		gen := planner.New(planner.Options{Rand: rand.New(rand.NewSource(seed))})
		res, err := service.GeneratePlan(db, gen)
		if err != nil {
			t.Fatalf("generate plan: %v", err)
		}
		if res.Diet != model.DietVegetarian || res.Goals.CalorieGoal != 2000 {
			t.Fatalf("unexpected plan context %+v", res)
		}
		for _, meal := range res.Meals {
			for _, it := range meal.Items {
				if typeByID[it.FoodID] != model.FoodTypeVeg {
					t.Fatalf("seed %d: vegetarian plan picked %s (%s)", seed, it.FoodID, typeByID[it.FoodID])
				}
			}
		}
	}

	if err := service.SetPreferredFoods(db, []string{"seed-chicken-breast"}); err != nil {
		t.Fatalf("set preferred: %v", err)
	}
	res, err := service.GeneratePlan(db, planner.New(planner.Options{Rand: rand.New(rand.NewSource(9))}))
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}
	if res.TotalCalories != 0 {
		t.Fatalf("expected empty plan when preferred foods conflict with diet, got %d kcal", res.TotalCalories)
	}
	if len(res.Meals) != 4 {
		t.Fatalf("expected four empty slots, got %d", len(res.Meals))
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-oats", Grams: 200, Date: date}); err != nil {
			t.Fatalf("log food: %v", err)
		}
	}
	now := time.Date(2024, 1, 3, 18, 0, 0, 0, time.Local)
	report, err := service.BuildReport(db, now)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Month.CurrentStreak != 3 || report.Week.TotalEntries != 3 {
		t.Fatalf("unexpected report %+v", report.Month)
	}
	if len(report.Insights) == 0 || report.Insights[0].ID != "streak-3" {
		t.Fatalf("expected streak-3 first, got %+v", report.Insights)
	}

	streak, err := service.CurrentStreak(db, now.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("current streak: %v", err)
	}
	if streak.Current != 0 || streak.Longest != 3 {
		t.Fatalf("expected broken streak 0/3, got %+v", streak)
	}
}

func TestParseAsOf(t *testing.T) {
	t.Parallel()
	got, err := service.ParseAsOf("2024-02-29")
	if err != nil {
		t.Fatalf("parse as-of: %v", err)
	}
	if got.Format("2006-01-02") != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
	if _, err := service.ParseAsOf("2024-02-30"); err == nil {
		t.Fatalf("expected invalid date to fail")
	}
}
