package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

func TestLogFoodFreezesMacros(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id, err := service.AddFood(db, service.AddFoodInput{Name: "Lentil soup", ProteinPer100g: 6, CaloriesPer100g: 80, FoodType: model.FoodTypeVeg})
	if err != nil {
		t.Fatalf("add food: %v", err)
	}
	entry, err := service.LogFood(db, service.LogFoodInput{FoodRef: id, Grams: 250, Date: "2024-03-10"})
	if err != nil {
		t.Fatalf("log food: %v", err)
	}
	if !almostEqual(entry.Calories, 200) || !almostEqual(entry.Protein, 15) {
		t.Fatalf("expected 200 kcal / 15 g, got %.2f/%.2f", entry.Calories, entry.Protein)
	}

	if err := service.UpdateFood(db, service.UpdateFoodInput{ID: id, Name: "Lentil soup", ProteinPer100g: 10, CaloriesPer100g: 120, FoodType: model.FoodTypeVeg}); err != nil {
		t.Fatalf("update food: %v", err)
	}
	if err := service.DeleteFood(db, id); err != nil {
		t.Fatalf("delete food: %v", err)
	}

	entries, err := service.ListIntake(db, service.ListIntakeFilter{Date: "2024-03-10"})
	if err != nil {
		t.Fatalf("list intake: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if !almostEqual(got.Calories, 200) || got.FoodName != "Lentil soup" || got.FoodType != model.FoodTypeVeg {
		t.Fatalf("expected history untouched, got %+v", got)
	}
}

func TestLogFoodDefaultsDateFromTimestamp(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	at := time.Date(2024, 5, 1, 21, 30, 0, 0, time.Local)
	entry, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-banana", Grams: 120, At: at})
	if err != nil {
		t.Fatalf("log food: %v", err)
	}
	if entry.Date != "2024-05-01" || entry.Timestamp != at.UnixMilli() {
		t.Fatalf("unexpected date/timestamp %s/%d", entry.Date, entry.Timestamp)
	}
}

func TestLogFoodValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-banana", Grams: 0}); err == nil {
		t.Fatalf("expected zero grams to fail")
	}
	if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-banana", Grams: 100, Date: "01/02/2024"}); err == nil {
		t.Fatalf("expected bad date to fail")
	}
	if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "nope", Grams: 100}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected unknown food to be not found, got %v", err)
	}
}

func TestListAndDeleteIntake(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	for i, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		at := time.Date(2024, 1, 1+i, 9, 0, 0, 0, time.Local)
		if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-apple", Grams: 150, Date: date, At: at}); err != nil {
			t.Fatalf("log food: %v", err)
		}
	}
	ranged, err := service.ListIntake(db, service.ListIntakeFilter{FromDate: "2024-01-02", ToDate: "2024-01-03"})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(ranged) != 2 || ranged[0].Date != "2024-01-02" {
		t.Fatalf("expected two oldest-first entries, got %+v", ranged)
	}

	if err := service.DeleteIntake(db, ranged[0].ID); err != nil {
		t.Fatalf("delete intake: %v", err)
	}
	if err := service.DeleteIntake(db, ranged[0].ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
	all, err := service.AllIntake(db)
	if err != nil {
		t.Fatalf("all intake: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", len(all))
	}
}

func TestTodaySummary(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetGoals(db, model.DailyGoals{CalorieGoal: 1000, ProteinGoal: 100}); err != nil {
		t.Fatalf("set goals: %v", err)
	}
	if _, err := service.LogFood(db, service.LogFoodInput{FoodRef: "seed-chicken-breast", Grams: 200, Date: "2024-02-02"}); err != nil {
		t.Fatalf("log food: %v", err)
	}
	sum, err := service.TodaySummary(db, "2024-02-02")
	if err != nil {
		t.Fatalf("today summary: %v", err)
	}
	if !almostEqual(sum.Stats.TotalCalories, 330) || !almostEqual(sum.RemainingCalories, 670) {
		t.Fatalf("unexpected summary %+v", sum.Stats)
	}
	if !almostEqual(sum.Stats.ProteinProgress, 62) || sum.ProteinStatus != "fair" {
		t.Fatalf("expected 62%% protein (fair), got %.1f %s", sum.Stats.ProteinProgress, sum.ProteinStatus)
	}
	if len(sum.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sum.Entries))
	}
}
