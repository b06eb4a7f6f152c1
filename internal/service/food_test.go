package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/service"
)

func TestAddFoodAndResolveByName(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id, err := service.AddFood(db, service.AddFoodInput{
		Name:            "Soya Chunks",
		ProteinPer100g:  52,
		CaloriesPer100g: 345,
		Category:        "Protein",
		FoodType:        model.FoodTypeVeg,
	})
	if err != nil {
		t.Fatalf("add food: %v", err)
	}

	food, err := service.ResolveFood(db, "  soya   CHUNKS ")
	if err != nil {
		t.Fatalf("resolve food: %v", err)
	}
	if food.ID != id || !food.IsCustom || food.Category != "protein" {
		t.Fatalf("unexpected food %+v", food)
	}

	if _, err := service.AddFood(db, service.AddFoodInput{Name: "soya chunks", FoodType: model.FoodTypeVeg}); err == nil {
		t.Fatalf("expected duplicate name to be rejected")
	}
}

func TestAddFoodValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	cases := []service.AddFoodInput{
		{Name: "", FoodType: model.FoodTypeVeg},
		{Name: "Bad protein", ProteinPer100g: -1, FoodType: model.FoodTypeVeg},
		{Name: "Bad calories", CaloriesPer100g: -5, FoodType: model.FoodTypeVeg},
		{Name: "Bad type", FoodType: "vegan"},
		{Name: "NaN protein", ProteinPer100g: math.NaN(), FoodType: model.FoodTypeVeg},
		{Name: "NaN calories", CaloriesPer100g: math.NaN(), FoodType: model.FoodTypeVeg},
	}
	for _, in := range cases {
		if _, err := service.AddFood(db, in); err == nil {
			t.Fatalf("expected validation error for %+v", in)
		}
	}
}

func TestListFoodsFilters(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	all, err := service.ListFoods(db, service.ListFoodsFilter{})
	if err != nil {
		t.Fatalf("list foods: %v", err)
	}
	if len(all) == 0 {
		t.Fatalf("expected seeded catalog")
	}

	nuts, err := service.ListFoods(db, service.ListFoodsFilter{Category: "NUTS"})
	if err != nil {
		t.Fatalf("list nuts: %v", err)
	}
	for _, f := range nuts {
		if f.Category != "nuts" {
			t.Fatalf("expected only nuts, got %+v", f)
		}
	}
	if len(nuts) == 0 {
		t.Fatalf("expected seeded nuts")
	}

	eggs, err := service.ListFoods(db, service.ListFoodsFilter{FoodType: model.FoodTypeEgg})
	if err != nil {
		t.Fatalf("list eggs: %v", err)
	}
	for _, f := range eggs {
		if f.FoodType != model.FoodTypeEgg {
			t.Fatalf("expected only egg foods, got %+v", f)
		}
	}

	rice, err := service.ListFoods(db, service.ListFoodsFilter{Query: "RICE"})
	if err != nil {
		t.Fatalf("search rice: %v", err)
	}
	if len(rice) != 2 {
		t.Fatalf("expected 2 rice foods, got %d", len(rice))
	}

	custom, err := service.ListFoods(db, service.ListFoodsFilter{CustomOnly: true})
	if err != nil {
		t.Fatalf("list custom: %v", err)
	}
	if len(custom) != 0 {
		t.Fatalf("expected no custom foods in a fresh db, got %d", len(custom))
	}
}

func TestUpdateAndDeleteFood(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id, err := service.AddFood(db, service.AddFoodInput{Name: "Omelette", ProteinPer100g: 11, CaloriesPer100g: 154, FoodType: model.FoodTypeVeg})
	if err != nil {
		t.Fatalf("add food: %v", err)
	}
	if err := service.UpdateFood(db, service.UpdateFoodInput{ID: id, Name: "Omelette", ProteinPer100g: 11, CaloriesPer100g: 154, FoodType: model.FoodTypeEgg}); err != nil {
		t.Fatalf("update food: %v", err)
	}
	food, err := service.FoodByID(db, id)
	if err != nil {
		t.Fatalf("get food: %v", err)
	}
	if food.FoodType != model.FoodTypeEgg {
		t.Fatalf("expected reclassified egg, got %s", food.FoodType)
	}

	if err := service.DeleteFood(db, id); err != nil {
		t.Fatalf("delete food: %v", err)
	}
	if _, err := service.FoodByID(db, id); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := service.DeleteFood(db, "seed-oats"); err == nil {
		t.Fatalf("expected seeded food delete to fail")
	}
	if err := service.UpdateFood(db, service.UpdateFoodInput{ID: "missing", Name: "X", FoodType: model.FoodTypeVeg}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}
