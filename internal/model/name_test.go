package model_test

import (
	"testing"

	"github.com/saadjs/mealwise/internal/model"
)

func TestNameKey(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"  Greek   Yogurt ": "greek yogurt",
		"Ｐａｎｅｅｒ":          "paneer",
		"Café":             "café",
		"":                 "",
	}
	for in, want := range cases {
		if got := model.NameKey(in); got != want {
			t.Fatalf("NameKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFoodTypeAndDietValid(t *testing.T) {
	t.Parallel()
	if !model.FoodTypeEgg.Valid() || model.FoodType("vegan").Valid() {
		t.Fatalf("unexpected FoodType validity")
	}
	if !model.DietEggetarian.Valid() || model.DietPreference("pescatarian").Valid() {
		t.Fatalf("unexpected DietPreference validity")
	}
}
