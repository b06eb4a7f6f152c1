package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saadjs/mealwise/internal/model"
	"github.com/saadjs/mealwise/internal/provider/openfoodfacts"
	"github.com/saadjs/mealwise/internal/service"
)

type fakeLookup struct {
	calls   int
	product openfoodfacts.Product
	err     error
}

func (f *fakeLookup) LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.Product, error) {
	f.calls++
	return f.product, f.err
}

func TestLookupBarcodeUsesCache(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	client := &fakeLookup{product: openfoodfacts.Product{Name: "Protein Bar", ProteinPer100g: 33, CaloriesPer100g: 370, FoodType: model.FoodTypeVeg}}
	first, err := service.LookupBarcode(context.Background(), db, client, "012345678905", false)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := service.LookupBarcode(context.Background(), db, client, "012345678905", false)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 provider call due to cache hit, got %d", client.calls)
	}
	if first.FromCache || !second.FromCache || second.Name != "Protein Bar" || second.Barcode != "012345678905" {
		t.Fatalf("unexpected lookups %+v / %+v", first, second)
	}

	if _, err := service.LookupBarcode(context.Background(), db, client, "012345678905", true); err != nil {
		t.Fatalf("refresh lookup: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected refresh to bypass cache, got %d calls", client.calls)
	}

	n, err := service.PurgeBarcodeCache(db, "")
	if err != nil {
		t.Fatalf("purge cache: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
}

func TestLookupBarcodeValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	client := &fakeLookup{}
	if _, err := service.LookupBarcode(context.Background(), db, client, "abc", false); err == nil {
		t.Fatalf("expected invalid barcode to fail")
	}
	if client.calls != 0 {
		t.Fatalf("expected provider not to be called")
	}

	client.err = errors.New("offline")
	if _, err := service.LookupBarcode(context.Background(), db, client, "12345678", false); err == nil {
		t.Fatalf("expected provider error to surface")
	}
}

func TestAddFoodFromBarcode(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	client := &fakeLookup{product: openfoodfacts.Product{Name: "Soya Chunks", ProteinPer100g: 52, CaloriesPer100g: 345, Category: "legumes"}}
	if _, err := service.AddFoodFromBarcode(context.Background(), db, client, service.BarcodeFoodInput{Barcode: "8901234567890"}); err == nil {
		t.Fatalf("expected unclassified product to require a food type")
	}

	food, err := service.AddFoodFromBarcode(context.Background(), db, client, service.BarcodeFoodInput{Barcode: "8901234567890", FoodType: model.FoodTypeVeg})
	if err != nil {
		t.Fatalf("add from barcode: %v", err)
	}
	if food.Name != "Soya Chunks" || food.FoodType != model.FoodTypeVeg || food.Category != "legumes" || !food.IsCustom {
		t.Fatalf("unexpected food %+v", food)
	}
	if client.calls != 1 {
		t.Fatalf("expected the second attempt to hit the cache, got %d calls", client.calls)
	}
}
