package db

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/mealwise/internal/model"
)

// SeedFoods is the catalog every new database starts with. Ids are stable
// so exports from different machines merge cleanly.
var SeedFoods = []model.FoodItem{
	{ID: "seed-oats", Name: "Oats", ProteinPer100g: 13.2, CaloriesPer100g: 379, Category: "grains", FoodType: model.FoodTypeVeg},
	{ID: "seed-brown-rice", Name: "Brown Rice (cooked)", ProteinPer100g: 2.6, CaloriesPer100g: 112, Category: "grains", FoodType: model.FoodTypeVeg},
	{ID: "seed-white-rice", Name: "White Rice (cooked)", ProteinPer100g: 2.7, CaloriesPer100g: 130, Category: "grains", FoodType: model.FoodTypeVeg},
	{ID: "seed-whole-wheat-roti", Name: "Whole Wheat Roti", ProteinPer100g: 9.6, CaloriesPer100g: 297, Category: "grains", FoodType: model.FoodTypeVeg},
	{ID: "seed-quinoa", Name: "Quinoa (cooked)", ProteinPer100g: 4.4, CaloriesPer100g: 120, Category: "grains", FoodType: model.FoodTypeVeg},
	{ID: "seed-chicken-breast", Name: "Chicken Breast", ProteinPer100g: 31, CaloriesPer100g: 165, Category: "protein", FoodType: model.FoodTypeNonVeg},
	{ID: "seed-salmon", Name: "Salmon", ProteinPer100g: 20, CaloriesPer100g: 208, Category: "protein", FoodType: model.FoodTypeNonVeg},
	{ID: "seed-tuna", Name: "Tuna (canned in water)", ProteinPer100g: 25.5, CaloriesPer100g: 116, Category: "protein", FoodType: model.FoodTypeNonVeg},
	{ID: "seed-boiled-egg", Name: "Boiled Egg", ProteinPer100g: 12.6, CaloriesPer100g: 155, Category: "protein", FoodType: model.FoodTypeEgg},
	{ID: "seed-egg-white", Name: "Egg White", ProteinPer100g: 10.9, CaloriesPer100g: 52, Category: "protein", FoodType: model.FoodTypeEgg},
	{ID: "seed-tofu", Name: "Tofu (firm)", ProteinPer100g: 17.3, CaloriesPer100g: 144, Category: "protein", FoodType: model.FoodTypeVeg},
	{ID: "seed-paneer", Name: "Paneer", ProteinPer100g: 18.3, CaloriesPer100g: 265, Category: "dairy", FoodType: model.FoodTypeVeg},
	{ID: "seed-greek-yogurt", Name: "Greek Yogurt", ProteinPer100g: 10, CaloriesPer100g: 59, Category: "dairy", FoodType: model.FoodTypeVeg},
	{ID: "seed-milk", Name: "Milk (toned)", ProteinPer100g: 3.4, CaloriesPer100g: 60, Category: "dairy", FoodType: model.FoodTypeVeg},
	{ID: "seed-cottage-cheese", Name: "Cottage Cheese", ProteinPer100g: 11.1, CaloriesPer100g: 98, Category: "dairy", FoodType: model.FoodTypeVeg},
	{ID: "seed-lentils", Name: "Lentils (cooked)", ProteinPer100g: 9, CaloriesPer100g: 116, Category: "legumes", FoodType: model.FoodTypeVeg},
	{ID: "seed-chickpeas", Name: "Chickpeas (cooked)", ProteinPer100g: 8.9, CaloriesPer100g: 164, Category: "legumes", FoodType: model.FoodTypeVeg},
	{ID: "seed-kidney-beans", Name: "Kidney Beans (cooked)", ProteinPer100g: 8.7, CaloriesPer100g: 127, Category: "legumes", FoodType: model.FoodTypeVeg},
	{ID: "seed-broccoli", Name: "Broccoli", ProteinPer100g: 2.8, CaloriesPer100g: 34, Category: "vegetables", FoodType: model.FoodTypeVeg},
	{ID: "seed-spinach", Name: "Spinach", ProteinPer100g: 2.9, CaloriesPer100g: 23, Category: "vegetables", FoodType: model.FoodTypeVeg},
	{ID: "seed-potato", Name: "Potato (boiled)", ProteinPer100g: 1.9, CaloriesPer100g: 87, Category: "vegetables", FoodType: model.FoodTypeVeg},
	{ID: "seed-mixed-vegetables", Name: "Mixed Vegetables", ProteinPer100g: 2.6, CaloriesPer100g: 65, Category: "vegetables", FoodType: model.FoodTypeVeg},
	{ID: "seed-banana", Name: "Banana", ProteinPer100g: 1.1, CaloriesPer100g: 89, Category: "fruits", FoodType: model.FoodTypeVeg},
	{ID: "seed-apple", Name: "Apple", ProteinPer100g: 0.3, CaloriesPer100g: 52, Category: "fruits", FoodType: model.FoodTypeVeg},
	{ID: "seed-orange", Name: "Orange", ProteinPer100g: 0.9, CaloriesPer100g: 47, Category: "fruits", FoodType: model.FoodTypeVeg},
	{ID: "seed-almonds", Name: "Almonds", ProteinPer100g: 21.2, CaloriesPer100g: 579, Category: "nuts", FoodType: model.FoodTypeVeg},
	{ID: "seed-peanuts", Name: "Peanuts", ProteinPer100g: 25.8, CaloriesPer100g: 567, Category: "nuts", FoodType: model.FoodTypeVeg},
	{ID: "seed-walnuts", Name: "Walnuts", ProteinPer100g: 15.2, CaloriesPer100g: 654, Category: "nuts", FoodType: model.FoodTypeVeg},
}

func seedCatalog(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`
INSERT OR IGNORE INTO foods(id, name, name_key, protein_per_100g, calories_per_100g, category, food_type, is_custom)
VALUES(?, ?, ?, ?, ?, ?, ?, 0)`)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range SeedFoods {
		if _, err := stmt.Exec(f.ID, f.Name, model.NameKey(f.Name), f.ProteinPer100g, f.CaloriesPer100g, f.Category, string(f.FoodType)); err != nil {
			return fmt.Errorf("seed food %s: %w", f.ID, err)
		}
	}
	return nil
}
