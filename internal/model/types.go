package model

import "time"

type FoodType string

const (
	FoodTypeVeg    FoodType = "veg"
	FoodTypeEgg    FoodType = "egg"
	FoodTypeNonVeg FoodType = "non-veg"
)

func (t FoodType) Valid() bool {
	switch t {
	case FoodTypeVeg, FoodTypeEgg, FoodTypeNonVeg:
		return true
	}
	return false
}

type DietPreference string

const (
	DietVegetarian    DietPreference = "vegetarian"
	DietEggetarian    DietPreference = "eggetarian"
	DietNonVegetarian DietPreference = "non-vegetarian"
)

func (p DietPreference) Valid() bool {
	switch p {
	case DietVegetarian, DietEggetarian, DietNonVegetarian:
		return true
	}
	return false
}

type FoodItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ProteinPer100g  float64  `json:"proteinPer100g"`
	CaloriesPer100g float64  `json:"caloriesPer100g"`
	Category        string   `json:"category,omitempty"`
	FoodType        FoodType `json:"foodType"`
	IsCustom        bool     `json:"isCustom"`
}

type DailyGoals struct {
	CalorieGoal float64 `json:"calorieGoal"`
	ProteinGoal float64 `json:"proteinGoal"`
}

// IntakeEntry macros are frozen when the entry is logged. Date is the
// user-local calendar day (YYYY-MM-DD) and drives every day bucket;
// Timestamp (epoch millis) only orders entries within a day.
type IntakeEntry struct {
	ID        string   `json:"id"`
	FoodID    string   `json:"foodId"`
	FoodName  string   `json:"foodName"`
	Quantity  float64  `json:"quantity"`
	Protein   float64  `json:"protein"`
	Calories  float64  `json:"calories"`
	Date      string   `json:"date"`
	Timestamp int64    `json:"timestamp"`
	FoodType  FoodType `json:"foodType,omitempty"`
}

type RecipeIngredient struct {
	FoodID   string   `json:"foodId"`
	FoodName string   `json:"foodName"`
	Quantity float64  `json:"quantity"`
	Protein  float64  `json:"protein"`
	Calories float64  `json:"calories"`
	FoodType FoodType `json:"foodType"`
}

type Recipe struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category,omitempty"`
	Tags               []string           `json:"tags,omitempty"`
	Servings           float64            `json:"servings"`
	Ingredients        []RecipeIngredient `json:"ingredients"`
	TotalCalories      float64            `json:"totalCalories"`
	TotalProtein       float64            `json:"totalProtein"`
	CaloriesPerServing float64            `json:"caloriesPerServing"`
	ProteinPerServing  float64            `json:"proteinPerServing"`
	FoodType           FoodType           `json:"foodType"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}
