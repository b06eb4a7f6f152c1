// Package planner builds a daily meal plan by splitting calorie and protein
// goals across meal slots and greedily picking protein-dense foods.
//
// Plans are intentionally non-deterministic: every call samples the item
// count and the candidate picks, so regenerating yields a different plan.
// Inject a seeded source through Options to pin the output in tests.
package planner

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/saadjs/mealwise/internal/model"
)

const (
	minItems     = 2
	maxItems     = 4
	topPicks     = 5
	minGrams     = 20
	maxGrams     = 500
	earlyStopPct = 0.9
)

// Rand is the subset of *rand.Rand the generator draws from.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

type Options struct {
	// Rand defaults to the process-wide source, which is safe for
	// concurrent use. A *rand.Rand is not; give each goroutine its own.
	Rand  Rand
	Slots []SlotConfig
}

type Generator struct {
	rnd   Rand
	slots []SlotConfig
}

func New(opts Options) *Generator {
	g := &Generator{rnd: opts.Rand, slots: opts.Slots}
	if g.rnd == nil {
		g.rnd = globalRand{}
	}
	if len(g.slots) == 0 {
		g.slots = DefaultSlots()
	}
	return g
}

type MealSuggestion struct {
	FoodID   string         `json:"foodId"`
	FoodName string         `json:"foodName"`
	Quantity int            `json:"quantity"`
	Protein  float64        `json:"protein"`
	Calories int            `json:"calories"`
	FoodType model.FoodType `json:"foodType"`
}

type Meal struct {
	Slot           Slot             `json:"slot"`
	TargetCalories float64          `json:"targetCalories"`
	TargetProtein  float64          `json:"targetProtein"`
	Items          []MealSuggestion `json:"items"`
}

func (m Meal) Calories() int {
	total := 0
	for _, it := range m.Items {
		total += it.Calories
	}
	return total
}

func (m Meal) Protein() float64 {
	total := 0.0
	for _, it := range m.Items {
		total += it.Protein
	}
	return total
}

type MealPlan struct {
	Meals         []Meal  `json:"meals"`
	TotalCalories int     `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
}

// Items returns the suggestions for a slot, or nil when the plan has none.
func (p MealPlan) Items(slot Slot) []MealSuggestion {
	for _, m := range p.Meals {
		if m.Slot == slot {
			return m.Items
		}
	}
	return nil
}

// Generate produces a plan from an already diet-filtered catalog. A
// non-empty preferredIDs restricts candidates to those ids. Degenerate
// input yields empty slots, never an error.
func (g *Generator) Generate(foods []model.FoodItem, goals model.DailyGoals, preferredIDs []string) MealPlan {
	candidates := eligible(foods, preferredIDs)

	plan := MealPlan{Meals: make([]Meal, 0, len(g.slots))}
	for _, slot := range g.slots {
		meal := Meal{
			Slot:           slot.Slot,
			TargetCalories: goals.CalorieGoal * slot.CalorieShare,
			TargetProtein:  goals.ProteinGoal * slot.ProteinShare,
		}
		meal.Items = g.fillMeal(candidates, meal.TargetCalories, slot.Categories)
		for _, it := range meal.Items {
			plan.TotalCalories += it.Calories
			plan.TotalProtein += it.Protein
		}
		plan.Meals = append(plan.Meals, meal)
	}
	plan.TotalProtein = round1(plan.TotalProtein)
	return plan
}

// eligible drops foods that cannot be portioned by calories (zero or
// negative rate), unnamed rows, and anything outside the preferred set.
func eligible(foods []model.FoodItem, preferredIDs []string) []model.FoodItem {
	var preferred map[string]struct{}
	if len(preferredIDs) > 0 {
		preferred = make(map[string]struct{}, len(preferredIDs))
		for _, id := range preferredIDs {
			preferred[id] = struct{}{}
		}
	}
	out := make([]model.FoodItem, 0, len(foods))
	for _, f := range foods {
		if f.ID == "" || f.Name == "" || !(f.CaloriesPer100g > 0) {
			continue
		}
		if preferred != nil {
			if _, ok := preferred[f.ID]; !ok {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func (g *Generator) fillMeal(foods []model.FoodItem, targetCalories float64, categories []string) []MealSuggestion {
	suggestions := make([]MealSuggestion, 0, maxItems)
	if len(foods) == 0 {
		return suggestions
	}

	pool := byCategory(foods, categories)
	if len(pool) == 0 {
		pool = append([]model.FoodItem(nil), foods...)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return proteinRatio(pool[i]) > proteinRatio(pool[j])
	})

	numItems := minItems + g.rnd.Intn(maxItems-minItems+1)
	perItem := targetCalories / float64(numItems)
	current := 0.0

	for len(suggestions) < numItems && len(pool) > 0 {
		idx := g.rnd.Intn(min(topPicks, len(pool)))
		food := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		// A rejected portion depends only on the food, so drop it from the
		// pool and keep the slot's item budget untouched.
		grams := int(math.Round(perItem / food.CaloriesPer100g * 100))
		if grams < minGrams || grams > maxGrams {
			continue
		}

		calories := food.CaloriesPer100g * float64(grams) / 100
		protein := food.ProteinPer100g * float64(grams) / 100
		suggestions = append(suggestions, MealSuggestion{
			FoodID:   food.ID,
			FoodName: food.Name,
			Quantity: grams,
			Protein:  round1(protein),
			Calories: int(math.Round(calories)),
			FoodType: food.FoodType,
		})

		current += calories
		if slotFilled(current, targetCalories) {
			break
		}
	}
	return suggestions
}

// slotFilled reports whether a slot is close enough to its calorie target
// to stop adding items.
func slotFilled(current, target float64) bool {
	return current >= target*earlyStopPct
}

func byCategory(foods []model.FoodItem, categories []string) []model.FoodItem {
	if len(categories) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[normalizeCategory(c)] = struct{}{}
	}
	out := make([]model.FoodItem, 0, len(foods))
	for _, f := range foods {
		c := normalizeCategory(f.Category)
		if c == "" {
			continue
		}
		if _, ok := wanted[c]; ok {
			out = append(out, f)
		}
	}
	return out
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func proteinRatio(f model.FoodItem) float64 {
	return f.ProteinPer100g / f.CaloriesPer100g
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
