package planner

type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnacks    Slot = "snacks"
)

// SlotConfig is one row of the budget split. Categories are matched
// against FoodItem.Category in order of preference.
type SlotConfig struct {
	Slot         Slot     `json:"slot"`
	CalorieShare float64  `json:"calorieShare"`
	ProteinShare float64  `json:"proteinShare"`
	Categories   []string `json:"categories"`
}

// DefaultSlots returns a fresh copy of the standard four-slot table.
func DefaultSlots() []SlotConfig {
	return []SlotConfig{
		{Slot: SlotBreakfast, CalorieShare: 0.25, ProteinShare: 0.20, Categories: []string{"grains", "dairy", "fruits"}},
		{Slot: SlotLunch, CalorieShare: 0.35, ProteinShare: 0.35, Categories: []string{"grains", "protein", "legumes", "vegetables"}},
		{Slot: SlotDinner, CalorieShare: 0.30, ProteinShare: 0.35, Categories: []string{"grains", "protein", "vegetables", "legumes"}},
		{Slot: SlotSnacks, CalorieShare: 0.10, ProteinShare: 0.10, Categories: []string{"fruits", "nuts", "dairy"}},
	}
}
