package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saadjs/mealwise/internal/model"
)

type Preferences struct {
	Diet             model.DietPreference `json:"dietPreference"`
	PreferredFoodIDs []string             `json:"preferredFoodIds"`
}

func ParseDietPreference(raw string) (model.DietPreference, error) {
	p := model.DietPreference(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid diet preference %q (expected vegetarian, eggetarian or non-vegetarian)", raw)
	}
	return p, nil
}

func SetDietPreference(db execer, p model.DietPreference) error {
	if !p.Valid() {
		return fmt.Errorf("invalid diet preference %q (expected vegetarian, eggetarian or non-vegetarian)", p)
	}
	return SetConfig(db, ConfigDietPreference, string(p))
}

// DietPreference defaults to non-vegetarian, which filters nothing.
func DietPreference(db *sql.DB) (model.DietPreference, error) {
	raw, ok, err := GetConfig(db, ConfigDietPreference)
	if err != nil {
		return "", err
	}
	if !ok {
		return model.DietNonVegetarian, nil
	}
	return ParseDietPreference(raw)
}

// SetPreferredFoods replaces the preferred set. Every id must exist; an
// empty list clears the restriction.
func SetPreferredFoods(db *sql.DB, ids []string) error {
	clean := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, err := FoodByID(db, id); err != nil {
			return err
		}
		seen[id] = true
		clean = append(clean, id)
	}
	return storePreferredFoods(db, clean)
}

func storePreferredFoods(db execer, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode preferred foods: %w", err)
	}
	return SetConfig(db, ConfigPreferredFoodIDs, string(raw))
}

func PreferredFoods(db *sql.DB) ([]string, error) {
	raw, ok, err := GetConfig(db, ConfigPreferredFoodIDs)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if !ok || raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode preferred foods: %w", err)
	}
	return ids, nil
}

func LoadPreferences(db *sql.DB) (Preferences, error) {
	diet, err := DietPreference(db)
	if err != nil {
		return Preferences{}, err
	}
	ids, err := PreferredFoods(db)
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{Diet: diet, PreferredFoodIDs: ids}, nil
}
