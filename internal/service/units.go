package service

import (
	"fmt"
	"strconv"
	"strings"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
)

type unitDef struct {
	kind unitKind
	// grams for mass units, millilitres for volume units
	toBase float64
}

var unitTable = map[string]unitDef{
	"mg":  {kind: unitKindMass, toBase: 0.001},
	"g":   {kind: unitKindMass, toBase: 1},
	"kg":  {kind: unitKindMass, toBase: 1000},
	"oz":  {kind: unitKindMass, toBase: 28.349523125},
	"lb":  {kind: unitKindMass, toBase: 453.59237},
	"lbs": {kind: unitKindMass, toBase: 453.59237},

	"ml":    {kind: unitKindVolume, toBase: 1},
	"l":     {kind: unitKindVolume, toBase: 1000},
	"tsp":   {kind: unitKindVolume, toBase: 4.92892159375},
	"tbsp":  {kind: unitKindVolume, toBase: 14.78676478125},
	"cup":   {kind: unitKindVolume, toBase: 236.5882365},
	"fl-oz": {kind: unitKindVolume, toBase: 29.5735295625},
}

// ToGrams converts an amount to grams, the unit every catalog rate is
// expressed against. Volume units need a density in g/ml. An empty unit
// means grams.
func ToGrams(amount float64, unit string, densityGML float64) (float64, error) {
	if err := validatePositiveFloat("amount", amount); err != nil {
		return 0, err
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "g"
	}
	def, ok := unitTable[u]
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q", unit)
	}
	if def.kind == unitKindMass {
		return amount * def.toBase, nil
	}
	if densityGML <= 0 {
		return 0, fmt.Errorf("density-g-per-ml must be > 0 to convert %s to grams", u)
	}
	return amount * def.toBase * densityGML, nil
}

// ParseAmount splits "150", "5.3oz" or "1 cup" into a number and a unit.
func ParseAmount(raw string) (float64, string, error) {
	s := strings.TrimSpace(raw)
	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("invalid amount %q", raw)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid amount %q", raw)
	}
	return v, strings.TrimSpace(s[i:]), nil
}
