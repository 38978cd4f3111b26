package catalog

import (
	"math"
	"strconv"
	"strings"

	"ai-fitness-planner/internal/storage"
)

// Column names of the nutrition reference table.
const (
	ColumnFoodName      = "name"
	ColumnCalories      = "Calories"
	ColumnFat           = "Fat"
	ColumnProtein       = "Protein"
	ColumnCarbohydrates = "Carbohydrates"
)

// NutritionRecord is a normalized food item from the nutrition catalog.
type NutritionRecord struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
}

// NormalizeNutrition converts raw rows into NutritionRecords. A row is
// dropped when its name is empty or any numeric field fails coercion.
func NormalizeNutrition(rows []storage.Row) []NutritionRecord {
	records := make([]NutritionRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := normalizeNutritionRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func normalizeNutritionRow(row storage.Row) (NutritionRecord, bool) {
	name := strings.TrimSpace(row[ColumnFoodName])
	if name == "" {
		return NutritionRecord{}, false
	}

	calories, ok := parseNumber(row[ColumnCalories])
	if !ok {
		return NutritionRecord{}, false
	}
	fat, ok := parseGrams(row[ColumnFat])
	if !ok {
		return NutritionRecord{}, false
	}
	protein, ok := parseGrams(row[ColumnProtein])
	if !ok {
		return NutritionRecord{}, false
	}
	carbs, ok := parseGrams(row[ColumnCarbohydrates])
	if !ok {
		return NutritionRecord{}, false
	}

	return NutritionRecord{
		Name:          name,
		Calories:      calories,
		Fat:           fat,
		Protein:       protein,
		Carbohydrates: carbs,
	}, true
}

// parseGrams strips a trailing gram unit ("12.5 g", "12.5g") before parsing.
func parseGrams(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "g")
	return parseNumber(s)
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
