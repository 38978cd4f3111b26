package planner

import (
	"math/rand/v2"

	"ai-fitness-planner/internal/catalog"
)

// MealSlot is a fixed meal category with its share of the daily calories.
type MealSlot struct {
	Name     string
	Fraction float64
}

// TargetCalories is the slot's share of the requested total.
func (s MealSlot) TargetCalories(totalCalories float64) float64 {
	return totalCalories * s.Fraction
}

// MealSlots lists the slots in plan order. Fractions sum to 1.0.
var MealSlots = []MealSlot{
	{Name: "Breakfast", Fraction: 0.25},
	{Name: "Lunch", Fraction: 0.35},
	{Name: "Dinner", Fraction: 0.30},
	{Name: "Snack", Fraction: 0.10},
}

const (
	ItemsPerMeal    = 3
	PlaceholderFood = "Placeholder Food"
)

// FoodItem is a catalog item as reported in a meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// Meal is one slot of a diet plan. Calories is the truncated slot target and
// is informational; item calories are catalog values and are not rescaled.
type Meal struct {
	Meal     string     `json:"meal"`
	Calories int        `json:"calories"`
	Items    []FoodItem `json:"items"`
}

// DietPlan is the ordered list of meals for a day.
type DietPlan []Meal

// GenerateDietPlan splits totalCalories across MealSlots and draws
// ItemsPerMeal distinct items for each slot. Slots are drawn independently,
// so an item may appear in more than one meal. When the pool cannot supply
// a slot, the slot is filled with zero-calorie placeholders.
func GenerateDietPlan(totalCalories float64, pool []catalog.NutritionRecord, rng *rand.Rand) DietPlan {
	plan := make(DietPlan, 0, len(MealSlots))
	for _, slot := range MealSlots {
		plan = append(plan, Meal{
			Meal:     slot.Name,
			Calories: int(slot.TargetCalories(totalCalories)),
			Items:    sampleFoods(pool, rng),
		})
	}
	return plan
}

func sampleFoods(pool []catalog.NutritionRecord, rng *rand.Rand) []FoodItem {
	items := make([]FoodItem, 0, ItemsPerMeal)
	if len(pool) < ItemsPerMeal {
		for range ItemsPerMeal {
			items = append(items, FoodItem{Name: PlaceholderFood})
		}
		return items
	}

	for _, i := range sampleIndices(len(pool), ItemsPerMeal, rng) {
		items = append(items, FoodItem{Name: pool[i].Name, Calories: pool[i].Calories})
	}
	return items
}

// sampleIndices picks k distinct indices in [0, n) using Floyd's algorithm,
// which needs exactly k draws.
func sampleIndices(n, k int, rng *rand.Rand) []int {
	picked := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.IntN(j + 1)
		if _, dup := picked[t]; dup {
			t = j
		}
		picked[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
