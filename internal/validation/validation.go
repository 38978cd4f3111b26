package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages returned to callers for missing or invalid fields.
const (
	MsgCalories = "Please provide the desired calorie intake"
	MsgGoal     = "Please provide your fitness goal (e.g., strength, cardio)."
)

// MaxCalories is the largest accepted daily calorie target.
const MaxCalories = 1e6

var validate = validator.New(validator.WithRequiredStructEnabled())

// DietRequest is the input of a diet recommendation. Calories may arrive as
// a JSON number or a numeric string.
type DietRequest struct {
	Calories json.Number `json:"calories" validate:"required"`
}

// WorkoutRequest is the input of a workout recommendation.
type WorkoutRequest struct {
	Goal string `json:"goal" validate:"required"`
}

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateDietRequest returns the requested calories, which are positive and
// at most MaxCalories.
func ValidateDietRequest(req DietRequest) (float64, error) {
	req.Calories = json.Number(strings.TrimSpace(string(req.Calories)))
	if err := validate.Struct(req); err != nil {
		return 0, &ValidationError{Field: "calories", Message: MsgCalories}
	}

	calories, err := req.Calories.Float64()
	if err != nil || math.IsNaN(calories) || math.IsInf(calories, 0) || calories <= 0 || calories > MaxCalories {
		return 0, &ValidationError{Field: "calories", Message: MsgCalories}
	}
	return calories, nil
}

// ValidateWorkoutRequest returns the trimmed, lowercased goal.
func ValidateWorkoutRequest(req WorkoutRequest) (string, error) {
	req.Goal = strings.ToLower(strings.TrimSpace(req.Goal))
	if err := validate.Struct(req); err != nil {
		return "", &ValidationError{Field: "goal", Message: MsgGoal}
	}
	return req.Goal, nil
}
