package planner

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"ai-fitness-planner/internal/catalog"
)

// ExercisesPerPlan is the number of distinct exercises in a workout plan.
const ExercisesPerPlan = 5

// Prescription bounds, inclusive.
const (
	MinSets, MaxSets                       = 2, 4
	MinReps, MaxReps                       = 6, 12
	MinDurationMinutes, MaxDurationMinutes = 5, 15
)

// ErrInsufficientExercises is returned when the pool holds fewer distinct
// exercise names than a plan needs.
var ErrInsufficientExercises = errors.New("insufficient distinct exercises")

// ExercisePrescription is a selected exercise with its sets, reps and duration.
type ExercisePrescription struct {
	Exercise        string `json:"exercise"`
	Sets            int    `json:"sets"`
	Reps            int    `json:"reps"`
	DurationMinutes int    `json:"duration_minutes"`
}

// WorkoutPlan holds ExercisesPerPlan prescriptions with distinct exercises.
type WorkoutPlan []ExercisePrescription

// GenerateWorkoutPlan draws records uniformly without replacement, skipping
// names already chosen, until ExercisesPerPlan distinct exercises are found.
// The walk visits each record at most once, so it stops after len(pool)
// draws at the latest. goal does not influence the selection.
func GenerateWorkoutPlan(goal string, pool []catalog.WorkoutRecord, rng *rand.Rand) (WorkoutPlan, error) {
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}

	chosen := make(map[string]struct{}, ExercisesPerPlan)
	plan := make(WorkoutPlan, 0, ExercisesPerPlan)
	for i := 0; i < len(order) && len(plan) < ExercisesPerPlan; i++ {
		j := i + rng.IntN(len(order)-i)
		order[i], order[j] = order[j], order[i]

		name := pool[order[i]].ExerciseName
		if _, dup := chosen[name]; dup {
			continue
		}
		chosen[name] = struct{}{}

		plan = append(plan, ExercisePrescription{
			Exercise:        name,
			Sets:            uniformInt(rng, MinSets, MaxSets),
			Reps:            uniformInt(rng, MinReps, MaxReps),
			DurationMinutes: uniformInt(rng, MinDurationMinutes, MaxDurationMinutes),
		})
	}

	if len(plan) < ExercisesPerPlan {
		return nil, errors.Wrapf(ErrInsufficientExercises,
			"goal %q: found %d of %d in %d records", goal, len(plan), ExercisesPerPlan, len(pool))
	}
	return plan, nil
}

func uniformInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
