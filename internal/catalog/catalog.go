package catalog

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/storage"
)

// Catalog holds the normalized reference pools. It is built once at startup
// and must not be modified afterwards; concurrent readers need no locking.
type Catalog struct {
	Nutrition []NutritionRecord
	Workouts  []WorkoutRecord

	stats Stats
}

// Stats summarizes what normalization kept and dropped.
type Stats struct {
	NutritionRows     int `json:"nutrition_rows"`
	NutritionKept     int `json:"nutrition_kept"`
	WorkoutRows       int `json:"workout_rows"`
	DistinctExercises int `json:"distinct_exercises"`
}

// New builds a Catalog from already parsed tables.
func New(nutrition, workouts *storage.Table) *Catalog {
	c := &Catalog{
		Nutrition: NormalizeNutrition(nutrition.Rows),
		Workouts:  NormalizeWorkout(workouts.Rows, workouts.Header),
	}

	names := make(map[string]struct{}, len(c.Workouts))
	for _, w := range c.Workouts {
		names[w.ExerciseName] = struct{}{}
	}

	c.stats = Stats{
		NutritionRows:     len(nutrition.Rows),
		NutritionKept:     len(c.Nutrition),
		WorkoutRows:       len(workouts.Rows),
		DistinctExercises: len(names),
	}
	return c
}

// Load reads and normalizes both reference files. Failing to read either
// file is an error; an empty nutrition pool is only logged.
func Load(nutritionPath, workoutPath string, log logrus.FieldLogger) (*Catalog, error) {
	nutrition, err := storage.ReadTable(nutritionPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not load nutrition catalog")
	}
	workouts, err := storage.ReadTable(workoutPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not load exercise catalog")
	}

	c := New(nutrition, workouts)
	s := c.Stats()
	log.WithFields(logrus.Fields{
		"nutrition_rows":     s.NutritionRows,
		"nutrition_dropped":  s.NutritionRows - s.NutritionKept,
		"workout_rows":       s.WorkoutRows,
		"distinct_exercises": s.DistinctExercises,
	}).Info("reference catalogs loaded")

	if s.NutritionKept == 0 {
		log.Warn("nutrition pool is empty, diet plans will contain placeholders")
	}
	return c, nil
}

// Stats returns the load summary.
func (c *Catalog) Stats() Stats {
	return c.stats
}

// DistinctExercises is the number of unique exercise names in the pool.
func (c *Catalog) DistinctExercises() int {
	return c.stats.DistinctExercises
}
