package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/planner"
	"ai-fitness-planner/internal/validation"
)

type mockRecorder struct {
	records []metrics.ExecutionMetric
	err     error
}

func (m *mockRecorder) Record(ctx context.Context, em metrics.ExecutionMetric) error {
	m.records = append(m.records, em)
	return m.err
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func testCatalog(exercises int) *catalog.Catalog {
	c := &catalog.Catalog{}
	for i := range 12 {
		c.Nutrition = append(c.Nutrition, catalog.NutritionRecord{Name: fmt.Sprintf("Food %d", i), Calories: 50})
	}
	for i := range exercises {
		c.Workouts = append(c.Workouts, catalog.WorkoutRecord{ExerciseName: fmt.Sprintf("Exercise %d", i)})
	}
	return c
}

func newTestApp(c *catalog.Catalog, seed uint64, rec metrics.Recorder) *App {
	log := quietLogger()
	return NewApp(c, planner.NewPlanner(c, nil, planner.NewRand(seed), log), rec, log)
}

func TestRecommendDiet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rec := &mockRecorder{}
		plan, err := newTestApp(testCatalog(8), 1, rec).RecommendDiet(ctx, validation.DietRequest{Calories: json.Number("2000")})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(plan) != 4 || plan[0].Calories != 500 || plan[1].Calories != 700 {
			t.Errorf("Unexpected plan: %+v", plan)
		}
		if len(rec.records) != 1 || rec.records[0].Outcome != metrics.OutcomeOK || rec.records[0].Operation != metrics.OperationDiet {
			t.Errorf("Expected one ok diet metric, got %+v", rec.records)
		}
	})

	t.Run("MissingCalories", func(t *testing.T) {
		rec := &mockRecorder{}
		plan, err := newTestApp(testCatalog(8), 1, rec).RecommendDiet(ctx, validation.DietRequest{})
		var vErr *validation.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected a ValidationError, got %v", err)
		}
		if plan != nil {
			t.Errorf("Expected no plan, got %+v", plan)
		}
		if len(rec.records) != 1 || rec.records[0].Outcome != metrics.OutcomeInvalid {
			t.Errorf("Expected one invalid metric, got %+v", rec.records)
		}
	})

	t.Run("RecorderFailureIgnored", func(t *testing.T) {
		rec := &mockRecorder{err: errors.New("disk full")}
		if _, err := newTestApp(testCatalog(8), 1, rec).RecommendDiet(ctx, validation.DietRequest{Calories: "1500"}); err != nil {
			t.Fatalf("Expected metrics failure to be ignored, got %v", err)
		}
	})

	t.Run("NilRecorder", func(t *testing.T) {
		if _, err := newTestApp(testCatalog(8), 1, nil).RecommendDiet(ctx, validation.DietRequest{Calories: "1500"}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})
}

func TestRecommendWorkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rec := &mockRecorder{}
		plan, err := newTestApp(testCatalog(8), 1, rec).RecommendWorkout(ctx, validation.WorkoutRequest{Goal: "Strength"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(plan) != planner.ExercisesPerPlan {
			t.Errorf("Expected %d exercises, got %d", planner.ExercisesPerPlan, len(plan))
		}
		if len(rec.records) != 1 || !rec.records[0].ScoreFallback {
			t.Errorf("Expected one metric with score fallback, got %+v", rec.records)
		}
	})

	t.Run("MissingGoal", func(t *testing.T) {
		plan, err := newTestApp(testCatalog(8), 1, nil).RecommendWorkout(ctx, validation.WorkoutRequest{})
		var vErr *validation.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "goal" {
			t.Fatalf("Expected a goal ValidationError, got %v", err)
		}
		if plan != nil {
			t.Errorf("Expected no plan, got %+v", plan)
		}
	})

	t.Run("InsufficientExercises", func(t *testing.T) {
		rec := &mockRecorder{}
		_, err := newTestApp(testCatalog(4), 1, rec).RecommendWorkout(ctx, validation.WorkoutRequest{Goal: "cardio"})
		if !errors.Is(err, planner.ErrInsufficientExercises) {
			t.Fatalf("Expected ErrInsufficientExercises, got %v", err)
		}
		if len(rec.records) != 1 || rec.records[0].Outcome != metrics.OutcomeFailed {
			t.Errorf("Expected one failed metric, got %+v", rec.records)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, _ := newTestApp(testCatalog(20), 42, nil).RecommendWorkout(ctx, validation.WorkoutRequest{Goal: "strength"})
		b, _ := newTestApp(testCatalog(20), 42, nil).RecommendWorkout(ctx, validation.WorkoutRequest{Goal: "strength"})
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Expected identical plans for the same seed")
		}
	})
}
