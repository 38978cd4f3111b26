package planner

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
)

type stubScorer struct {
	scores []float64
	err    error
	calls  int
}

func (s *stubScorer) Score(ctx context.Context, goal string, features []float64) (ScoreResult, error) {
	s.calls++
	if s.err != nil {
		return ScoreResult{}, s.err
	}
	return ScoreResult{Scores: s.scores}, nil
}

// blockingScorer waits until its context is cancelled.
type blockingScorer struct{}

func (blockingScorer) Score(ctx context.Context, goal string, features []float64) (ScoreResult, error) {
	<-ctx.Done()
	return ScoreResult{}, ctx.Err()
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Nutrition: nutritionPool(10),
		Workouts:  workoutPool("Squat", "Bench", "Row", "Deadlift", "Press", "Curl", "Squat"),
	}
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestPlanner_WorkoutPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("NoScorer", func(t *testing.T) {
		p := NewPlanner(testCatalog(), nil, NewRand(1), quietLogger())
		res, err := p.WorkoutPlan(ctx, "strength")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		checkWorkoutPlan(t, res.Plan)
		if !res.Fallback || !reflect.DeepEqual(res.Scores, FallbackScores) {
			t.Errorf("Expected fallback scores, got %+v", res)
		}
	})

	t.Run("ScorerFailureFallsBack", func(t *testing.T) {
		scorer := &stubScorer{err: errors.New("model unavailable")}
		p := NewPlanner(testCatalog(), scorer, NewRand(1), quietLogger())
		res, err := p.WorkoutPlan(ctx, "strength")
		if err != nil {
			t.Fatalf("Expected scoring failure not to block the plan, got %v", err)
		}
		checkWorkoutPlan(t, res.Plan)
		if scorer.calls != 1 || !res.Fallback {
			t.Errorf("Expected one scorer call and a fallback, got calls=%d fallback=%v", scorer.calls, res.Fallback)
		}
	})

	t.Run("StalledScorerTimesOut", func(t *testing.T) {
		p := NewPlanner(testCatalog(), blockingScorer{}, NewRand(1), quietLogger())
		p.scoreTimeout = 50 * time.Millisecond

		done := make(chan WorkoutResult, 1)
		go func() {
			res, err := p.WorkoutPlan(context.Background(), "strength")
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			done <- res
		}()

		select {
		case res := <-done:
			checkWorkoutPlan(t, res.Plan)
			if !res.Fallback || !reflect.DeepEqual(res.Scores, FallbackScores) {
				t.Errorf("Expected fallback scores after timeout, got %+v", res)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("WorkoutPlan still blocked on the scorer")
		}
	})

	t.Run("ScorerOutputDoesNotChangeSelection", func(t *testing.T) {
		a, _ := NewPlanner(testCatalog(), nil, NewRand(9), quietLogger()).WorkoutPlan(ctx, "strength")
		scorer := &stubScorer{scores: []float64{1, 1, 1, 1, 1}}
		b, _ := NewPlanner(testCatalog(), scorer, NewRand(9), quietLogger()).WorkoutPlan(ctx, "strength")
		if !reflect.DeepEqual(a.Plan, b.Plan) {
			t.Errorf("Expected identical plans:\n%+v\n%+v", a.Plan, b.Plan)
		}
		if b.Fallback || b.Scores[0] != 1 {
			t.Errorf("Expected scorer output to be reported, got %+v", b)
		}
	})

	t.Run("InsufficientExercises", func(t *testing.T) {
		c := &catalog.Catalog{Workouts: workoutPool("A", "B")}
		p := NewPlanner(c, nil, NewRand(1), quietLogger())
		_, err := p.WorkoutPlan(ctx, "strength")
		if !errors.Is(err, ErrInsufficientExercises) {
			t.Fatalf("Expected ErrInsufficientExercises, got %v", err)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, _ := NewPlanner(testCatalog(), nil, NewRand(3), quietLogger()).WorkoutPlan(ctx, "strength")
		b, _ := NewPlanner(testCatalog(), nil, NewRand(3), quietLogger()).WorkoutPlan(ctx, "strength")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Expected identical results for the same seed")
		}
	})
}

func TestPlanner_DietPlan(t *testing.T) {
	a := NewPlanner(testCatalog(), nil, NewRand(5), quietLogger()).DietPlan(1800)
	b := NewPlanner(testCatalog(), nil, NewRand(5), quietLogger()).DietPlan(1800)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical diet plans for the same seed")
	}
	if len(a) != 4 {
		t.Errorf("Expected 4 meals, got %d", len(a))
	}
}

func TestPlanner_Concurrent(t *testing.T) {
	p := NewPlanner(testCatalog(), nil, NewRand(1), quietLogger())
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.DietPlan(2000)
			if _, err := p.WorkoutPlan(context.Background(), "strength"); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
}
