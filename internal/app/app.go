package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/planner"
	"ai-fitness-planner/internal/shared"
	"ai-fitness-planner/internal/validation"
)

// App holds the application's dependencies and is shared by every transport.
type App struct {
	catalog  *catalog.Catalog
	planner  *planner.Planner
	recorder metrics.Recorder
	log      logrus.FieldLogger
}

// NewApp creates and initializes a new App instance. recorder may be nil.
func NewApp(c *catalog.Catalog, p *planner.Planner, recorder metrics.Recorder, log logrus.FieldLogger) *App {
	return &App{
		catalog:  c,
		planner:  p,
		recorder: recorder,
		log:      log,
	}
}

// Catalog returns the loaded reference pools.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// RecommendDiet validates req and builds a diet plan.
func (a *App) RecommendDiet(ctx context.Context, req validation.DietRequest) (planner.DietPlan, error) {
	start := time.Now()
	calories, err := validation.ValidateDietRequest(req)
	if err != nil {
		a.record(ctx, metrics.OperationDiet, metrics.OutcomeInvalid, shared.AgentMeta{}, false, start)
		return nil, err
	}

	a.log.WithField("calories", calories).Info("generating diet plan")
	plan := a.planner.DietPlan(calories)

	a.record(ctx, metrics.OperationDiet, metrics.OutcomeOK, shared.AgentMeta{}, false, start)
	return plan, nil
}

// RecommendWorkout validates req and builds a workout plan.
func (a *App) RecommendWorkout(ctx context.Context, req validation.WorkoutRequest) (planner.WorkoutPlan, error) {
	start := time.Now()
	goal, err := validation.ValidateWorkoutRequest(req)
	if err != nil {
		a.record(ctx, metrics.OperationWorkout, metrics.OutcomeInvalid, shared.AgentMeta{}, false, start)
		return nil, err
	}

	log := a.log.WithField("goal", goal)
	log.Info("generating workout plan")

	res, err := a.planner.WorkoutPlan(ctx, goal)
	if err != nil {
		if errors.Is(err, planner.ErrInsufficientExercises) {
			log.WithError(err).Error("exercise pool cannot satisfy a workout plan")
		}
		a.record(ctx, metrics.OperationWorkout, metrics.OutcomeFailed, res.Meta, res.Fallback, start)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"scores":         res.Scores,
		"score_fallback": res.Fallback,
	}).Debug("workout plan generated")

	a.record(ctx, metrics.OperationWorkout, metrics.OutcomeOK, res.Meta, res.Fallback, start)
	return res.Plan, nil
}

func (a *App) record(ctx context.Context, operation, outcome string, meta shared.AgentMeta, fallback bool, start time.Time) {
	if a.recorder == nil {
		return
	}
	m := metrics.MapUsage(operation, outcome, meta, fallback, time.Since(start))
	if err := a.recorder.Record(ctx, m); err != nil {
		a.log.WithError(err).Warn("failed to record execution metric")
	}
}
