package planner

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/shared"
)

// DefaultScoreTimeout bounds a single scorer call.
const DefaultScoreTimeout = 10 * time.Second

// Planner generates diet and workout plans from a loaded catalog.
// All randomness comes from a single source that is safe for concurrent use.
type Planner struct {
	catalog *catalog.Catalog
	scorer  Scorer
	log     logrus.FieldLogger

	scoreTimeout time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// WorkoutResult is a generated workout plan with the scoring outcome.
type WorkoutResult struct {
	Plan WorkoutPlan
	// Scores are the scorer output, or FallbackScores when Fallback is set.
	Scores   []float64
	Fallback bool
	Meta     shared.AgentMeta
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewPlanner creates a Planner. scorer may be nil.
func NewPlanner(c *catalog.Catalog, scorer Scorer, rng *rand.Rand, log logrus.FieldLogger) *Planner {
	return &Planner{
		catalog: c,
		scorer:  scorer,
		log:     log,
		rng:     rng,

		scoreTimeout: DefaultScoreTimeout,
	}
}

// DietPlan builds a diet plan for totalCalories, which must be positive.
func (p *Planner) DietPlan(totalCalories float64) DietPlan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return GenerateDietPlan(totalCalories, p.catalog.Nutrition, p.rng)
}

// WorkoutPlan consults the scorer and builds a workout plan for goal.
// A scorer failure is logged and replaced with FallbackScores.
func (p *Planner) WorkoutPlan(ctx context.Context, goal string) (WorkoutResult, error) {
	p.mu.Lock()
	features := randomFeatures(p.rng)
	p.mu.Unlock()

	result := p.score(ctx, goal, features)

	p.mu.Lock()
	plan, err := GenerateWorkoutPlan(goal, p.catalog.Workouts, p.rng)
	p.mu.Unlock()
	if err != nil {
		return result, err
	}
	result.Plan = plan
	return result, nil
}

func (p *Planner) score(ctx context.Context, goal string, features []float64) WorkoutResult {
	if p.scorer == nil {
		return WorkoutResult{Scores: slices.Clone(FallbackScores), Fallback: true}
	}

	ctx, cancel := context.WithTimeout(ctx, p.scoreTimeout)
	defer cancel()

	res, err := p.scorer.Score(ctx, goal, features)
	if err != nil {
		p.log.WithError(err).WithField("goal", goal).Warn("scoring failed, using fallback scores")
		return WorkoutResult{Scores: slices.Clone(FallbackScores), Fallback: true, Meta: res.Meta}
	}

	p.log.WithFields(logrus.Fields{
		"goal":   goal,
		"scores": res.Scores,
	}).Debug("workout scored")
	return WorkoutResult{Scores: res.Scores, Meta: res.Meta}
}
