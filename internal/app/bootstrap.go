package app

import (
	"context"
	"math/rand/v2"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/config"
	"ai-fitness-planner/internal/database"
	"ai-fitness-planner/internal/llm"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/planner"
)

// NewLogger returns the process logger with the structured JSON layout.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.Level = logrus.InfoLevel
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.Level = logrus.DebugLevel
	}
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
	return log
}

// Runtime bundles an App with the resources it owns.
type Runtime struct {
	App     *App
	Metrics *metrics.Store

	closers []func() error
}

// Close releases the scorer client and the metrics database.
func (r *Runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build loads the catalogs and wires the planner, scorer and optional
// metrics store described by cfg.
func Build(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Runtime, error) {
	c, err := catalog.Load(cfg.NutritionDataPath, cfg.WorkoutDataPath, log)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}

	scorer, err := newScorer(ctx, cfg, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var recorder metrics.Recorder
	if cfg.MetricsDBPath != "" {
		db, err := database.NewDB(cfg.MetricsDBPath)
		if err != nil {
			rt.Close()
			return nil, errors.Wrap(err, "failed to initialize metrics database")
		}
		rt.closers = append(rt.closers, db.Close)
		rt.Metrics = metrics.NewStore(db.SQL)
		recorder = rt.Metrics
	}

	seed := rand.Uint64()
	if cfg.RandomSeed != nil {
		seed = *cfg.RandomSeed
	}
	log.WithFields(logrus.Fields{
		"seed":    seed,
		"scorer":  cfg.ScorerProvider,
		"metrics": cfg.MetricsDBPath != "",
	}).Info("planner configured")

	p := planner.NewPlanner(c, scorer, planner.NewRand(seed), log)
	rt.App = NewApp(c, p, recorder, log)
	return rt, nil
}

func newScorer(ctx context.Context, cfg *config.Config, rt *Runtime) (planner.Scorer, error) {
	switch cfg.ScorerProvider {
	case config.ScorerGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Gemini client")
		}
		rt.closers = append(rt.closers, client.Close)
		return planner.NewModelScorer(client), nil
	case config.ScorerGroq:
		return planner.NewModelScorer(llm.NewGroqClient(cfg)), nil
	default:
		return nil, nil
	}
}
