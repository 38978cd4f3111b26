package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"math"
	"math/rand/v2"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"ai-fitness-planner/internal/llm"
	"ai-fitness-planner/internal/shared"
)

//go:embed scorer_prompt.md
var scorerPrompt string

var scorerTemplate = template.Must(template.New("Scorer").Parse(scorerPrompt))

// FeatureCount is the length of the feature vector handed to a Scorer.
const FeatureCount = 57

// FallbackScores replace the scorer output whenever scoring fails.
var FallbackScores = []float64{0.5, 0.6, 0.7, 0.8, 0.9}

// ScoreResult is the output of a Scorer together with its execution metadata.
type ScoreResult struct {
	Scores []float64
	Meta   shared.AgentMeta
}

// Scorer is an optional model consulted before exercise sampling. Its
// output is informational and never changes which exercises are drawn.
type Scorer interface {
	Score(ctx context.Context, goal string, features []float64) (ScoreResult, error)
}

// ModelScorer asks a text model for per-slot scores.
type ModelScorer struct {
	textGen llm.TextGenerator
}

// NewModelScorer creates a Scorer backed by textGen.
func NewModelScorer(textGen llm.TextGenerator) *ModelScorer {
	return &ModelScorer{textGen: textGen}
}

// Score implements Scorer.
func (s *ModelScorer) Score(ctx context.Context, goal string, features []float64) (ScoreResult, error) {
	start := time.Now()
	prompt, err := buildScorerPrompt(goal, features)
	if err != nil {
		return ScoreResult{}, err
	}

	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ScoreResult{}, errors.Wrap(err, "scorer model call failed")
	}

	meta := shared.AgentMeta{
		AgentName: "Scorer",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	scores, err := parseScores(resp.Content)
	if err != nil {
		return ScoreResult{Meta: meta}, err
	}
	return ScoreResult{Scores: scores, Meta: meta}, nil
}

func buildScorerPrompt(goal string, features []float64) (string, error) {
	var buf bytes.Buffer
	err := scorerTemplate.Execute(&buf, struct {
		Goal     string
		Features []float64
		Count    int
	}{goal, features, ExercisesPerPlan})
	if err != nil {
		return "", errors.Wrap(err, "failed to render scorer prompt")
	}
	return buf.String(), nil
}

func parseScores(content string) ([]float64, error) {
	var out struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scores: %s", content)
	}
	if len(out.Scores) != ExercisesPerPlan {
		return nil, errors.Errorf("expected %d scores, got %d", ExercisesPerPlan, len(out.Scores))
	}
	for _, v := range out.Scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("scores must be finite")
		}
	}
	return out.Scores, nil
}

func randomFeatures(rng *rand.Rand) []float64 {
	features := make([]float64, FeatureCount)
	for i := range features {
		features[i] = rng.Float64()
	}
	return features
}
