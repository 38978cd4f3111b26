package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-fitness-planner/internal/llm"
	"ai-fitness-planner/internal/shared"
)

type MockTextGenerator struct {
	content string
	err     error
	prompts []string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 10, Model: "mock"},
	}, nil
}

func TestModelScorer(t *testing.T) {
	ctx := context.Background()
	features := randomFeatures(NewRand(1))

	t.Run("Success", func(t *testing.T) {
		gen := &MockTextGenerator{content: `{"scores": [0.1, 0.2, 0.3, 0.4, 0.5]}`}
		res, err := NewModelScorer(gen).Score(ctx, "strength", features)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(res.Scores) != 5 || res.Scores[4] != 0.5 {
			t.Errorf("Unexpected scores: %v", res.Scores)
		}
		if res.Meta.AgentName != "Scorer" || res.Meta.Usage.PromptTokens != 100 {
			t.Errorf("Unexpected meta: %+v", res.Meta)
		}
		if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], `Goal: "strength"`) {
			t.Errorf("Expected the goal in the prompt, got %v", gen.prompts)
		}
	})

	t.Run("ModelError", func(t *testing.T) {
		gen := &MockTextGenerator{err: errors.New("quota exceeded")}
		_, err := NewModelScorer(gen).Score(ctx, "strength", features)
		if err == nil {
			t.Fatal("Expected an error, got nil")
		}
		expectedError := "scorer model call failed: quota exceeded"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		gen := &MockTextGenerator{content: "not json"}
		res, err := NewModelScorer(gen).Score(ctx, "strength", features)
		if err == nil || !strings.HasPrefix(err.Error(), "failed to parse scores") {
			t.Fatalf("Expected a parse error, got %v", err)
		}
		if res.Meta.Usage.PromptTokens != 100 {
			t.Error("Expected usage to be kept on parse failure")
		}
	})

	t.Run("WrongCount", func(t *testing.T) {
		gen := &MockTextGenerator{content: `{"scores": [0.1, 0.2]}`}
		if _, err := NewModelScorer(gen).Score(ctx, "strength", features); err == nil {
			t.Fatal("Expected an error for 2 scores, got nil")
		}
	})
}

func TestBuildScorerPrompt(t *testing.T) {
	prompt, err := buildScorerPrompt("cardio", []float64{0.25, 0.5})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(prompt, "0.2500, 0.5000") {
		t.Errorf("Expected formatted features in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Return exactly 5 scores") {
		t.Errorf("Expected score count in prompt:\n%s", prompt)
	}
}

func TestRandomFeatures(t *testing.T) {
	features := randomFeatures(NewRand(2))
	if len(features) != FeatureCount {
		t.Fatalf("Expected %d features, got %d", FeatureCount, len(features))
	}
	for _, f := range features {
		if f < 0 || f >= 1 {
			t.Errorf("Feature %v out of [0, 1)", f)
		}
	}
}
