package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a model call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for a model-backed step.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

// HasUsage reports whether any tokens were consumed.
func (m AgentMeta) HasUsage() bool {
	return m.Usage.PromptTokens > 0 || m.Usage.CompletionTokens > 0
}
