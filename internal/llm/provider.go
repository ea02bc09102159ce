// Package llm wraps the generative-model collaborator used for claim
// extraction and verification.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimstream/internal/model"
)

// Completion is one model response plus its token accounting
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Provider defines the interface for generative-model backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a system+user prompt pair and returns the raw
	// response text. The call always runs under an explicit timeout.
	Complete(ctx context.Context, system, user string) (*Completion, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates a provider from configuration. An empty provider
// name disables the LLM (nil, nil).
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai; point base_url at any OpenAI-compatible endpoint)", cfg.Provider)
	}
}
