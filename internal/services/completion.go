package services

import (
	"context"
	"errors"
	"fmt"

	"alfredoptarigan/cv-leaderboard/internal/config"
)

var ErrCompletion = errors.New("completion failed")

// CompletionClient sends one prompt as a single user message and returns the
// first choice's text verbatim.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector for the candidate index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewCompletionClient builds the client for the configured provider.
func NewCompletionClient(cfg config.CompletionConfig, embedModel string) (CompletionClient, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Structured), nil
	case config.ProviderGemini:
		return NewGeminiService(cfg.APIKey, cfg.Model, embedModel, cfg.Structured)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %q", cfg.Provider)
	}
}
