package services

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"google.golang.org/genai"
)

const maxEmbeddingInput = 40000

type GeminiService interface {
	CompletionClient
	Embedder
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	structured bool
}

func NewGeminiService(apiKey, modelName, embedModel string, structured bool) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
		structured: structured,
	}, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbeddingInput)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Complete implements CompletionClient.
func (g *geminiService) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 2048,
	}
	if g.structured {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = geminiScoreSchema()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrCompletion)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no text content in response", ErrCompletion)
	}

	return text, nil
}

func geminiScoreSchema() *genai.Schema {
	minScore, maxScore := 0.0, 100.0
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"matchScore": {
				Type:        genai.TypeInteger,
				Description: "How suitable the candidate is for the job, 0 to 100.",
				Minimum:     &minScore,
				Maximum:     &maxScore,
			},
			"profileSummary": {
				Type:        genai.TypeString,
				Description: "A 3-sentence professional profile summary.",
			},
		},
		Required: []string{"matchScore", "profileSummary"},
	}
}

// truncateUTF8 cuts s to at most maxBytes without splitting a rune.
func truncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
