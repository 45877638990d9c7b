package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type openAIClient struct {
	http       *resty.Client
	model      string
	structured bool
}

// NewOpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, structured bool) CompletionClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &openAIClient{
		http:       client,
		model:      model,
		structured: structured,
	}
}

// Complete implements CompletionClient.
func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatCompletionRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if c.structured {
		payload.ResponseFormat = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "cv_match",
				"strict": true,
				"schema": openAIScoreSchema,
			},
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("%w: http %d: %s", ErrCompletion, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%w: no choices returned by model", ErrCompletion)
	}

	return content.String(), nil
}

// Strict structured outputs reject numeric bounds, so the range is checked
// by the parser instead.
var openAIScoreSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"matchScore":     map[string]any{"type": "integer"},
		"profileSummary": map[string]any{"type": "string"},
	},
	"required":             []string{"matchScore", "profileSummary"},
	"additionalProperties": false,
}
