package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-leaderboard/internal/config"
)

func TestOpenAIClientComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"85\nGood fit."}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/v1/", "gpt-4o", false)
	out, err := client.Complete(context.Background(), "the prompt")
	require.NoError(t, err)

	assert.Equal(t, "85\nGood fit.", out)
	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "the prompt"}}, got["messages"])
	assert.NotContains(t, got, "response_format")
}

func TestOpenAIClientStructuredRequestsSchema(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"matchScore\":70,\"profileSummary\":\"ok\"}"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL, "gpt-4o", true)
	out, err := client.Complete(context.Background(), "p")
	require.NoError(t, err)

	assert.JSONEq(t, `{"matchScore":70,"profileSummary":"ok"}`, out)
	format, ok := got["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAIClient("sk-test", server.URL, "gpt-4o", false).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrCompletion)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAIClient("sk-test", server.URL, "gpt-4o", false).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrCompletion)
}

func TestNewCompletionClientProviders(t *testing.T) {
	client, err := NewCompletionClient(config.CompletionConfig{
		Provider: config.ProviderOpenAI,
		APIKey:   "sk-test",
		BaseURL:  "http://localhost",
		Model:    "gpt-4o",
	}, "")
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = NewCompletionClient(config.CompletionConfig{Provider: "anthropic"}, "")
	assert.Error(t, err)
}
