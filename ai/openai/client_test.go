package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	client.SetHTTPClient(server.Client())
	return server, client
}

func completionBody(content string) string {
	resp := ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: DefaultModel,
		Choices: []Choice{
			{Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestCompleteJSON(t *testing.T) {
	t.Run("sends structured-output request and returns content", func(t *testing.T) {
		var captured ChatCompletionRequest
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(completionBody(`{"answers": []}`)))
		})

		content, err := client.CompleteJSON(context.Background(), "system prompt", "user prompt")
		require.NoError(t, err)
		assert.Equal(t, `{"answers": []}`, content)

		assert.Equal(t, DefaultModel, captured.Model)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "system prompt", captured.Messages[0].Content)
		assert.Equal(t, "user", captured.Messages[1].Role)
		require.NotNil(t, captured.ResponseFormat)
		assert.Equal(t, "json_object", captured.ResponseFormat.Type)
		assert.InDelta(t, 0.6, captured.Temperature, 1e-9)
		assert.Equal(t, 1000, captured.MaxTokens)
	})

	t.Run("trims surrounding whitespace from content", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionBody("  {\"a\": 1}\n")))
		})
		content, err := client.CompleteJSON(context.Background(), "s", "u")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, content)
	})

	t.Run("non-200 status is a single-attempt failure", func(t *testing.T) {
		calls := 0
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
		})
		_, err := client.CompleteJSON(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Equal(t, 1, calls)
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
		})
		_, err := client.CompleteJSON(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("missing api key fails before any request", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://localhost:1"})
		_, err := client.CompleteJSON(context.Background(), "s", "u")
		assert.Error(t, err)
		assert.False(t, client.IsConfigured())
	})
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	assert.Equal(t, DefaultModel, client.config.Model)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.InDelta(t, 0.6, *client.config.Temperature, 1e-9)
	assert.Equal(t, 1000, *client.config.MaxTokens)
	assert.True(t, client.IsConfigured())

	t.Run("trailing slash in base url is trimmed", func(t *testing.T) {
		c := NewClient(Config{APIKey: "k", BaseURL: "http://api.example.com/v1/"})
		assert.Equal(t, "http://api.example.com/v1", c.baseURL)
	})

	t.Run("explicit overrides survive", func(t *testing.T) {
		temp := 0.1
		tokens := 50
		c := NewClient(Config{APIKey: "k", Model: "custom", Temperature: &temp, MaxTokens: &tokens})
		assert.Equal(t, "custom", c.config.Model)
		assert.InDelta(t, 0.1, *c.config.Temperature, 1e-9)
		assert.Equal(t, 50, *c.config.MaxTokens)
	})
}
