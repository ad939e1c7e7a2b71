// Package openai provides the chat-completions client used by the
// external-service answer generator. It targets the OpenAI API by default
// but works against any OpenAI-compatible endpoint via BaseURL.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/internal/httpclient"
)

const (
	// DefaultModel is the fallback model when none is configured.
	DefaultModel = "gpt-4o-mini"

	defaultBaseURL = "https://api.openai.com/v1"
)

// Config holds chat client configuration.
type Config struct {
	APIKey            string
	BaseURL           string             // "" = api.openai.com
	Model             string             // "" = DefaultModel
	Temperature       *float64           // nil = use default (0.6)
	MaxTokens         *int               // nil = use default (1000)
	RequestsPerMinute int                // 0 = unlimited
	Logger            *zap.SugaredLogger // nil = nop logger
}

// Client is a chat-completions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	config     Config
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient creates a chat client with qrforge defaults.
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Temperature == nil {
		defaultTemp := 0.6
		config.Temperature = &defaultTemp
	}
	if config.MaxTokens == nil {
		defaultTokens := 1000
		config.MaxTokens = &defaultTokens
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpclient.New(120 * time.Second),
		config:     config,
		limiter:    limiter,
		logger:     logger,
	}
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat requests structured output mode from the service.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionRequest is the wire request for the completions endpoint.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatCompletionResponse is the wire response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CreateChatCompletion sends one chat completion request. It performs a
// single attempt; retry policy belongs to the caller, which also owns
// validation of the returned content.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait failed")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	return &chatResp, nil
}

// CompleteJSON sends a system+user prompt pair in structured-output mode
// and returns the raw content of the first choice.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OpenAI API key not configured")
	}

	c.logger.Debugw("AI chat request",
		"model", c.config.Model,
		"temperature", *c.config.Temperature,
		"max_tokens", *c.config.MaxTokens,
		"base_url", c.baseURL,
	)

	req := ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    *c.config.Temperature,
		MaxTokens:      *c.config.MaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from service")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debugw("AI chat response",
		"content_length", len(content),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
	)

	return content, nil
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// SetHTTPClient overrides the HTTP client. Only for tests targeting an
// httptest.Server.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = httpclient.Wrap(client)
}
