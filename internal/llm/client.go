package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/satindergrewal/asmrflow/internal/apperr"
)

const (
	msgInvalidKey = "Chave da API OpenAI inválida ou não configurada"
	msgQuota      = "Cota da API OpenAI excedida. Verifique seu plano e faturamento."
)

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	api    *openai.Client
	hasKey bool
	model  string
}

// NewClient creates a client. An empty apiKey makes every call fail with an
// auth error.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		hasKey: apiKey != "",
		model:  model,
	}
}

// Options tunes a single completion.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Available checks whether the API is reachable with the configured key.
func (c *Client) Available(ctx context.Context) bool {
	if !c.hasKey {
		return false
	}
	_, err := c.api.ListModels(ctx)
	return err == nil
}

// Chat sends a system and user message and returns the first choice's text.
// Failures are *apperr.UpstreamError classified as auth, quota or unavailable.
func (c *Client) Chat(ctx context.Context, system, prompt string, opts Options) (string, error) {
	if !c.hasKey {
		return "", apperr.NewUpstream(apperr.UpstreamAuth, 0, msgInvalidKey, errors.New("api key not configured"))
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// classify maps SDK errors onto upstream kinds by status and error code.
func classify(err error) error {
	var (
		status int
		code   string
	)
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		code, _ = apiErr.Code.(string)
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	cause := fmt.Errorf("status %d: %w", status, err)

	switch {
	case status == http.StatusUnauthorized || code == "invalid_api_key":
		return apperr.NewUpstream(apperr.UpstreamAuth, status, msgInvalidKey, cause)
	case status == http.StatusTooManyRequests || code == "insufficient_quota":
		return apperr.NewUpstream(apperr.UpstreamQuota, status, msgQuota, cause)
	default:
		return apperr.NewUpstream(apperr.UpstreamUnavailable, status, "chat completion failed", cause)
	}
}
