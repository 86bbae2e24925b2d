package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	apiVersion       = "2023-06-01"
	defaultModel     = "claude-3-haiku-20240307"
	defaultMaxTokens = 1024
	defaultTimeout   = 30 * time.Second
)

// ErrEmptyResponse is returned when the API answers without any text block.
var ErrEmptyResponse = errors.New("empty response from ai")

// Client defines the interface for AI text generation.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Options configures the Anthropic messages client.
type Options struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
	maxTokens  int
}

// NewClient creates a configured Anthropic client.
func NewClient(opts Options) Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetHeader("x-api-key", opts.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(opts.Timeout)

	return &anthropicClient{httpClient: client, model: opts.Model, maxTokens: opts.MaxTokens}
}

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single user prompt and returns the concatenated text reply.
func (c *anthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := messageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      system,
		Temperature: 0.5,
		Messages:    []Message{{Role: "user", Content: prompt}},
	}

	var respBody messageResponse
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		message := apiErr.Error.Message
		if message == "" {
			message = resp.String()
		}
		return "", fmt.Errorf("anthropic api error: status=%d, message=%s", resp.StatusCode(), message)
	}

	var reply strings.Builder
	for _, block := range respBody.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		reply.WriteString(block.Text)
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
