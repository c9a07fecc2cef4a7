package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured indicates the AI client is not configured
	ErrNotConfigured = errors.New("AI client not configured")
	// ErrAPICallFailed indicates the AI API call failed
	ErrAPICallFailed = errors.New("AI API call failed")
	// ErrInvalidResponse indicates an invalid response from the AI API
	ErrInvalidResponse = errors.New("invalid AI API response")
	// ErrUnrecognizedLabel indicates the classifier answered outside the label set
	ErrUnrecognizedLabel = errors.New("unrecognized classification label")
)

// Provider represents an AI provider
type Provider string

const (
	// ProviderOpenAI represents OpenAI API
	ProviderOpenAI Provider = "openai"
	// ProviderClaude represents Anthropic Claude API
	ProviderClaude Provider = "claude"
	// ProviderCustom represents a custom API endpoint
	ProviderCustom Provider = "custom"
)

// Config holds the settings for the AI client
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Client handles generative text API communication
type Client struct {
	provider   Provider
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new AI Client instance from explicit configuration
func NewClient(cfg Config) *Client {
	c := &Client{
		provider: Provider(strings.ToLower(cfg.Provider)),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
		return c
	}

	switch c.provider {
	case ProviderClaude:
		c.baseURL = "https://api.anthropic.com/v1"
		if c.model == "" {
			c.model = "claude-3-haiku-20240307"
		}
	default:
		c.provider = ProviderOpenAI
		c.baseURL = "https://api.openai.com/v1"
		if c.model == "" {
			c.model = "gpt-3.5-turbo"
		}
	}

	return c
}

// IsConfigured returns whether the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// ChatMessage represents a message in a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// sendChatRequest sends a chat completion request to the AI API
func (c *Client) sendChatRequest(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Set authorization header based on provider
	switch c.provider {
	case ProviderClaude:
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	default:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrAPICallFailed, resp.StatusCode, string(respBody))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAPICallFailed, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrInvalidResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Classify asks the model to answer with exactly one of the given labels.
// The reply is trimmed and lowercased; anything outside the label set
// yields ErrUnrecognizedLabel so callers can fall back.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (string, error) {
	if len(text) > 2000 {
		text = text[:2000]
	}

	systemPrompt := fmt.Sprintf(
		"Analyze the following text and classify it. Respond with only one of: %s",
		strings.Join(labels, ", "))

	messages := []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	}

	response, err := c.sendChatRequest(ctx, messages, 10)
	if err != nil {
		return "", err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	for _, label := range labels {
		if response == strings.ToLower(label) {
			return response, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognizedLabel, response)
}

// Complete sends a free-form instruction and returns the trimmed output
func (c *Client) Complete(ctx context.Context, instruction string) (string, error) {
	messages := []ChatMessage{
		{Role: "user", Content: instruction},
	}

	response, err := c.sendChatRequest(ctx, messages, 300)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response), nil
}
