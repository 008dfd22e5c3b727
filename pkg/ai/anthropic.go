package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blocksmith-ai/backend/internal/apperr"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicModel   = "claude-sonnet-4-20250514"
	anthropicTimeout = 180 * time.Second
)

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		client: &http.Client{
			Timeout: anthropicTimeout,
		},
		baseURL: anthropicBaseURL,
		apiKey:  apiKey,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, int, error) {
	reqBody := anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: 8192,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", 0, fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("%w: anthropic: %v", apperr.ErrProviderTimeout, err)
		}
		return "", 0, fmt.Errorf("%w: anthropic: %v", apperr.ErrProviderError, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("%w: read anthropic response: %v", apperr.ErrProviderError, err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, fmt.Errorf("%w: decode anthropic response: %v", apperr.ErrProviderError, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", 0, fmt.Errorf("%w: anthropic: %s", apperr.ErrProviderError, parsed.Error.Message)
		}
		return "", 0, fmt.Errorf("%w: anthropic: HTTP %d", apperr.ErrProviderError, resp.StatusCode)
	}

	if len(parsed.Content) == 0 {
		return "", 0, fmt.Errorf("%w: anthropic returned empty content", apperr.ErrProviderError)
	}

	tokens := parsed.Usage.InputTokens + parsed.Usage.OutputTokens
	return parsed.Content[0].Text, tokens, nil
}
