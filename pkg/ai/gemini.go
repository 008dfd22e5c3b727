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

	"github.com/blocksmith-ai/backend/internal/apperr"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-pro"
	geminiTimeout = 120 * time.Second
)

// GeminiClient calls the Gemini generateContent API. Gemini has no separate
// system prompt, so the two prompts are joined into one.
type GeminiClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		client: &http.Client{
			Timeout: geminiTimeout,
		},
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, int, error) {
	fullPrompt := systemPrompt + "\n\n---\n\n" + prompt

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fullPrompt}}},
		},
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return "", 0, fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("%w: gemini: %v", apperr.ErrProviderTimeout, err)
		}
		return "", 0, fmt.Errorf("%w: gemini: %v", apperr.ErrProviderError, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("%w: read gemini response: %v", apperr.ErrProviderError, err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, fmt.Errorf("%w: decode gemini response: %v", apperr.ErrProviderError, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", 0, fmt.Errorf("%w: gemini: %s", apperr.ErrProviderError, parsed.Error.Message)
		}
		return "", 0, fmt.Errorf("%w: gemini: HTTP %d", apperr.ErrProviderError, resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("%w: gemini returned no candidates", apperr.ErrProviderError)
	}

	text := parsed.Candidates[0].Content.Parts[0].Text

	// The API does not report usage on this endpoint; estimate from word
	// counts so usage accounting stays populated.
	tokens := len(strings.Fields(fullPrompt)) + len(strings.Fields(text))

	return text, tokens, nil
}
