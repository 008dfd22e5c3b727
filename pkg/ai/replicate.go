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
	replicateBaseURL = "https://api.replicate.com/v1"
	// Pixel-art friendly SDXL checkpoint.
	replicateSDXLVersion = "39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"
	replicateTimeout     = 120 * time.Second
	replicatePollEvery   = 2 * time.Second
)

// ReplicateClient generates texture images through the Replicate predictions
// API: create a prediction, poll until it settles, download the first output.
type ReplicateClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewReplicateClient(token string) *ReplicateClient {
	return &ReplicateClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: replicateBaseURL,
		token:   token,
	}
}

type replicatePrediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (c *ReplicateClient) GenerateImage(ctx context.Context, prompt, negativePrompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, replicateTimeout)
	defer cancel()

	input := map[string]interface{}{
		"prompt":              "minecraft texture, pixel art, 16x16, game asset, " + prompt,
		"negative_prompt":     "blurry, realistic, photograph, 3d render, " + negativePrompt,
		"width":               64, // generated larger than 16x16, downscaled client-side for quality
		"height":              64,
		"num_outputs":         1,
		"guidance_scale":      7.5,
		"num_inference_steps": 25,
	}

	prediction, err := c.createPrediction(ctx, input)
	if err != nil {
		return nil, err
	}

	prediction, err = c.waitForPrediction(ctx, prediction)
	if err != nil {
		return nil, err
	}

	if len(prediction.Output) == 0 {
		return nil, fmt.Errorf("%w: replicate produced no output", apperr.ErrProviderError)
	}

	return c.download(ctx, prediction.Output[0])
}

func (c *ReplicateClient) createPrediction(ctx context.Context, input map[string]interface{}) (*replicatePrediction, error) {
	reqBody := map[string]interface{}{
		"version": replicateSDXLVersion,
		"input":   input,
	}
	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal replicate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("create replicate request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	prediction, err := c.doPredictionRequest(req)
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

func (c *ReplicateClient) waitForPrediction(ctx context.Context, prediction *replicatePrediction) (*replicatePrediction, error) {
	for {
		switch prediction.Status {
		case "succeeded":
			return prediction, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("%w: replicate prediction %s: %s", apperr.ErrProviderError, prediction.Status, prediction.Error)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: replicate: %v", apperr.ErrProviderTimeout, ctx.Err())
		case <-time.After(replicatePollEvery):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, prediction.URLs.Get, nil)
		if err != nil {
			return nil, fmt.Errorf("create replicate poll request: %w", err)
		}
		req.Header.Set("Authorization", "Token "+c.token)

		prediction, err = c.doPredictionRequest(req)
		if err != nil {
			return nil, err
		}
	}
}

func (c *ReplicateClient) doPredictionRequest(req *http.Request) (*replicatePrediction, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: replicate: %v", apperr.ErrProviderTimeout, err)
		}
		return nil, fmt.Errorf("%w: replicate: %v", apperr.ErrProviderError, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read replicate response: %v", apperr.ErrProviderError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: replicate: HTTP %d: %s", apperr.ErrProviderError, resp.StatusCode, string(body))
	}

	var prediction replicatePrediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("%w: decode replicate response: %v", apperr.ErrProviderError, err)
	}
	return &prediction, nil
}

func (c *ReplicateClient) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create image download request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download image: %v", apperr.ErrProviderError, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download image: HTTP %d", apperr.ErrProviderError, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
