// Package ai holds the generation backend clients and the pure routing
// function that picks a backend per (type, tier). Clients are plain HTTP
// callers with bounded timeouts; retry policy, if any ever exists, belongs to
// the caller.
package ai

import "context"

// Model identifies a text generation backend.
type Model string

const (
	ModelClaude Model = "claude"
	ModelGemini Model = "gemini"
)

// TextGenerator produces free-text output for a prompt pair and reports the
// token usage of the call.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, int, error)
}

// ImageGenerator produces a single raster image for a prompt pair.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, negativePrompt string) ([]byte, error)
}
