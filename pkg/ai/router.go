package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Router maps a (generation type, tier) pair to a backend and exposes one
// Generate entry point over the configured clients.
type Router struct {
	claude TextGenerator
	gemini TextGenerator
	logger *zap.Logger
}

func NewRouter(claude, gemini TextGenerator, logger *zap.Logger) *Router {
	return &Router{
		claude: claude,
		gemini: gemini,
		logger: logger,
	}
}

// SelectModel is pure and total: every input yields a backend. Simple
// datapacks are JSON-only and go to the cheaper model; Java plugin code
// always goes to Claude; texture jobs only need prompt text.
func (r *Router) SelectModel(generationType, tier string) Model {
	switch generationType {
	case "datapack":
		if tier == "simple" {
			return ModelGemini
		}
		return ModelClaude
	case "plugin":
		return ModelClaude
	case "texture_pack":
		return ModelGemini
	}

	// An unknown type means a caller bug, not a user error; keep the job
	// moving on the default backend but make the mistake visible.
	r.logger.Warn("unknown generation type routed to default backend",
		zap.String("type", generationType),
		zap.String("tier", tier),
	)
	return ModelClaude
}

// Generate invokes the selected backend synchronously. No retries here.
func (r *Router) Generate(ctx context.Context, model Model, prompt, systemPrompt string) (string, int, error) {
	switch model {
	case ModelClaude:
		return r.claude.Generate(ctx, prompt, systemPrompt)
	case ModelGemini:
		return r.gemini.Generate(ctx, prompt, systemPrompt)
	default:
		return "", 0, fmt.Errorf("unknown model %q", model)
	}
}
