package ai

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

type scriptedGenerator struct {
	name  string
	calls int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt, systemPrompt string) (string, int, error) {
	g.calls++
	return g.name, 42, nil
}

func TestSelectModel(t *testing.T) {
	router := NewRouter(&scriptedGenerator{}, &scriptedGenerator{}, zap.NewNop())

	cases := []struct {
		generationType string
		tier           string
		want           Model
	}{
		{"datapack", "simple", ModelGemini},
		{"datapack", "medium", ModelClaude},
		{"datapack", "complex", ModelClaude},
		{"plugin", "simple", ModelClaude},
		{"plugin", "complex", ModelClaude},
		{"texture_pack", "30_textures", ModelGemini},
		{"unknown_thing", "simple", ModelClaude},
	}
	for _, tc := range cases {
		if got := router.SelectModel(tc.generationType, tc.tier); got != tc.want {
			t.Errorf("SelectModel(%s, %s) = %s, want %s", tc.generationType, tc.tier, got, tc.want)
		}
	}
}

func TestSelectModelIsDeterministic(t *testing.T) {
	router := NewRouter(&scriptedGenerator{}, &scriptedGenerator{}, zap.NewNop())
	for i := 0; i < 100; i++ {
		if got := router.SelectModel("datapack", "simple"); got != ModelGemini {
			t.Fatalf("iteration %d: got %s", i, got)
		}
	}
}

func TestGenerateDispatchesToSelectedBackend(t *testing.T) {
	claude := &scriptedGenerator{name: "claude-response"}
	gemini := &scriptedGenerator{name: "gemini-response"}
	router := NewRouter(claude, gemini, zap.NewNop())

	text, tokens, err := router.Generate(context.Background(), ModelGemini, "p", "s")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "gemini-response" || tokens != 42 {
		t.Errorf("got (%q, %d)", text, tokens)
	}
	if claude.calls != 0 || gemini.calls != 1 {
		t.Errorf("calls: claude=%d gemini=%d", claude.calls, gemini.calls)
	}

	if _, _, err := router.Generate(context.Background(), Model("gpt"), "p", "s"); err == nil {
		t.Error("expected error for unknown model")
	}
}
