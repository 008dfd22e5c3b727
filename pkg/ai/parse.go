package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blocksmith-ai/backend/internal/apperr"
)

// ExtractJSON decodes a model response into dst. Models sometimes wrap the
// JSON in prose or markdown fences despite instructions, so on a direct parse
// failure the span between the first '{' and the last '}' is tried once more.
// Failing that, the output counts as malformed.
func ExtractJSON(raw string, dst interface{}) error {
	if err := json.Unmarshal([]byte(raw), dst); err == nil {
		return nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("%w: no JSON object in response", apperr.ErrMalformedOutput)
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMalformedOutput, err)
	}
	return nil
}
