package service

import (
	"fmt"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

// Per-tier credit prices. These numbers are part of the product contract;
// change them only together with the published pricing page.
var (
	PluginCredits = map[string]int{
		"simple":  20,
		"medium":  35,
		"complex": 50,
	}
	DatapackCredits = map[string]int{
		"simple":  5,
		"medium":  10,
		"complex": 15,
	}
)

const maxTexturesPerRequest = 100

// TextureCredits prices a texture pack by its resolved texture count.
// Brackets up to 50 textures, then 2 credits per additional texture.
func TextureCredits(count int) int {
	switch {
	case count <= 5:
		return 10
	case count <= 15:
		return 25
	case count <= 30:
		return 45
	case count <= 50:
		return 75
	default:
		return 75 + (count-50)*2
	}
}

// CreditsForTier validates the tier against the known set for the type and
// returns its price.
func CreditsForTier(generationType models.GenerationType, tier string) (int, error) {
	var table map[string]int
	switch generationType {
	case models.GenerationPlugin:
		table = PluginCredits
	case models.GenerationDatapack:
		table = DatapackCredits
	default:
		return 0, fmt.Errorf("%w: type %q has no tier pricing", apperr.ErrInvalidTier, generationType)
	}

	credits, ok := table[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %q (must be: simple, medium, complex)", apperr.ErrInvalidTier, tier)
	}
	return credits, nil
}

// ValidateTextureCount enforces the 1..100 bound on the resolved list.
func ValidateTextureCount(count int) error {
	if count == 0 {
		return fmt.Errorf("%w: no textures specified", apperr.ErrInvalidTextures)
	}
	if count > maxTexturesPerRequest {
		return fmt.Errorf("%w: maximum %d textures per request", apperr.ErrInvalidTextures, maxTexturesPerRequest)
	}
	return nil
}
