package service

import (
	"errors"
	"testing"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

func TestCreditsForTier(t *testing.T) {
	cases := []struct {
		generationType models.GenerationType
		tier           string
		want           int
	}{
		{models.GenerationPlugin, "simple", 20},
		{models.GenerationPlugin, "medium", 35},
		{models.GenerationPlugin, "complex", 50},
		{models.GenerationDatapack, "simple", 5},
		{models.GenerationDatapack, "medium", 10},
		{models.GenerationDatapack, "complex", 15},
	}
	for _, tc := range cases {
		got, err := CreditsForTier(tc.generationType, tc.tier)
		if err != nil {
			t.Errorf("CreditsForTier(%s, %s): %v", tc.generationType, tc.tier, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CreditsForTier(%s, %s) = %d, want %d", tc.generationType, tc.tier, got, tc.want)
		}
	}
}

func TestCreditsForTierRejectsUnknown(t *testing.T) {
	if _, err := CreditsForTier(models.GenerationPlugin, "epic"); !errors.Is(err, apperr.ErrInvalidTier) {
		t.Errorf("err = %v, want ErrInvalidTier", err)
	}
	if _, err := CreditsForTier(models.GenerationTexturePack, "simple"); !errors.Is(err, apperr.ErrInvalidTier) {
		t.Errorf("err = %v, want ErrInvalidTier", err)
	}
}

func TestTextureCredits(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{1, 10},
		{5, 10},
		{6, 25},
		{15, 25},
		{16, 45},
		{30, 45},
		{31, 75},
		{50, 75},
		{51, 77},
		{60, 95},
		{100, 175},
	}
	for _, tc := range cases {
		if got := TextureCredits(tc.count); got != tc.want {
			t.Errorf("TextureCredits(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestValidateTextureCount(t *testing.T) {
	if err := ValidateTextureCount(0); !errors.Is(err, apperr.ErrInvalidTextures) {
		t.Errorf("count 0: err = %v, want ErrInvalidTextures", err)
	}
	if err := ValidateTextureCount(101); !errors.Is(err, apperr.ErrInvalidTextures) {
		t.Errorf("count 101: err = %v, want ErrInvalidTextures", err)
	}
	if err := ValidateTextureCount(1); err != nil {
		t.Errorf("count 1: %v", err)
	}
	if err := ValidateTextureCount(100); err != nil {
		t.Errorf("count 100: %v", err)
	}
}
