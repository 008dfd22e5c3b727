package prompts

import (
	"strings"
	"testing"
)

func TestTextureCategorySizes(t *testing.T) {
	want := map[string]int{
		"ores":            19,
		"wood_planks":     11,
		"swords":          6,
		"pickaxes":        6,
		"axes":            6,
		"armor_diamond":   4,
		"armor_netherite": 4,
		"food":            14,
		"gems":            5,
	}
	if len(TextureCategories) != len(want) {
		t.Errorf("categories = %d, want %d", len(TextureCategories), len(want))
	}
	for name, size := range want {
		if got := len(TextureCategories[name]); got != size {
			t.Errorf("category %s has %d members, want %d", name, got, size)
		}
	}
}

func TestExpandTextures(t *testing.T) {
	expanded := ExpandTextures([]string{"swords", "block/custom_stone.png"})
	if len(expanded) != 7 {
		t.Fatalf("expanded = %d entries, want 7", len(expanded))
	}
	if expanded[6] != "block/custom_stone.png" {
		t.Errorf("pass-through entry = %q", expanded[6])
	}
}

func TestExpandTexturesIsCaseInsensitive(t *testing.T) {
	if got := ExpandTextures([]string{"SWORDS"}); len(got) != 6 {
		t.Errorf("SWORDS expanded to %d entries, want 6", len(got))
	}
	if got := ExpandTextures([]string{"Gems"}); len(got) != 5 {
		t.Errorf("Gems expanded to %d entries, want 5", len(got))
	}
}

func TestQualifyTexturePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"item/diamond_sword", "item/diamond_sword"},
		{"block/stone", "block/stone"},
		{"diamond_sword", "item/diamond_sword"},
		{"golden_apple", "item/golden_apple"},
		{"stone_bricks", "block/stone_bricks"},
	}
	for _, tc := range cases {
		if got := qualifyTexturePath(tc.in); got != tc.want {
			t.Errorf("qualifyTexturePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTexturePromptListsEveryTexture(t *testing.T) {
	prompt := TexturePrompt("dark medieval", []string{"diamond_sword", "stone"})
	if !strings.Contains(prompt, "dark medieval") {
		t.Error("style description missing from prompt")
	}
	if !strings.Contains(prompt, "- item/diamond_sword") {
		t.Error("item texture missing from prompt")
	}
	if !strings.Contains(prompt, "- block/stone") {
		t.Error("block texture missing from prompt")
	}
}

func TestTierPromptsFallBackToSimple(t *testing.T) {
	if got := PluginPrompt("mythic", "x"); got != PluginPrompt("simple", "x") {
		t.Error("unknown plugin tier should use the simple prompt")
	}
	if got := DatapackPrompt("mythic", "x"); got != DatapackPrompt("simple", "x") {
		t.Error("unknown datapack tier should use the simple prompt")
	}
}
