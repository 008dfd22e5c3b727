package models

type PluginRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Tier   string `json:"tier" validate:"required,generation_tier"`
	Name   string `json:"name,omitempty"`
}

type DatapackRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Tier   string `json:"tier" validate:"required,generation_tier"`
	Name   string `json:"name,omitempty"`
}

type TexturePackRequest struct {
	StyleDescription string `json:"style_description" validate:"required"`
	// Textures may mix individual texture names and category shorthands
	// like "ores" or "swords".
	Textures []string `json:"textures" validate:"required"`
	Name     string   `json:"name,omitempty"`
}

type EstimateRequest struct {
	Type     string   `json:"generation_type" validate:"required"`
	Tier     string   `json:"tier,omitempty"`
	Textures []string `json:"textures,omitempty"`
}

type EstimateResponse struct {
	Credits      int `json:"credits"`
	TextureCount int `json:"texture_count,omitempty"`
}

type SubmitResponse struct {
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
	CreditsUsed  int    `json:"credits_used"`
	TextureCount int    `json:"texture_count,omitempty"`
	Message      string `json:"message"`
}
