package models

import (
	"time"
)

type GenerationType string

const (
	GenerationPlugin      GenerationType = "plugin"
	GenerationDatapack    GenerationType = "datapack"
	GenerationTexturePack GenerationType = "texture_pack"
)

type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s GenerationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Generation is a single asynchronous job record. It is created in pending
// state before execution is scheduled and only the worker executing that job
// mutates it afterwards.
type Generation struct {
	ID           string           `json:"id" gorm:"primaryKey"`
	UserID       string           `json:"user_id" gorm:"index;not null"`
	Type         GenerationType   `json:"type" gorm:"not null"`
	Tier         string           `json:"tier" gorm:"not null"`
	Status       GenerationStatus `json:"status" gorm:"not null;default:'pending'"`
	Prompt       string           `json:"prompt"`
	CreditsUsed  int              `json:"credits_used" gorm:"not null"`
	InputParams  JSONMap          `json:"input_params" gorm:"type:jsonb"`
	FileURL      string           `json:"file_url,omitempty"`
	FileName     string           `json:"file_name,omitempty"`
	FileSize     int64            `json:"file_size,omitempty"`
	AIModelUsed  string           `json:"ai_model_used,omitempty"`
	AITokensUsed int              `json:"ai_tokens_used,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Metadata     JSONMap          `json:"output_metadata,omitempty" gorm:"type:jsonb"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// GenerationResult carries everything the worker produced for a completed job.
type GenerationResult struct {
	FileURL      string
	FileName     string
	FileSize     int64
	AIModelUsed  string
	AITokensUsed int
	Metadata     JSONMap
}
