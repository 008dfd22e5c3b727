// Package apperr defines the sentinel errors shared across services and
// handlers. Handlers translate them to HTTP status codes with errors.Is;
// worker-side errors are captured into the job record instead.
package apperr

import "errors"

var (
	// ErrInsufficientCredits is returned when a debit would take a balance
	// below zero. Maps to 402.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrNotFound covers missing profiles, generations and packages, and
	// generations owned by another user. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTier is returned when a tier is outside the known set for
	// the generation type. Maps to 400.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidTextures is returned when a texture request resolves to
	// zero or more than 100 entries. Maps to 400.
	ErrInvalidTextures = errors.New("invalid texture list")

	// ErrProviderError covers transport and auth failures against a
	// generation backend. Only ever surfaces as a failed job.
	ErrProviderError = errors.New("provider error")

	// ErrProviderTimeout is returned when a provider call exceeds its
	// bounded wait.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrMalformedOutput is returned when the provider response cannot be
	// parsed as structured data even after lenient extraction.
	ErrMalformedOutput = errors.New("malformed provider output")

	// ErrStorage covers artifact upload failures.
	ErrStorage = errors.New("storage error")
)
