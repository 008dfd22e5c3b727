package service

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/prompts"
)

// GenerationStore is the job-record persistence used by the submit path.
type GenerationStore interface {
	Create(generation *models.Generation) error
	GetByIDForUser(id, userID string) (*models.Generation, error)
	Update(id string, updates map[string]interface{}) error
}

// Ledger is the balance interface the orchestrator needs.
type Ledger interface {
	GetBalance(userID string) (int, error)
	Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error)
}

// JobQueue schedules asynchronous execution of an accepted job.
type JobQueue interface {
	Enqueue(generationID string) error
}

// GenerationService drives the synchronous half of the job state machine:
// validate, price, reserve credits, create the pending record, schedule.
// Credits are debited before scheduling so a queued job always has reserved
// funds behind it.
type GenerationService struct {
	generations GenerationStore
	ledger      Ledger
	queue       JobQueue
	logger      *zap.Logger
}

func NewGenerationService(generations GenerationStore, ledger Ledger, queue JobQueue, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		generations: generations,
		ledger:      ledger,
		queue:       queue,
		logger:      logger,
	}
}

func (s *GenerationService) SubmitPlugin(userID string, req models.PluginRequest) (*models.SubmitResponse, error) {
	creditsNeeded, err := CreditsForTier(models.GenerationPlugin, req.Tier)
	if err != nil {
		return nil, err
	}

	generation := &models.Generation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.GenerationPlugin,
		Tier:        req.Tier,
		Status:      models.StatusPending,
		Prompt:      req.Prompt,
		CreditsUsed: creditsNeeded,
		InputParams: models.JSONMap{"name": req.Name},
	}

	description := fmt.Sprintf("Plugin generation (%s)", req.Tier)
	if err := s.accept(userID, generation, creditsNeeded, description); err != nil {
		return nil, err
	}

	return &models.SubmitResponse{
		GenerationID: generation.ID,
		Status:       string(models.StatusPending),
		CreditsUsed:  creditsNeeded,
		Message:      "Plugin generation started. Check status for updates.",
	}, nil
}

func (s *GenerationService) SubmitDatapack(userID string, req models.DatapackRequest) (*models.SubmitResponse, error) {
	creditsNeeded, err := CreditsForTier(models.GenerationDatapack, req.Tier)
	if err != nil {
		return nil, err
	}

	generation := &models.Generation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.GenerationDatapack,
		Tier:        req.Tier,
		Status:      models.StatusPending,
		Prompt:      req.Prompt,
		CreditsUsed: creditsNeeded,
		InputParams: models.JSONMap{"name": req.Name},
	}

	description := fmt.Sprintf("Datapack generation (%s)", req.Tier)
	if err := s.accept(userID, generation, creditsNeeded, description); err != nil {
		return nil, err
	}

	return &models.SubmitResponse{
		GenerationID: generation.ID,
		Status:       string(models.StatusPending),
		CreditsUsed:  creditsNeeded,
		Message:      "Datapack generation started. Check status for updates.",
	}, nil
}

func (s *GenerationService) SubmitTexturePack(userID string, req models.TexturePackRequest) (*models.SubmitResponse, error) {
	// Category names expand before the count check and pricing.
	expanded := prompts.ExpandTextures(req.Textures)
	if err := ValidateTextureCount(len(expanded)); err != nil {
		return nil, err
	}
	creditsNeeded := TextureCredits(len(expanded))

	textures := make([]interface{}, len(expanded))
	for i, t := range expanded {
		textures[i] = t
	}
	original := make([]interface{}, len(req.Textures))
	for i, t := range req.Textures {
		original[i] = t
	}

	generation := &models.Generation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.GenerationTexturePack,
		Tier:        fmt.Sprintf("%d_textures", len(expanded)),
		Status:      models.StatusPending,
		Prompt:      req.StyleDescription,
		CreditsUsed: creditsNeeded,
		InputParams: models.JSONMap{
			"name":           req.Name,
			"textures":       textures,
			"original_input": original,
		},
	}

	description := fmt.Sprintf("Texture pack generation (%d textures)", len(expanded))
	if err := s.accept(userID, generation, creditsNeeded, description); err != nil {
		return nil, err
	}

	return &models.SubmitResponse{
		GenerationID: generation.ID,
		Status:       string(models.StatusPending),
		CreditsUsed:  creditsNeeded,
		TextureCount: len(expanded),
		Message:      "Texture pack generation started. Check status for updates.",
	}, nil
}

// accept runs the shared tail of every submit: fail fast on balance, create
// the pending record, debit tagged with the job id, then schedule.
func (s *GenerationService) accept(userID string, generation *models.Generation, creditsNeeded int, description string) error {
	balance, err := s.ledger.GetBalance(userID)
	if err != nil {
		return err
	}
	if balance < creditsNeeded {
		return fmt.Errorf("%w: need %d, have %d", apperr.ErrInsufficientCredits, creditsNeeded, balance)
	}

	if err := s.generations.Create(generation); err != nil {
		return err
	}

	if _, err := s.ledger.Apply(userID, -creditsNeeded, models.TransactionUsage, description, generation.ID, ""); err != nil {
		// A concurrent spend can still win the race between the balance
		// check and the debit. The job record already exists, so close it
		// out instead of leaving it pending forever.
		_ = s.generations.Update(generation.ID, map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": "credit reservation failed",
		})
		return err
	}

	if err := s.queue.Enqueue(generation.ID); err != nil {
		// Debited but unscheduled. Surface loudly; the credits stay
		// reserved against the failed record for operator reconciliation.
		s.logger.Error("failed to schedule generation after debit",
			zap.String("generation_id", generation.ID),
			zap.Error(err),
		)
		_ = s.generations.Update(generation.ID, map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": "failed to schedule generation",
		})
		return fmt.Errorf("schedule generation: %w", err)
	}

	return nil
}

func (s *GenerationService) GetForUser(id, userID string) (*models.Generation, error) {
	return s.generations.GetByIDForUser(id, userID)
}

// Estimate is a pure pricing lookup with no side effects.
func (s *GenerationService) Estimate(req models.EstimateRequest) (*models.EstimateResponse, error) {
	switch models.GenerationType(req.Type) {
	case models.GenerationPlugin, models.GenerationDatapack:
		credits, err := CreditsForTier(models.GenerationType(req.Type), req.Tier)
		if err != nil {
			return nil, err
		}
		return &models.EstimateResponse{Credits: credits}, nil
	case models.GenerationTexturePack:
		expanded := prompts.ExpandTextures(req.Textures)
		if err := ValidateTextureCount(len(expanded)); err != nil {
			return nil, err
		}
		return &models.EstimateResponse{
			Credits:      TextureCredits(len(expanded)),
			TextureCount: len(expanded),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown generation type %q", apperr.ErrInvalidTier, req.Type)
	}
}

// PricingTable returns the published pricing for the public pricing endpoint.
func (s *GenerationService) PricingTable() map[string]interface{} {
	return map[string]interface{}{
		"plugin":   PluginCredits,
		"datapack": DatapackCredits,
		"texture_pack": map[string]string{
			"1-5 textures":   "10",
			"6-15 textures":  "25",
			"16-30 textures": "45",
			"31-50 textures": "75",
			"50+ textures":   "75 + 2 per additional texture",
		},
		"texture_categories": prompts.CategoryNames(),
	}
}
