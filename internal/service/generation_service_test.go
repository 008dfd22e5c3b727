package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

type memoryGenerationStore struct {
	mu          sync.Mutex
	generations map[string]*models.Generation
}

func newMemoryGenerationStore() *memoryGenerationStore {
	return &memoryGenerationStore{generations: make(map[string]*models.Generation)}
}

func (s *memoryGenerationStore) Create(generation *models.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *generation
	s.generations[generation.ID] = &copied
	return nil
}

func (s *memoryGenerationStore) GetByIDForUser(id, userID string) (*models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	generation, ok := s.generations[id]
	if !ok || generation.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	copied := *generation
	return &copied, nil
}

func (s *memoryGenerationStore) Update(id string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	generation, ok := s.generations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if status, ok := updates["status"].(models.GenerationStatus); ok {
		generation.Status = status
	}
	if msg, ok := updates["error_message"].(string); ok {
		generation.ErrorMessage = msg
	}
	return nil
}

func (s *memoryGenerationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.generations)
}

func (s *memoryGenerationStore) only() *models.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, generation := range s.generations {
		return generation
	}
	return nil
}

// fakeBalance is a Ledger with a single balance and scripted failures.
type fakeBalance struct {
	mu       sync.Mutex
	credits  int
	applyErr error
	applied  []appliedEntry
}

type appliedEntry struct {
	amount       int
	txType       models.TransactionType
	generationID string
}

func (f *fakeBalance) GetBalance(string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credits, nil
}

func (f *fakeBalance) Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return 0, f.applyErr
	}
	if f.credits+amount < 0 {
		return 0, apperr.ErrInsufficientCredits
	}
	f.credits += amount
	f.applied = append(f.applied, appliedEntry{amount, txType, generationID})
	return f.credits, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []string
	err      error
}

func (f *fakeQueue) Enqueue(generationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, generationID)
	return nil
}

func newTestGenerationService(store GenerationStore, ledger Ledger, queue JobQueue) *GenerationService {
	return NewGenerationService(store, ledger, queue, zap.NewNop())
}

func TestSubmitPluginDebitsAndEnqueues(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 100}
	queue := &fakeQueue{}
	svc := newTestGenerationService(store, ledger, queue)

	resp, err := svc.SubmitPlugin("user-1", models.PluginRequest{
		Prompt: "a plugin that greets players on join",
		Tier:   "medium",
		Name:   "Greeter",
	})
	if err != nil {
		t.Fatalf("SubmitPlugin: %v", err)
	}
	if resp.CreditsUsed != 35 {
		t.Errorf("CreditsUsed = %d, want 35", resp.CreditsUsed)
	}
	if resp.Status != "pending" {
		t.Errorf("Status = %q, want pending", resp.Status)
	}

	generation := store.only()
	if generation == nil {
		t.Fatal("no generation created")
	}
	if generation.Status != models.StatusPending {
		t.Errorf("stored status = %q, want pending", generation.Status)
	}
	if generation.CreditsUsed != 35 {
		t.Errorf("stored CreditsUsed = %d, want 35", generation.CreditsUsed)
	}

	if ledger.credits != 65 {
		t.Errorf("balance = %d, want 65", ledger.credits)
	}
	if len(ledger.applied) != 1 {
		t.Fatalf("applied = %d entries, want 1", len(ledger.applied))
	}
	entry := ledger.applied[0]
	if entry.txType != models.TransactionUsage || entry.generationID != generation.ID {
		t.Errorf("unexpected debit entry: %+v", entry)
	}

	if len(queue.enqueued) != 1 || queue.enqueued[0] != generation.ID {
		t.Errorf("enqueued = %v, want [%s]", queue.enqueued, generation.ID)
	}
}

func TestSubmitPluginInvalidTierCreatesNothing(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 100}
	queue := &fakeQueue{}
	svc := newTestGenerationService(store, ledger, queue)

	_, err := svc.SubmitPlugin("user-1", models.PluginRequest{Prompt: "x", Tier: "mythic"})
	if !errors.Is(err, apperr.ErrInvalidTier) {
		t.Fatalf("err = %v, want ErrInvalidTier", err)
	}
	if store.count() != 0 {
		t.Errorf("generations = %d, want 0", store.count())
	}
	if ledger.credits != 100 {
		t.Errorf("balance = %d, want 100 untouched", ledger.credits)
	}
	if len(queue.enqueued) != 0 {
		t.Errorf("enqueued = %v, want none", queue.enqueued)
	}
}

func TestSubmitDatapackInsufficientCredits(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 3}
	queue := &fakeQueue{}
	svc := newTestGenerationService(store, ledger, queue)

	_, err := svc.SubmitDatapack("user-1", models.DatapackRequest{Prompt: "x", Tier: "simple"})
	if !errors.Is(err, apperr.ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}
	if store.count() != 0 {
		t.Errorf("generations = %d, want 0", store.count())
	}
	if len(queue.enqueued) != 0 {
		t.Errorf("enqueued = %v, want none", queue.enqueued)
	}
}

func TestSubmitTexturePackExpandsCategories(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 100}
	queue := &fakeQueue{}
	svc := newTestGenerationService(store, ledger, queue)

	resp, err := svc.SubmitTexturePack("user-1", models.TexturePackRequest{
		StyleDescription: "dark medieval fantasy",
		Textures:         []string{"swords"},
	})
	if err != nil {
		t.Fatalf("SubmitTexturePack: %v", err)
	}
	if resp.TextureCount != 6 {
		t.Errorf("TextureCount = %d, want 6", resp.TextureCount)
	}
	if resp.CreditsUsed != 25 {
		t.Errorf("CreditsUsed = %d, want 25", resp.CreditsUsed)
	}

	generation := store.only()
	if generation.Tier != "6_textures" {
		t.Errorf("Tier = %q, want 6_textures", generation.Tier)
	}
	textures, _ := generation.InputParams["textures"].([]interface{})
	if len(textures) != 6 {
		t.Errorf("stored textures = %d, want 6", len(textures))
	}
}

func TestSubmitTexturePackRejectsEmptyList(t *testing.T) {
	svc := newTestGenerationService(newMemoryGenerationStore(), &fakeBalance{credits: 100}, &fakeQueue{})

	_, err := svc.SubmitTexturePack("user-1", models.TexturePackRequest{
		StyleDescription: "style",
		Textures:         []string{},
	})
	if !errors.Is(err, apperr.ErrInvalidTextures) {
		t.Errorf("err = %v, want ErrInvalidTextures", err)
	}
}

func TestSubmitDebitRaceClosesJob(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 100, applyErr: fmt.Errorf("%w: need 20, have 5", apperr.ErrInsufficientCredits)}
	queue := &fakeQueue{}
	svc := newTestGenerationService(store, ledger, queue)

	_, err := svc.SubmitPlugin("user-1", models.PluginRequest{Prompt: "x", Tier: "simple"})
	if !errors.Is(err, apperr.ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}

	generation := store.only()
	if generation == nil {
		t.Fatal("expected created job to remain for audit")
	}
	if generation.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", generation.Status)
	}
	if len(queue.enqueued) != 0 {
		t.Errorf("enqueued = %v, want none", queue.enqueued)
	}
}

func TestSubmitEnqueueFailureClosesJob(t *testing.T) {
	store := newMemoryGenerationStore()
	ledger := &fakeBalance{credits: 100}
	queue := &fakeQueue{err: errors.New("job queue full (64 pending)")}
	svc := newTestGenerationService(store, ledger, queue)

	_, err := svc.SubmitPlugin("user-1", models.PluginRequest{Prompt: "x", Tier: "simple"})
	if err == nil {
		t.Fatal("expected error when enqueue fails")
	}

	generation := store.only()
	if generation.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", generation.Status)
	}
}

func TestGetForUserHidesForeignJobs(t *testing.T) {
	store := newMemoryGenerationStore()
	svc := newTestGenerationService(store, &fakeBalance{credits: 100}, &fakeQueue{})

	resp, err := svc.SubmitPlugin("owner", models.PluginRequest{Prompt: "x", Tier: "simple"})
	if err != nil {
		t.Fatalf("SubmitPlugin: %v", err)
	}

	if _, err := svc.GetForUser(resp.GenerationID, "owner"); err != nil {
		t.Errorf("owner lookup: %v", err)
	}
	if _, err := svc.GetForUser(resp.GenerationID, "intruder"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("foreign lookup err = %v, want ErrNotFound", err)
	}
}

func TestEstimate(t *testing.T) {
	svc := newTestGenerationService(newMemoryGenerationStore(), &fakeBalance{}, &fakeQueue{})

	resp, err := svc.Estimate(models.EstimateRequest{Type: "plugin", Tier: "complex"})
	if err != nil {
		t.Fatalf("Estimate plugin: %v", err)
	}
	if resp.Credits != 50 {
		t.Errorf("plugin complex = %d, want 50", resp.Credits)
	}

	resp, err = svc.Estimate(models.EstimateRequest{Type: "texture_pack", Textures: []string{"swords"}})
	if err != nil {
		t.Fatalf("Estimate texture_pack: %v", err)
	}
	if resp.Credits != 25 || resp.TextureCount != 6 {
		t.Errorf("texture_pack swords = %d credits / %d textures, want 25 / 6", resp.Credits, resp.TextureCount)
	}

	if _, err := svc.Estimate(models.EstimateRequest{Type: "world", Tier: "simple"}); err == nil {
		t.Error("expected error for unknown type")
	}
}
