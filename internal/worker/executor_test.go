package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/packager"
	"github.com/blocksmith-ai/backend/pkg/ai"
)

type stubGenerationStore struct {
	mu          sync.Mutex
	generations map[string]*models.Generation
	updates     []map[string]interface{}
}

func newStubGenerationStore(generations ...*models.Generation) *stubGenerationStore {
	store := &stubGenerationStore{generations: make(map[string]*models.Generation)}
	for _, g := range generations {
		store.generations[g.ID] = g
	}
	return store
}

func (s *stubGenerationStore) GetByID(id string) (*models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	generation, ok := s.generations[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *generation
	return &copied, nil
}

func (s *stubGenerationStore) UpdateIfNotTerminal(id string, updates map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	generation, ok := s.generations[id]
	if !ok {
		return false, apperr.ErrNotFound
	}
	if generation.Status.IsTerminal() {
		return false, nil
	}
	if status, ok := updates["status"].(models.GenerationStatus); ok {
		generation.Status = status
	}
	if msg, ok := updates["error_message"].(string); ok {
		generation.ErrorMessage = msg
	}
	if url, ok := updates["file_url"].(string); ok {
		generation.FileURL = url
	}
	if name, ok := updates["file_name"].(string); ok {
		generation.FileName = name
	}
	if metadata, ok := updates["metadata"].(models.JSONMap); ok {
		generation.Metadata = metadata
	}
	if completedAt, ok := updates["completed_at"].(time.Time); ok {
		generation.CompletedAt = &completedAt
	}
	if expiresAt, ok := updates["expires_at"].(time.Time); ok {
		generation.ExpiresAt = &expiresAt
	}
	s.updates = append(s.updates, updates)
	return true, nil
}

func (s *stubGenerationStore) get(id string) *models.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.generations[id]
	return &copied
}

func (s *stubGenerationStore) terminalWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, updates := range s.updates {
		if status, ok := updates["status"].(models.GenerationStatus); ok && status.IsTerminal() {
			count++
		}
	}
	return count
}

type stubProfiles struct{}

func (stubProfiles) GetByID(userID string) (*models.Profile, error) {
	return &models.Profile{ID: userID, Email: userID + "@example.com"}, nil
}

type stubLedger struct {
	mu      sync.Mutex
	refunds []int
}

func (l *stubLedger) Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if txType == models.TransactionRefund {
		l.refunds = append(l.refunds, amount)
	}
	return amount, nil
}

type stubRouter struct {
	response string
	tokens   int
	err      error
}

func (r *stubRouter) SelectModel(generationType, tier string) ai.Model {
	if generationType == "texture_pack" {
		return ai.ModelGemini
	}
	return ai.ModelClaude
}

func (r *stubRouter) Generate(ctx context.Context, model ai.Model, prompt, systemPrompt string) (string, int, error) {
	if r.err != nil {
		return "", 0, r.err
	}
	return r.response, r.tokens, nil
}

type stubImages struct {
	failOn map[string]bool
	calls  int
	mu     sync.Mutex
}

func (i *stubImages) GenerateImage(ctx context.Context, prompt, negative string) ([]byte, error) {
	i.mu.Lock()
	i.calls++
	i.mu.Unlock()
	if i.failOn[prompt] {
		return nil, fmt.Errorf("%w: image backend unavailable", apperr.ErrProviderError)
	}
	return []byte{0x89, 0x50, 0x4e, 0x47}, nil
}

type stubPackager struct {
	published    map[string]packager.Artifact
	textureFiles int
	mu           sync.Mutex
}

func newStubPackager() *stubPackager {
	return &stubPackager{published: make(map[string]packager.Artifact)}
}

func (p *stubPackager) PackagePlugin(ctx context.Context, pluginName string, files map[string][]byte) (packager.Artifact, bool, error) {
	return packager.Artifact{Name: pluginName + "_source.zip", Bytes: []byte("zip")}, false, nil
}

func (p *stubPackager) PackageDatapack(packName string, files map[string][]byte) (packager.Artifact, error) {
	return packager.Artifact{Name: packName + ".zip", Bytes: []byte("zip")}, nil
}

func (p *stubPackager) PackageTexturePack(packName string, files map[string][]byte) (packager.Artifact, error) {
	p.mu.Lock()
	p.textureFiles = len(files)
	p.mu.Unlock()
	return packager.Artifact{Name: packName + ".zip", Bytes: []byte("zip")}, nil
}

func (p *stubPackager) Publish(ctx context.Context, artifact packager.Artifact, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[key] = artifact
	return "https://files.example.com/" + key, nil
}

type stubNotifier struct {
	mu        sync.Mutex
	completed int
	failed    int
}

func (n *stubNotifier) SendGenerationCompleted(to, generationType, fileName, fileURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
}

func (n *stubNotifier) SendGenerationFailed(to, generationType, errorMessage string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed++
}

type executorFixture struct {
	store    *stubGenerationStore
	ledger   *stubLedger
	router   *stubRouter
	images   *stubImages
	packager *stubPackager
	notifier *stubNotifier
}

func newExecutor(f *executorFixture, cfg ExecutorConfig) *Executor {
	if f.router == nil {
		f.router = &stubRouter{}
	}
	if f.images == nil {
		f.images = &stubImages{}
	}
	if f.packager == nil {
		f.packager = newStubPackager()
	}
	if f.notifier == nil {
		f.notifier = &stubNotifier{}
	}
	if f.ledger == nil {
		f.ledger = &stubLedger{}
	}
	if cfg.TextureConcurrency == 0 {
		cfg.TextureConcurrency = 4
	}
	return NewExecutor(f.store, stubProfiles{}, f.ledger, f.router, f.images, f.packager, f.notifier, cfg, zap.NewNop())
}

func pendingGeneration(id string, generationType models.GenerationType) *models.Generation {
	return &models.Generation{
		ID:          id,
		UserID:      "user-1",
		Type:        generationType,
		Tier:        "simple",
		Status:      models.StatusPending,
		Prompt:      "a teleport wand",
		CreditsUsed: 20,
	}
}

func TestExecuteDatapackCompletes(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationDatapack)
	fixture := &executorFixture{
		store: newStubGenerationStore(generation),
		router: &stubRouter{
			response: `{"pack_name": "teleport_pack", "description": "Teleportation", "files": {"data/tp/functions/tick.mcfunction": "say hi"}}`,
			tokens:   1200,
		},
	}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	result := fixture.store.get("gen-1")
	if result.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %q)", result.Status, result.ErrorMessage)
	}
	if result.FileURL == "" || result.FileName == "" {
		t.Errorf("file fields not set: url=%q name=%q", result.FileURL, result.FileName)
	}
	if result.CompletedAt == nil || result.ExpiresAt == nil {
		t.Fatal("completed_at / expires_at not set")
	}
	if got := result.ExpiresAt.Sub(*result.CompletedAt); got != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", got)
	}
	if _, ok := fixture.packager.published["datapacks/gen-1/teleport_pack.zip"]; !ok {
		t.Errorf("artifact not published under expected key: %v", fixture.packager.published)
	}
	if fixture.notifier.completed != 1 {
		t.Errorf("completion emails = %d, want 1", fixture.notifier.completed)
	}
}

func TestExecuteProviderFailureMarksFailed(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationPlugin)
	fixture := &executorFixture{
		store:  newStubGenerationStore(generation),
		router: &stubRouter{err: fmt.Errorf("%w: status 529", apperr.ErrProviderError)},
	}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	result := fixture.store.get("gen-1")
	if result.Status != models.StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
	if result.ErrorMessage == "" {
		t.Error("error_message is empty")
	}
	if fixture.notifier.failed != 1 {
		t.Errorf("failure emails = %d, want 1", fixture.notifier.failed)
	}
	if len(fixture.ledger.refunds) != 0 {
		t.Errorf("refunds = %v, want none when refund flag is off", fixture.ledger.refunds)
	}
}

func TestExecuteMalformedOutputMarksFailed(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationPlugin)
	fixture := &executorFixture{
		store:  newStubGenerationStore(generation),
		router: &stubRouter{response: "Sure! Here is your plugin but I forgot the JSON."},
	}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	result := fixture.store.get("gen-1")
	if result.Status != models.StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "output") {
		t.Errorf("error_message = %q, want mention of unusable output", result.ErrorMessage)
	}
}

func TestExecuteRefundsWhenEnabled(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationPlugin)
	fixture := &executorFixture{
		store:  newStubGenerationStore(generation),
		router: &stubRouter{err: errors.New("boom")},
	}
	executor := newExecutor(fixture, ExecutorConfig{RefundOnFailure: true})

	executor.Execute(context.Background(), "gen-1")

	if len(fixture.ledger.refunds) != 1 || fixture.ledger.refunds[0] != 20 {
		t.Errorf("refunds = %v, want [20]", fixture.ledger.refunds)
	}
}

func TestExecuteSkipsTerminalJob(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationPlugin)
	generation.Status = models.StatusCompleted
	fixture := &executorFixture{
		store:  newStubGenerationStore(generation),
		router: &stubRouter{err: errors.New("must not be called")},
	}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	if len(fixture.store.updates) != 0 {
		t.Errorf("updates = %v, want none for a terminal job", fixture.store.updates)
	}
}

func TestExecuteWritesExactlyOneTerminalStatus(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationDatapack)
	fixture := &executorFixture{
		store: newStubGenerationStore(generation),
		router: &stubRouter{
			response: `{"pack_name": "p", "files": {"pack.mcmeta": "{}"}}`,
		},
	}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	if got := fixture.store.terminalWrites(); got != 1 {
		t.Errorf("terminal writes = %d, want 1", got)
	}
}

func TestExecuteTexturePackOmitsFailedTextures(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationTexturePack)
	generation.Prompt = "dark medieval"
	generation.InputParams = models.JSONMap{
		"name":     "medieval_pack",
		"textures": []interface{}{"item/diamond_sword.png", "item/iron_sword.png", "item/gold_sword.png"},
	}
	response := `{
		"pack_name": "medieval_pack",
		"description": "Dark medieval",
		"textures": {
			"assets/minecraft/textures/item/diamond_sword.png": {"prompt": "diamond sword", "negative_prompt": "blurry"},
			"assets/minecraft/textures/item/iron_sword.png": {"prompt": "iron sword", "negative_prompt": "blurry"},
			"assets/minecraft/textures/item/gold_sword.png": {"prompt": "gold sword", "negative_prompt": "blurry"}
		}
	}`
	fixture := &executorFixture{
		store:  newStubGenerationStore(generation),
		router: &stubRouter{response: response, tokens: 800},
		images: &stubImages{failOn: map[string]bool{"iron sword": true}},
	}
	executor := newExecutor(fixture, ExecutorConfig{TextureConcurrency: 2})

	executor.Execute(context.Background(), "gen-1")

	result := fixture.store.get("gen-1")
	if result.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want completed (error: %q)", result.Status, result.ErrorMessage)
	}
	if got := result.Metadata["textures_generated"]; got != 2 {
		t.Errorf("textures_generated = %v, want 2", got)
	}
	if got := result.Metadata["textures_requested"]; got != 3 {
		t.Errorf("textures_requested = %v, want 3", got)
	}

	if _, ok := fixture.packager.published["textures/gen-1/medieval_pack.zip"]; !ok {
		t.Fatalf("artifact not published: %v", fixture.packager.published)
	}
	// pack.mcmeta plus the two successful textures.
	if fixture.packager.textureFiles != 3 {
		t.Errorf("packaged files = %d, want 3", fixture.packager.textureFiles)
	}
}

func TestExecuteUnknownTypeFails(t *testing.T) {
	generation := pendingGeneration("gen-1", models.GenerationType("hologram"))
	fixture := &executorFixture{store: newStubGenerationStore(generation)}
	executor := newExecutor(fixture, ExecutorConfig{})

	executor.Execute(context.Background(), "gen-1")

	result := fixture.store.get("gen-1")
	if result.Status != models.StatusFailed {
		t.Errorf("status = %q, want failed", result.Status)
	}
}
