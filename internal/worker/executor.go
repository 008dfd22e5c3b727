package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/packager"
	"github.com/blocksmith-ai/backend/internal/prompts"
	"github.com/blocksmith-ai/backend/pkg/ai"
)

const artifactRetention = 30 * 24 * time.Hour

// GenerationStore is the job persistence the executor needs. Terminal writes
// go through UpdateIfNotTerminal so a finished job can never be overwritten.
type GenerationStore interface {
	GetByID(id string) (*models.Generation, error)
	UpdateIfNotTerminal(id string, updates map[string]interface{}) (bool, error)
}

// Ledger is the refund interface, used only when refund-on-failure is on.
type Ledger interface {
	Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error)
}

// ProfileStore resolves a user's email address for notifications.
type ProfileStore interface {
	GetByID(userID string) (*models.Profile, error)
}

// TextRouter selects and invokes a text generation backend.
type TextRouter interface {
	SelectModel(generationType, tier string) ai.Model
	Generate(ctx context.Context, model ai.Model, prompt, systemPrompt string) (string, int, error)
}

// ArtifactPackager packages raw output and publishes the artifact.
type ArtifactPackager interface {
	PackagePlugin(ctx context.Context, pluginName string, files map[string][]byte) (packager.Artifact, bool, error)
	PackageDatapack(packName string, files map[string][]byte) (packager.Artifact, error)
	PackageTexturePack(packName string, files map[string][]byte) (packager.Artifact, error)
	Publish(ctx context.Context, artifact packager.Artifact, key string) (string, error)
}

// Notifier sends best-effort status emails.
type Notifier interface {
	SendGenerationCompleted(to, generationType, fileName, fileURL string)
	SendGenerationFailed(to, generationType, errorMessage string)
}

// Executor drives one generation from processing to a terminal status. Every
// execution path, including panics, ends in exactly one terminal write.
type Executor struct {
	generations GenerationStore
	profiles    ProfileStore
	ledger      Ledger
	router      TextRouter
	images      ai.ImageGenerator
	packager    ArtifactPackager
	notifier    Notifier
	logger      *zap.Logger

	refundOnFailure    bool
	textureConcurrency int
}

type ExecutorConfig struct {
	RefundOnFailure    bool
	TextureConcurrency int
}

func NewExecutor(
	generations GenerationStore,
	profiles ProfileStore,
	ledger Ledger,
	router TextRouter,
	images ai.ImageGenerator,
	artifactPackager ArtifactPackager,
	notifier Notifier,
	cfg ExecutorConfig,
	logger *zap.Logger,
) *Executor {
	if cfg.TextureConcurrency < 1 {
		cfg.TextureConcurrency = 1
	}
	return &Executor{
		generations:        generations,
		profiles:           profiles,
		ledger:             ledger,
		router:             router,
		images:             images,
		packager:           artifactPackager,
		notifier:           notifier,
		logger:             logger,
		refundOnFailure:    cfg.RefundOnFailure,
		textureConcurrency: cfg.TextureConcurrency,
	}
}

func (e *Executor) Execute(ctx context.Context, generationID string) {
	generation, err := e.generations.GetByID(generationID)
	if err != nil {
		e.logger.Error("cannot load generation for execution",
			zap.String("generation_id", generationID),
			zap.Error(err),
		)
		return
	}

	if generation.Status.IsTerminal() {
		e.logger.Warn("skipping generation already in terminal state",
			zap.String("generation_id", generationID),
			zap.String("status", string(generation.Status)),
		)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("generation execution panicked",
				zap.String("generation_id", generationID),
				zap.Any("panic", r),
			)
			e.markFailed(generation, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if _, err := e.generations.UpdateIfNotTerminal(generationID, map[string]interface{}{
		"status": models.StatusProcessing,
	}); err != nil {
		e.logger.Error("cannot mark generation processing",
			zap.String("generation_id", generationID),
			zap.Error(err),
		)
		return
	}

	result, err := e.run(ctx, generation)
	if err != nil {
		e.markFailed(generation, err.Error())
		return
	}
	e.markCompleted(generation, result)
}

func (e *Executor) run(ctx context.Context, generation *models.Generation) (*models.GenerationResult, error) {
	switch generation.Type {
	case models.GenerationPlugin:
		return e.runPlugin(ctx, generation)
	case models.GenerationDatapack:
		return e.runDatapack(ctx, generation)
	case models.GenerationTexturePack:
		return e.runTexturePack(ctx, generation)
	default:
		return nil, fmt.Errorf("unknown generation type %q", generation.Type)
	}
}

// --- plugin --------------------------------------------------------------

type pluginCommand struct {
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Permission  string `json:"permission"`
}

type pluginPermission struct {
	Description string `json:"description"`
	Default     string `json:"default"`
}

type pluginOutput struct {
	PluginName  string                      `json:"plugin_name"`
	Version     string                      `json:"version"`
	Description string                      `json:"description"`
	MainClass   string                      `json:"main_class"`
	APIVersion  string                      `json:"api_version"`
	Commands    map[string]pluginCommand    `json:"commands"`
	Permissions map[string]pluginPermission `json:"permissions"`
	Files       map[string]string           `json:"files"`
}

func (e *Executor) runPlugin(ctx context.Context, generation *models.Generation) (*models.GenerationResult, error) {
	model := e.router.SelectModel(string(generation.Type), generation.Tier)
	fullPrompt := prompts.PluginPrompt(generation.Tier, generation.Prompt)

	raw, tokens, err := e.router.Generate(ctx, model, fullPrompt, prompts.PluginSystemPrompt)
	if err != nil {
		return nil, err
	}

	var output pluginOutput
	if err := ai.ExtractJSON(raw, &output); err != nil {
		return nil, err
	}

	pluginName := inputName(generation)
	if pluginName == "" {
		pluginName = output.PluginName
	}
	if pluginName == "" {
		pluginName = "GeneratedPlugin"
	}

	files := make(map[string][]byte, len(output.Files)+1)
	for path, content := range output.Files {
		files[path] = []byte(content)
	}
	files["src/main/resources/plugin.yml"] = []byte(buildPluginYML(pluginName, output))

	artifact, compiled, err := e.packager.PackagePlugin(ctx, pluginName, files)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("plugins/%s/%s", generation.ID, artifact.Name)
	fileURL, err := e.packager.Publish(ctx, artifact, key)
	if err != nil {
		return nil, err
	}

	metadata := models.JSONMap{
		"plugin_name": pluginName,
		"version":     orDefault(output.Version, "1.0.0"),
	}
	if compiled {
		commands := make([]string, 0, len(output.Commands))
		for name := range output.Commands {
			commands = append(commands, name)
		}
		metadata["commands"] = commands
	} else {
		metadata["note"] = "Compilation failed. Source code provided for manual compilation."
	}

	return &models.GenerationResult{
		FileURL:      fileURL,
		FileName:     artifact.Name,
		FileSize:     artifact.Size(),
		AIModelUsed:  string(model),
		AITokensUsed: tokens,
		Metadata:     metadata,
	}, nil
}

// --- datapack ------------------------------------------------------------

type datapackOutput struct {
	PackName    string            `json:"pack_name"`
	Description string            `json:"description"`
	PackFormat  int               `json:"pack_format"`
	Files       map[string]string `json:"files"`
}

func (e *Executor) runDatapack(ctx context.Context, generation *models.Generation) (*models.GenerationResult, error) {
	model := e.router.SelectModel(string(generation.Type), generation.Tier)
	fullPrompt := prompts.DatapackPrompt(generation.Tier, generation.Prompt)

	raw, tokens, err := e.router.Generate(ctx, model, fullPrompt, prompts.DatapackSystemPrompt)
	if err != nil {
		return nil, err
	}

	var output datapackOutput
	if err := ai.ExtractJSON(raw, &output); err != nil {
		return nil, err
	}

	packName := inputName(generation)
	if packName == "" {
		packName = output.PackName
	}
	if packName == "" {
		packName = "generated_datapack"
	}

	files := make(map[string][]byte, len(output.Files))
	for path, content := range output.Files {
		files[path] = []byte(content)
	}

	artifact, err := e.packager.PackageDatapack(packName, files)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("datapacks/%s/%s", generation.ID, artifact.Name)
	fileURL, err := e.packager.Publish(ctx, artifact, key)
	if err != nil {
		return nil, err
	}

	return &models.GenerationResult{
		FileURL:      fileURL,
		FileName:     artifact.Name,
		FileSize:     artifact.Size(),
		AIModelUsed:  string(model),
		AITokensUsed: tokens,
		Metadata: models.JSONMap{
			"pack_name":   packName,
			"description": output.Description,
		},
	}, nil
}

// --- texture pack --------------------------------------------------------

type texturePromptSpec struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

type textureOutput struct {
	PackName    string                       `json:"pack_name"`
	Description string                       `json:"description"`
	Textures    map[string]texturePromptSpec `json:"textures"`
}

func (e *Executor) runTexturePack(ctx context.Context, generation *models.Generation) (*models.GenerationResult, error) {
	requested := inputTextures(generation)

	model := e.router.SelectModel(string(generation.Type), "standard")
	fullPrompt := prompts.TexturePrompt(generation.Prompt, requested)

	raw, tokens, err := e.router.Generate(ctx, model, fullPrompt, prompts.TextureSystemPrompt)
	if err != nil {
		return nil, err
	}

	var output textureOutput
	if err := ai.ExtractJSON(raw, &output); err != nil {
		return nil, err
	}

	packName := inputName(generation)
	if packName == "" {
		packName = output.PackName
	}
	if packName == "" {
		packName = "custom_textures"
	}

	description := output.Description
	if description == "" {
		description = "Custom textures: " + generation.Prompt
	}

	files := map[string][]byte{
		"pack.mcmeta": []byte(fmt.Sprintf(
			"{\n  \"pack\": {\n    \"pack_format\": 15,\n    \"description\": %q\n  }\n}\n", description)),
	}

	// Bounded fan-out over the texture list. A failed texture is logged and
	// omitted; it never fails the job.
	var mu sync.Mutex
	generated := 0

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.textureConcurrency)
	for path, spec := range output.Textures {
		path, spec := path, spec
		g.Go(func() error {
			image, err := e.images.GenerateImage(groupCtx, spec.Prompt, spec.NegativePrompt)
			if err != nil {
				e.logger.Warn("texture generation failed, omitting from pack",
					zap.String("generation_id", generation.ID),
					zap.String("texture", path),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			files[path] = image
			generated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	artifact, err := e.packager.PackageTexturePack(packName, files)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("textures/%s/%s", generation.ID, artifact.Name)
	fileURL, err := e.packager.Publish(ctx, artifact, key)
	if err != nil {
		return nil, err
	}

	return &models.GenerationResult{
		FileURL:      fileURL,
		FileName:     artifact.Name,
		FileSize:     artifact.Size(),
		AIModelUsed:  string(model),
		AITokensUsed: tokens,
		Metadata: models.JSONMap{
			"pack_name":          packName,
			"style":              generation.Prompt,
			"textures_requested": len(requested),
			"textures_generated": generated,
		},
	}, nil
}

// --- terminal transitions ------------------------------------------------

func (e *Executor) markCompleted(generation *models.Generation, result *models.GenerationResult) {
	now := time.Now().UTC()
	expires := now.Add(artifactRetention)

	applied, err := e.generations.UpdateIfNotTerminal(generation.ID, map[string]interface{}{
		"status":         models.StatusCompleted,
		"file_url":       result.FileURL,
		"file_name":      result.FileName,
		"file_size":      result.FileSize,
		"ai_model_used":  result.AIModelUsed,
		"ai_tokens_used": result.AITokensUsed,
		"metadata":       result.Metadata,
		"completed_at":   now,
		"expires_at":     expires,
	})
	if err != nil {
		e.logger.Error("cannot mark generation completed",
			zap.String("generation_id", generation.ID),
			zap.Error(err),
		)
		return
	}
	if !applied {
		e.logger.Warn("generation already terminal, completion dropped",
			zap.String("generation_id", generation.ID),
		)
		return
	}

	e.logger.Info("generation completed",
		zap.String("generation_id", generation.ID),
		zap.String("type", string(generation.Type)),
		zap.String("file", result.FileName),
	)

	if email := e.userEmail(generation.UserID); email != "" {
		e.notifier.SendGenerationCompleted(email, string(generation.Type), result.FileName, result.FileURL)
	}
}

func (e *Executor) markFailed(generation *models.Generation, errorMessage string) {
	applied, err := e.generations.UpdateIfNotTerminal(generation.ID, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMessage,
	})
	if err != nil {
		e.logger.Error("cannot mark generation failed",
			zap.String("generation_id", generation.ID),
			zap.Error(err),
		)
		return
	}
	if !applied {
		return
	}

	e.logger.Info("generation failed",
		zap.String("generation_id", generation.ID),
		zap.String("type", string(generation.Type)),
		zap.String("error", errorMessage),
	)

	if e.refundOnFailure {
		description := fmt.Sprintf("Refund for failed %s generation", generation.Type)
		if _, err := e.ledger.Apply(generation.UserID, generation.CreditsUsed, models.TransactionRefund, description, generation.ID, ""); err != nil {
			e.logger.Error("refund for failed generation did not apply",
				zap.String("generation_id", generation.ID),
				zap.Error(err),
			)
		}
	}

	if email := e.userEmail(generation.UserID); email != "" {
		e.notifier.SendGenerationFailed(email, string(generation.Type), errorMessage)
	}
}

func (e *Executor) userEmail(userID string) string {
	profile, err := e.profiles.GetByID(userID)
	if err != nil {
		return ""
	}
	return profile.Email
}

// --- helpers -------------------------------------------------------------

func inputName(generation *models.Generation) string {
	if generation.InputParams == nil {
		return ""
	}
	name, _ := generation.InputParams["name"].(string)
	return name
}

func inputTextures(generation *models.Generation) []string {
	if generation.InputParams == nil {
		return nil
	}
	raw, _ := generation.InputParams["textures"].([]interface{})
	textures := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			textures = append(textures, s)
		}
	}
	return textures
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func buildPluginYML(pluginName string, output pluginOutput) string {
	yml := fmt.Sprintf(`name: %s
version: %s
main: %s
api-version: %s
description: %s
author: BlockSmith AI

`,
		pluginName,
		orDefault(output.Version, "1.0.0"),
		orDefault(output.MainClass, "com.blocksmith.plugin.Main"),
		orDefault(output.APIVersion, "1.20"),
		orDefault(output.Description, "Generated by BlockSmith AI"),
	)

	if len(output.Commands) > 0 {
		yml += "commands:\n"
		for name, cmd := range output.Commands {
			yml += fmt.Sprintf("  %s:\n", name)
			yml += fmt.Sprintf("    description: %s\n", cmd.Description)
			yml += fmt.Sprintf("    usage: %s\n", orDefault(cmd.Usage, "/"+name))
			if cmd.Permission != "" {
				yml += fmt.Sprintf("    permission: %s\n", cmd.Permission)
			}
		}
	}

	if len(output.Permissions) > 0 {
		yml += "\npermissions:\n"
		for name, perm := range output.Permissions {
			yml += fmt.Sprintf("  %s:\n", name)
			yml += fmt.Sprintf("    description: %s\n", perm.Description)
			yml += fmt.Sprintf("    default: %s\n", orDefault(perm.Default, "op"))
		}
	}

	return yml
}
