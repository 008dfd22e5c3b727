package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/service"
	"github.com/blocksmith-ai/backend/pkg/utils"
)

type GenerationHandler struct {
	generations *service.GenerationService
	validator   *utils.Validator
}

func NewGenerationHandler(generations *service.GenerationService, validator *utils.Validator) *GenerationHandler {
	return &GenerationHandler{
		generations: generations,
		validator:   validator,
	}
}

func (h *GenerationHandler) SubmitPlugin(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.PluginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := h.generations.SubmitPlugin(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse(result, "Generation started"))
}

func (h *GenerationHandler) SubmitDatapack(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.DatapackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := h.generations.SubmitDatapack(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse(result, "Generation started"))
}

func (h *GenerationHandler) SubmitTexturePack(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.TexturePackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := h.generations.SubmitTexturePack(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse(result, "Generation started"))
}

// GetGeneration returns a single job. Jobs belonging to other users read as
// not found.
func (h *GenerationHandler) GetGeneration(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	generation, err := h.generations.GetForUser(c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(generation, ""))
}

func (h *GenerationHandler) Estimate(c *fiber.Ctx) error {
	var req models.EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	estimate, err := h.generations.Estimate(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(estimate, ""))
}

func (h *GenerationHandler) GetPricing(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.generations.PricingTable(), ""))
}
