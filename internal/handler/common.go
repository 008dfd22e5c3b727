package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

// errorStatus maps domain errors to HTTP status codes. Anything unmapped is
// an internal error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInsufficientCredits):
		return fiber.StatusPaymentRequired
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidTier), errors.Is(err, apperr.ErrInvalidTextures):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(models.ErrorResponse(err.Error()))
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
}

func currentUserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("userEmail").(string)
	return email
}

// pageParams reads limit/offset query params, clamped to sane bounds.
func pageParams(c *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
