package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	profile, err := h.users.GetProfile(userID, currentUserEmail(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(profile, ""))
}

func (h *UserHandler) GetMyGenerations(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	limit, offset := pageParams(c)
	generations, err := h.users.GetGenerations(userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(models.Paginated{
		Items:  generations,
		Limit:  limit,
		Offset: offset,
	}, ""))
}

func (h *UserHandler) GetMyTransactions(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	limit, offset := pageParams(c)
	transactions, err := h.users.GetTransactions(userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(models.Paginated{
		Items:  transactions,
		Limit:  limit,
		Offset: offset,
	}, ""))
}
