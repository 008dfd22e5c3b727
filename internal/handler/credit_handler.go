package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/service"
	"github.com/blocksmith-ai/backend/pkg/utils"
)

type CreditHandler struct {
	payments  *service.PaymentService
	ledger    *service.LedgerService
	validator *utils.Validator
}

func NewCreditHandler(payments *service.PaymentService, ledger *service.LedgerService, validator *utils.Validator) *CreditHandler {
	return &CreditHandler{
		payments:  payments,
		ledger:    ledger,
		validator: validator,
	}
}

func (h *CreditHandler) GetCreditPackages(c *fiber.Ctx) error {
	packages, err := h.payments.GetCreditPackages()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(packages, ""))
}

func (h *CreditHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	profile, err := h.ledger.Balance(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{
		"credits":     profile.Credits,
		"total_spent": profile.TotalSpent,
	}, ""))
}

func (h *CreditHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.payments.CreateCheckoutSession(userID, currentUserEmail(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *CreditHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	limit, offset := pageParams(c)
	purchases, err := h.payments.GetPurchaseHistory(userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(purchases, ""))
}
