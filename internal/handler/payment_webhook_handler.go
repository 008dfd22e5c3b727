package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/service"
)

// PaymentWebhookHandler terminates Stripe webhook deliveries. Signature
// verification happens here; everything after a verified event is the
// payment service's problem.
type PaymentWebhookHandler struct {
	payments      *service.PaymentService
	webhookSecret string
	logger        *zap.Logger
}

func NewPaymentWebhookHandler(payments *service.PaymentService, webhookSecret string, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		payments:      payments,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (h *PaymentWebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signature, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("stripe webhook verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Webhook verification failed"))
	}

	if err := h.payments.HandleStripeWebhook(event); err != nil {
		h.logger.Error("stripe webhook processing failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(fiber.Map{"status": "success"})
}
