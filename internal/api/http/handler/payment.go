package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/service/payment"
)

type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// POST /webhooks/stripe
func (h *PaymentHandler) StripeWebhook(c fiber.Ctx) error {
	err := h.svc.HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrBadSignature) || errors.Is(err, payment.ErrBadPayload) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}

	// Stripe only needs a 2xx acknowledgement.
	return ok(c, fiber.Map{"received": true})
}
