package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerWebhookRoutes(api fiber.Router, h *handler.PaymentHandler) {
	group := api.Group("/webhooks")
	group.Post("/stripe", h.StripeWebhook)
}
