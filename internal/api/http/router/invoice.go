package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerInvoiceRoutes(api fiber.Router, h *handler.InvoiceHandler) {
	group := api.Group("/invoices")
	group.Get("/", h.List)
	group.Post("/", h.Create)

	// Must come before the :id routes or it is swallowed by them.
	group.Get("/stats", h.Stats)

	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Post("/:id/send", h.Send)
	group.Post("/:id/payments", h.RecordPayment)
	group.Patch("/:id/pay", h.MarkPaid)
	group.Patch("/:id/cancel", h.Cancel)
	group.Post("/:id/checkout", h.Checkout)
	group.Get("/:id/pdf", h.PDF)
}
