package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerPortalRoutes(api fiber.Router, h *handler.PortalHandler) {
	group := api.Group("/portal")
	group.Get("/appointments", h.Appointments)
	group.Get("/invoices", h.Invoices)
	group.Get("/prescriptions", h.Prescriptions)
}
