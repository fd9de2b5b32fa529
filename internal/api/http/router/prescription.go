package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerPrescriptionRoutes(api fiber.Router, h *handler.PrescriptionHandler) {
	group := api.Group("/prescriptions")
	group.Get("/:id", h.Get)
	group.Get("/:id/pdf", h.PDF)
}
