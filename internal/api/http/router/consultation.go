package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerConsultationRoutes(api fiber.Router, h *handler.ConsultationHandler) {
	group := api.Group("/consultations")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Post("/:id/prescriptions", h.CreatePrescription)
}
