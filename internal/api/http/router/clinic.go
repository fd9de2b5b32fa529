package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerClinicRoutes(api fiber.Router, h *handler.ClinicHandler) {
	group := api.Group("/clinic")
	group.Get("/", h.Get)
	group.Patch("/", h.Update)

	api.Get("/dashboard/stats", h.Stats)
}
