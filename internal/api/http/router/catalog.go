package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerCatalogRoutes(api fiber.Router, h *handler.CatalogHandler) {
	group := api.Group("/services")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Patch("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
