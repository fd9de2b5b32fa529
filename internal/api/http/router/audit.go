package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerAuditRoutes(api fiber.Router, h *handler.AuditHandler) {
	api.Get("/audit", h.List)
}
