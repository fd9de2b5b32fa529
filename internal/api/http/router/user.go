package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerUserRoutes(api fiber.Router, h *handler.UserHandler) {
	group := api.Group("/users")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Post("/invite", h.Invite)
	group.Patch("/:id", h.Update)
	group.Patch("/:id/role", h.UpdateRole)
	group.Patch("/:id/toggle", h.ToggleActive)
	group.Post("/:id/password", h.SetPassword)
	group.Post("/:id/resend-invite", h.ResendInvitation)
	group.Delete("/:id", h.Delete)
}
