package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, authLimiter fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/register", authLimiter, h.Register)
	group.Post("/login", authLimiter, h.Login)
	group.Post("/logout", h.Logout)
	group.Get("/me", h.Me)
	group.Get("/page-access", h.PageAccess)
	group.Get("/invitations/:token", h.GetInvitation)
	group.Post("/invitations/:token/complete", authLimiter, h.CompleteInvitation)
}
