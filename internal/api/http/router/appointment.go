package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, h *handler.AppointmentHandler) {
	group := api.Group("/appointments")
	group.Get("/", h.List)
	group.Post("/", h.Create)

	// Public booking surface: the gate allows these anonymously.
	group.Post("/book", h.Book)
	group.Get("/booking", h.BookingOptions)

	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Reschedule)
	group.Patch("/:id/status", h.ChangeStatus)
	group.Delete("/:id", h.Delete)
}
