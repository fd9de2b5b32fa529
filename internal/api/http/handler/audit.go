package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/internal/service/audit"
)

type AuditHandler struct {
	svc audit.Service
}

func NewAuditHandler(svc audit.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GET /audit
func (h *AuditHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		Page    int    `query:"page"`
		PerPage int    `query:"per_page"`
		Entity  string `query:"entity"`
		Action  string `query:"action"`
	}
	_ = c.Bind().Query(&q)

	req := audit.ListEntriesRequest{Page: q.Page, PerPage: q.PerPage}
	if q.Entity != "" {
		req.Entity = &q.Entity
	}
	if q.Action != "" {
		req.Action = &q.Action
	}

	result, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return internalError(c)
	}

	return ok(c, fiber.Map{
		"entries":     result.Data,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}
