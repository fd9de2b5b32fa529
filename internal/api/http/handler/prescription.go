package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/service/prescription"
)

type PrescriptionHandler struct {
	svc prescription.Service
}

func NewPrescriptionHandler(svc prescription.Service) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc}
}

func mapPrescriptionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, prescription.ErrConsultationNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, prescription.ErrNoItems),
		errors.Is(err, prescription.ErrInvalidItem):
		return unprocessable(c, err.Error())
	case errors.Is(err, prescription.ErrNotAttendingDoctor):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /prescriptions/:id
func (h *PrescriptionHandler) Get(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	prescriptionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid prescription id")
	}

	rx, err := h.svc.GetByID(c.Context(), clinicID, prescriptionID)
	if err != nil {
		return mapPrescriptionError(c, err)
	}

	return ok(c, rx)
}

// GET /prescriptions/:id/pdf
func (h *PrescriptionHandler) PDF(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	prescriptionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid prescription id")
	}

	data, err := h.svc.RenderPDF(c.Context(), clinicID, prescriptionID)
	if err != nil {
		return mapPrescriptionError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="prescription.pdf"`)
	return c.Send(data)
}
