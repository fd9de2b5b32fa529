package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/service/consultation"
	"github.com/maherraissi/MedFlow/internal/service/prescription"
)

type ConsultationHandler struct {
	svc consultation.Service
	rx  prescription.Service
}

func NewConsultationHandler(svc consultation.Service, rx prescription.Service) *ConsultationHandler {
	return &ConsultationHandler{svc: svc, rx: rx}
}

func mapConsultationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, consultation.ErrConsultationNotFound),
		errors.Is(err, consultation.ErrAppointmentNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, consultation.ErrConsultationExists):
		return conflict(c, err.Error())
	case errors.Is(err, consultation.ErrAppointmentCancelled):
		return badRequest(c, err.Error())
	case errors.Is(err, consultation.ErrInvalidSymptoms),
		errors.Is(err, consultation.ErrInvalidDiagnosis):
		return unprocessable(c, err.Error())
	case errors.Is(err, consultation.ErrNotAttendingDoctor):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /consultations
func (h *ConsultationHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		Page      int    `query:"page"`
		PerPage   int    `query:"per_page"`
		PatientID string `query:"patient_id"`
		DoctorID  string `query:"doctor_id"`
	}
	_ = c.Bind().Query(&q)

	req := consultation.ListConsultationsRequest{Page: q.Page, PerPage: q.PerPage}
	if q.PatientID != "" {
		id, err := uuid.Parse(q.PatientID)
		if err != nil {
			return badRequest(c, "invalid patient_id")
		}
		req.PatientID = &id
	}
	if q.DoctorID != "" {
		id, err := uuid.Parse(q.DoctorID)
		if err != nil {
			return badRequest(c, "invalid doctor_id")
		}
		req.DoctorID = &id
	}

	result, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return mapConsultationError(c, err)
	}

	return ok(c, fiber.Map{
		"consultations": result.Data,
		"total":         result.Total,
		"page":          result.Page,
		"per_page":      result.PerPage,
		"total_pages":   result.TotalPages,
	})
}

// POST /consultations
func (h *ConsultationHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	doctorID, hasDoctor := userIDFromLocals(c)
	if !hasDoctor {
		return unauthorized(c)
	}

	var body struct {
		AppointmentID string  `json:"appointment_id"`
		Symptoms      string  `json:"symptoms"`
		Diagnosis     string  `json:"diagnosis"`
		Notes         *string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appointmentID, err := uuid.Parse(body.AppointmentID)
	if err != nil {
		return badRequest(c, "invalid appointment_id")
	}

	cons, err := h.svc.Create(c.Context(), clinicID, doctorID, consultation.CreateConsultationRequest{
		AppointmentID: appointmentID,
		Symptoms:      body.Symptoms,
		Diagnosis:     body.Diagnosis,
		Notes:         body.Notes,
	})
	if err != nil {
		return mapConsultationError(c, err)
	}

	return created(c, cons)
}

// GET /consultations/:id
func (h *ConsultationHandler) Get(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	consultationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	cons, err := h.svc.GetByID(c.Context(), clinicID, consultationID)
	if err != nil {
		return mapConsultationError(c, err)
	}

	return ok(c, cons)
}

// PATCH /consultations/:id
func (h *ConsultationHandler) Update(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	doctorID, hasDoctor := userIDFromLocals(c)
	if !hasDoctor {
		return unauthorized(c)
	}

	consultationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	var body struct {
		Symptoms  *string `json:"symptoms"`
		Diagnosis *string `json:"diagnosis"`
		Notes     *string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons, err := h.svc.Update(c.Context(), clinicID, doctorID, consultationID, consultation.UpdateConsultationRequest{
		Symptoms:  body.Symptoms,
		Diagnosis: body.Diagnosis,
		Notes:     body.Notes,
	})
	if err != nil {
		return mapConsultationError(c, err)
	}

	return ok(c, cons)
}

// POST /consultations/:id/prescriptions
func (h *ConsultationHandler) CreatePrescription(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	doctorID, hasDoctor := userIDFromLocals(c)
	if !hasDoctor {
		return unauthorized(c)
	}

	consultationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	var body struct {
		Items []prescription.PrescriptionItemInput `json:"items"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	rx, err := h.rx.Create(c.Context(), clinicID, doctorID, consultationID, prescription.CreatePrescriptionRequest{
		Items: body.Items,
	})
	if err != nil {
		return mapPrescriptionError(c, err)
	}

	return created(c, rx)
}
