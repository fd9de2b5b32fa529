package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/internal/service/appointment"
	"github.com/maherraissi/MedFlow/internal/service/patient"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, appointment.ErrDoctorNotFound),
		errors.Is(err, appointment.ErrServiceNotFound),
		errors.Is(err, appointment.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrOverlappingSlot):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidTransition):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidTimeRange),
		errors.Is(err, patient.ErrInvalidEmail),
		errors.Is(err, patient.ErrInvalidName),
		errors.Is(err, patient.ErrInvalidPhone):
		return unprocessable(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		Page     int    `query:"page"`
		PerPage  int    `query:"per_page"`
		DoctorID string `query:"doctor_id"`
		Status   string `query:"status"`
		From     string `query:"from"`
		To       string `query:"to"`
	}
	_ = c.Bind().Query(&q)

	req := appointment.ListAppointmentsRequest{
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.DoctorID != "" {
		id, err := uuid.Parse(q.DoctorID)
		if err != nil {
			return badRequest(c, "invalid doctor_id")
		}
		req.DoctorID = &id
	}
	if q.Status != "" {
		req.Status = &q.Status
	}
	if q.From != "" {
		t, err := time.Parse(time.RFC3339, q.From)
		if err != nil {
			return badRequest(c, "invalid from timestamp")
		}
		req.From = &t
	}
	if q.To != "" {
		t, err := time.Parse(time.RFC3339, q.To)
		if err != nil {
			return badRequest(c, "invalid to timestamp")
		}
		req.To = &t
	}

	result, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, fiber.Map{
		"appointments": result.Data,
		"total":        result.Total,
		"page":         result.Page,
		"per_page":     result.PerPage,
		"total_pages":  result.TotalPages,
	})
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		PatientID string    `json:"patient_id"`
		DoctorID  string    `json:"doctor_id"`
		ServiceID string    `json:"service_id"`
		StartAt   time.Time `json:"start_at"`
		Notes     *string   `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return badRequest(c, "invalid patient_id")
	}
	doctorID, err := uuid.Parse(body.DoctorID)
	if err != nil {
		return badRequest(c, "invalid doctor_id")
	}
	serviceID, err := uuid.Parse(body.ServiceID)
	if err != nil {
		return badRequest(c, "invalid service_id")
	}

	appt, err := h.svc.Book(c.Context(), clinicID, appointment.BookRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		ServiceID: serviceID,
		StartAt:   body.StartAt,
		Notes:     body.Notes,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return created(c, appt)
}

// POST /appointments/book (public portal)
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body struct {
		ClinicID  string    `json:"clinic_id"`
		DoctorID  string    `json:"doctor_id"`
		ServiceID string    `json:"service_id"`
		StartAt   time.Time `json:"start_at"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Email     string    `json:"email"`
		Phone     *string   `json:"phone"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	clinicID, err := uuid.Parse(body.ClinicID)
	if err != nil {
		return badRequest(c, "invalid clinic_id")
	}
	doctorID, err := uuid.Parse(body.DoctorID)
	if err != nil {
		return badRequest(c, "invalid doctor_id")
	}
	serviceID, err := uuid.Parse(body.ServiceID)
	if err != nil {
		return badRequest(c, "invalid service_id")
	}

	appt, err := h.svc.PortalBook(c.Context(), appointment.PortalBookRequest{
		ClinicID:  clinicID,
		DoctorID:  doctorID,
		ServiceID: serviceID,
		StartAt:   body.StartAt,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Phone:     body.Phone,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return created(c, appt)
}

// GET /appointments/booking (public: services and doctors for the booking page)
func (h *AppointmentHandler) BookingOptions(c fiber.Ctx) error {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		return badRequest(c, "invalid clinic_id")
	}

	opts, err := h.svc.BookingOptions(c.Context(), clinicID)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, opts)
}

// GET /appointments/:id
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.GetByID(c.Context(), clinicID, appointmentID)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) Reschedule(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		DoctorID  *string    `json:"doctor_id"`
		ServiceID *string    `json:"service_id"`
		StartAt   *time.Time `json:"start_at"`
		Notes     *string    `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := appointment.RescheduleRequest{
		StartAt: body.StartAt,
		Notes:   body.Notes,
	}
	if body.DoctorID != nil {
		id, err := uuid.Parse(*body.DoctorID)
		if err != nil {
			return badRequest(c, "invalid doctor_id")
		}
		req.DoctorID = &id
	}
	if body.ServiceID != nil {
		id, err := uuid.Parse(*body.ServiceID)
		if err != nil {
			return badRequest(c, "invalid service_id")
		}
		req.ServiceID = &id
	}

	appt, err := h.svc.Reschedule(c.Context(), clinicID, appointmentID, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) ChangeStatus(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Status == "" {
		return badRequest(c, "status is required")
	}

	appt, err := h.svc.ChangeStatus(c.Context(), clinicID, appointmentID, domain.AppointmentStatus(body.Status))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Delete(c.Context(), clinicID, appointmentID); err != nil {
		return mapAppointmentError(c, err)
	}

	return noContent(c)
}
