package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/api/http/middleware"
	"github.com/maherraissi/MedFlow/internal/service/appointment"
	"github.com/maherraissi/MedFlow/internal/service/invoice"
	"github.com/maherraissi/MedFlow/internal/service/patient"
	"github.com/maherraissi/MedFlow/internal/service/prescription"
)

// PortalHandler serves the signed-in patient's own data. The patient record
// is resolved from the session email inside the session's clinic, so a
// patient can never address another patient's records.
type PortalHandler struct {
	patients      patient.Service
	appointments  appointment.Service
	invoices      invoice.Service
	prescriptions prescription.Service
}

func NewPortalHandler(
	patients patient.Service,
	appointments appointment.Service,
	invoices invoice.Service,
	prescriptions prescription.Service,
) *PortalHandler {
	return &PortalHandler{
		patients:      patients,
		appointments:  appointments,
		invoices:      invoices,
		prescriptions: prescriptions,
	}
}

func (h *PortalHandler) resolvePatient(c fiber.Ctx) (clinicID, patientID uuid.UUID, err error) {
	claims, hasClaims := middleware.ClaimsFromFiber(c)
	if !hasClaims {
		return clinicID, patientID, unauthorized(c)
	}

	p, lookupErr := h.patients.GetByEmail(c.Context(), claims.ClinicID, claims.Email)
	if lookupErr != nil {
		if errors.Is(lookupErr, patient.ErrPatientNotFound) {
			return clinicID, patientID, notFound(c, "no patient record for this account")
		}
		return clinicID, patientID, internalError(c)
	}

	return claims.ClinicID, p.ID, nil
}

// GET /portal/appointments
func (h *PortalHandler) Appointments(c fiber.Ctx) error {
	clinicID, patientID, err := h.resolvePatient(c)
	if err != nil {
		return err
	}

	appts, lookupErr := h.appointments.ListForPatient(c.Context(), clinicID, patientID)
	if lookupErr != nil {
		return internalError(c)
	}

	return ok(c, appts)
}

// GET /portal/invoices
func (h *PortalHandler) Invoices(c fiber.Ctx) error {
	clinicID, patientID, err := h.resolvePatient(c)
	if err != nil {
		return err
	}

	invoices, lookupErr := h.invoices.ListForPatient(c.Context(), clinicID, patientID)
	if lookupErr != nil {
		return internalError(c)
	}

	return ok(c, invoices)
}

// GET /portal/prescriptions
func (h *PortalHandler) Prescriptions(c fiber.Ctx) error {
	clinicID, patientID, err := h.resolvePatient(c)
	if err != nil {
		return err
	}

	rxs, lookupErr := h.prescriptions.ListByPatient(c.Context(), clinicID, patientID)
	if lookupErr != nil {
		return internalError(c)
	}

	return ok(c, rxs)
}
