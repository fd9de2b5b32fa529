package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/maherraissi/MedFlow/internal/service/audit"
	"github.com/maherraissi/MedFlow/internal/service/invoice"
)

type InvoiceHandler struct {
	svc   invoice.Service
	audit audit.Service
}

func NewInvoiceHandler(svc invoice.Service, auditSvc audit.Service) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, audit: auditSvc}
}

func mapInvoiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, invoice.ErrInvoiceNotFound),
		errors.Is(err, invoice.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, invoice.ErrAlreadyPaid),
		errors.Is(err, invoice.ErrInvoiceNotPayable):
		return conflict(c, err.Error())
	case errors.Is(err, invoice.ErrNotDraft),
		errors.Is(err, invoice.ErrNotEditable):
		return badRequest(c, err.Error())
	case errors.Is(err, invoice.ErrNoLineItems),
		errors.Is(err, invoice.ErrInvalidLineItem),
		errors.Is(err, invoice.ErrInvalidPayment):
		return unprocessable(c, err.Error())
	case errors.Is(err, invoice.ErrCheckoutFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment provider unavailable"})
	default:
		return internalError(c)
	}
}

// GET /invoices
func (h *InvoiceHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		Page      int    `query:"page"`
		PerPage   int    `query:"per_page"`
		PatientID string `query:"patient_id"`
		Status    string `query:"status"`
	}
	_ = c.Bind().Query(&q)

	req := invoice.ListInvoicesRequest{Page: q.Page, PerPage: q.PerPage}
	if q.PatientID != "" {
		id, err := uuid.Parse(q.PatientID)
		if err != nil {
			return badRequest(c, "invalid patient_id")
		}
		req.PatientID = &id
	}
	if q.Status != "" {
		req.Status = &q.Status
	}

	result, err := h.svc.List(c.Context(), clinicID, req)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, fiber.Map{
		"invoices":    result.Data,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// POST /invoices
func (h *InvoiceHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		PatientID      string                  `json:"patient_id"`
		ConsultationID *string                 `json:"consultation_id"`
		AppointmentID  *string                 `json:"appointment_id"`
		DueDate        *time.Time              `json:"due_date"`
		Items          []invoice.LineItemInput `json:"items"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return badRequest(c, "invalid patient_id")
	}

	req := invoice.CreateInvoiceRequest{
		PatientID: patientID,
		DueDate:   body.DueDate,
		Items:     body.Items,
	}
	if body.ConsultationID != nil {
		id, err := uuid.Parse(*body.ConsultationID)
		if err != nil {
			return badRequest(c, "invalid consultation_id")
		}
		req.ConsultationID = &id
	}
	if body.AppointmentID != nil {
		id, err := uuid.Parse(*body.AppointmentID)
		if err != nil {
			return badRequest(c, "invalid appointment_id")
		}
		req.AppointmentID = &id
	}

	inv, err := h.svc.Create(c.Context(), clinicID, req)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return created(c, inv)
}

// GET /invoices/:id
func (h *InvoiceHandler) Get(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	inv, err := h.svc.GetByID(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, inv)
}

// PATCH /invoices/:id
func (h *InvoiceHandler) Update(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	var body invoice.UpdateInvoiceRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inv, err := h.svc.Update(c.Context(), clinicID, invoiceID, body)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, inv)
}

// POST /invoices/:id/send
func (h *InvoiceHandler) Send(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	inv, err := h.svc.Send(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	if actorID, hasActor := userIDFromLocals(c); hasActor {
		h.audit.Record(c.Context(), audit.Entry{
			ClinicID: &clinicID,
			UserID:   &actorID,
			Action:   "invoice.sent",
			Entity:   "invoice",
			EntityID: &inv.ID,
		})
	}

	return ok(c, inv)
}

// POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	var body invoice.ManualPaymentRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inv, err := h.svc.RecordManualPayment(c.Context(), clinicID, invoiceID, body)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	if actorID, hasActor := userIDFromLocals(c); hasActor {
		h.audit.Record(c.Context(), audit.Entry{
			ClinicID: &clinicID,
			UserID:   &actorID,
			Action:   "invoice.paid",
			Entity:   "invoice",
			EntityID: &inv.ID,
			Meta:     map[string]any{"total": inv.Total, "via": body.Method},
		})
	}

	return ok(c, inv)
}

// GET /invoices/stats
func (h *InvoiceHandler) Stats(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	stats, err := h.svc.Stats(c.Context(), clinicID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, stats)
}

// PATCH /invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	inv, err := h.svc.MarkPaid(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	if actorID, hasActor := userIDFromLocals(c); hasActor {
		h.audit.Record(c.Context(), audit.Entry{
			ClinicID: &clinicID,
			UserID:   &actorID,
			Action:   "invoice.paid",
			Entity:   "invoice",
			EntityID: &inv.ID,
			Meta:     map[string]any{"total": inv.Total, "via": "manual"},
		})
	}

	return ok(c, inv)
}

// PATCH /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	inv, err := h.svc.Cancel(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, inv)
}

// POST /invoices/:id/checkout
func (h *InvoiceHandler) Checkout(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	result, err := h.svc.Checkout(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	return ok(c, result)
}

// GET /invoices/:id/pdf
func (h *InvoiceHandler) PDF(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invoice id")
	}

	data, err := h.svc.RenderPDF(c.Context(), clinicID, invoiceID)
	if err != nil {
		return mapInvoiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="invoice.pdf"`)
	return c.Send(data)
}
