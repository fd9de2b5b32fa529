package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/internal/service/audit"
	"github.com/maherraissi/MedFlow/internal/service/invoice"
)

type stubAuditService struct{}

func (stubAuditService) Record(ctx context.Context, entry audit.Entry) {}
func (stubAuditService) List(ctx context.Context, clinicID uuid.UUID, req audit.ListEntriesRequest) (*domain.Paginated[domain.AuditLog], error) {
	return domain.NewPaginated[domain.AuditLog](nil, 0, 1, 20), nil
}

type stubInvoiceService struct {
	invoices map[uuid.UUID]*domain.Invoice

	sendErr    error
	updateErr  error
	paymentErr error
}

func (s *stubInvoiceService) Create(ctx context.Context, clinicID uuid.UUID, req invoice.CreateInvoiceRequest) (*domain.Invoice, error) {
	return nil, invoice.ErrPatientNotFound
}

func (s *stubInvoiceService) GetByID(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, found := s.invoices[invoiceID]
	if !found || inv.ClinicID != clinicID {
		return nil, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *stubInvoiceService) List(ctx context.Context, clinicID uuid.UUID, req invoice.ListInvoicesRequest) (*domain.Paginated[domain.Invoice], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	return domain.NewPaginated[domain.Invoice](nil, 0, page, perPage), nil
}

func (s *stubInvoiceService) ListForPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceService) Update(ctx context.Context, clinicID, invoiceID uuid.UUID, req invoice.UpdateInvoiceRequest) (*domain.Invoice, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.GetByID(ctx, clinicID, invoiceID)
}

func (s *stubInvoiceService) Send(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceSent
	return inv, nil
}

func (s *stubInvoiceService) MarkPaid(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.GetByID(ctx, clinicID, invoiceID)
}

func (s *stubInvoiceService) RecordManualPayment(ctx context.Context, clinicID, invoiceID uuid.UUID, req invoice.ManualPaymentRequest) (*domain.Invoice, error) {
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Status = domain.InvoicePaid
	return inv, nil
}

func (s *stubInvoiceService) Cancel(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.GetByID(ctx, clinicID, invoiceID)
}

func (s *stubInvoiceService) Checkout(ctx context.Context, clinicID, invoiceID uuid.UUID) (*invoice.CheckoutResult, error) {
	return nil, invoice.ErrCheckoutFailed
}

func (s *stubInvoiceService) Stats(ctx context.Context, clinicID uuid.UUID) (*invoice.BillingStats, error) {
	return &invoice.BillingStats{Sent: 2, Paid: 5, Revenue: 420.50, Outstanding: 130}, nil
}

func (s *stubInvoiceService) RenderPDF(ctx context.Context, clinicID, invoiceID uuid.UUID) ([]byte, error) {
	return nil, invoice.ErrInvoiceNotFound
}

func newInvoiceApp(clinicID uuid.UUID, svc invoice.Service) *fiber.App {
	app := fiber.New()
	h := NewInvoiceHandler(svc, stubAuditService{})

	grp := app.Group("/invoices", withClinic(clinicID))
	grp.Get("/stats", h.Stats)
	grp.Patch("/:id", h.Update)
	grp.Post("/:id/send", h.Send)
	grp.Post("/:id/payments", h.RecordPayment)

	return app
}

func draftInvoice(clinicID uuid.UUID) *domain.Invoice {
	inv := &domain.Invoice{ClinicID: clinicID, Status: domain.InvoiceDraft, Total: 130}
	inv.ID = uuid.New()
	return inv
}

func TestInvoiceHandlerSend(t *testing.T) {
	clinicID := uuid.New()
	inv := draftInvoice(clinicID)
	svc := &stubInvoiceService{invoices: map[uuid.UUID]*domain.Invoice{inv.ID: inv}}
	app := newInvoiceApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/invoices/"+inv.ID.String()+"/send", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data domain.Invoice `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.InvoiceSent, body.Data.Status)
}

func TestInvoiceHandlerSendNotDraft(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{sendErr: invoice.ErrNotDraft}
	app := newInvoiceApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/invoices/"+uuid.NewString()+"/send", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceHandlerUpdateNotEditable(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{updateErr: invoice.ErrNotEditable}
	app := newInvoiceApp(clinicID, svc)

	req := httptest.NewRequest("PATCH", "/invoices/"+uuid.NewString(),
		strings.NewReader(`{"items":[{"description":"Consultation","quantity":1,"unitPrice":60}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceHandlerRecordPayment(t *testing.T) {
	clinicID := uuid.New()
	inv := draftInvoice(clinicID)
	inv.Status = domain.InvoiceSent
	svc := &stubInvoiceService{invoices: map[uuid.UUID]*domain.Invoice{inv.ID: inv}}
	app := newInvoiceApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/invoices/"+inv.ID.String()+"/payments",
		strings.NewReader(`{"amount":130,"method":"cash"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data domain.Invoice `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.InvoicePaid, body.Data.Status)
}

func TestInvoiceHandlerRecordPaymentAlreadyPaid(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{paymentErr: invoice.ErrAlreadyPaid}
	app := newInvoiceApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/invoices/"+uuid.NewString()+"/payments",
		strings.NewReader(`{"amount":130,"method":"cash"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvoiceHandlerRecordPaymentInvalid(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{paymentErr: invoice.ErrInvalidPayment}
	app := newInvoiceApp(clinicID, svc)

	req := httptest.NewRequest("POST", "/invoices/"+uuid.NewString()+"/payments",
		strings.NewReader(`{"amount":-4,"method":"cash"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvoiceHandlerStats(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{}
	app := newInvoiceApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/invoices/stats", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data invoice.BillingStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(5), body.Data.Paid)
	assert.InDelta(t, 420.50, body.Data.Revenue, 0.001)
}

func TestInvoiceHandlerBadID(t *testing.T) {
	clinicID := uuid.New()
	svc := &stubInvoiceService{}
	app := newInvoiceApp(clinicID, svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/invoices/not-a-uuid/send", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
