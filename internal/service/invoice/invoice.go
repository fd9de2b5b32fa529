// Package invoice handles billing: invoice lifecycle, Stripe checkout and
// printable PDFs.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/email"
	"github.com/maherraissi/MedFlow/pkg/metrics"
	"github.com/maherraissi/MedFlow/pkg/pdf"
	"github.com/maherraissi/MedFlow/pkg/stripe"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LineItemInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type CreateInvoiceRequest struct {
	PatientID      uuid.UUID
	AppointmentID  *uuid.UUID
	ConsultationID *uuid.UUID
	DueDate        *time.Time
	Items          []LineItemInput
}

// UpdateInvoiceRequest replaces the line items wholesale; the total is
// recomputed from what is submitted, never patched directly.
type UpdateInvoiceRequest struct {
	DueDate *time.Time      `json:"due_date"`
	Items   []LineItemInput `json:"items"`
}

type ListInvoicesRequest struct {
	Page      int
	PerPage   int
	PatientID *uuid.UUID
	Status    *string
}

type ManualPaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// CheckoutResult carries the hosted payment page for an invoice.
type CheckoutResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// BillingStats summarizes a clinic's receivables for the dashboard.
type BillingStats struct {
	Draft       int64   `json:"draft"`
	Sent        int64   `json:"sent"`
	Overdue     int64   `json:"overdue"`
	Paid        int64   `json:"paid"`
	Revenue     float64 `json:"revenue"`
	Outstanding float64 `json:"outstanding"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, clinicID uuid.UUID, req CreateInvoiceRequest) (*domain.Invoice, error)
	GetByID(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, clinicID uuid.UUID, req ListInvoicesRequest) (*domain.Paginated[domain.Invoice], error)
	ListForPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Invoice, error)

	// Update replaces line items and due date while the invoice is still open.
	Update(ctx context.Context, clinicID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*domain.Invoice, error)

	// Send moves a draft to SENT, making it visible to the patient portal.
	Send(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error)

	// MarkPaid settles an invoice out of band without recording a payment row.
	MarkPaid(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error)

	// RecordManualPayment settles an invoice and keeps the payment on file
	// (cash, card terminal, bank transfer).
	RecordManualPayment(ctx context.Context, clinicID, invoiceID uuid.UUID, req ManualPaymentRequest) (*domain.Invoice, error)

	Cancel(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error)

	// Checkout opens a Stripe checkout session for an open invoice.
	Checkout(ctx context.Context, clinicID, invoiceID uuid.UUID) (*CheckoutResult, error)

	Stats(ctx context.Context, clinicID uuid.UUID) (*BillingStats, error)

	RenderPDF(ctx context.Context, clinicID, invoiceID uuid.UUID) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type invoiceService struct {
	db     *gorm.DB
	stripe *stripe.Client
	mailer *email.Client
}

func New(db *gorm.DB, stripeClient *stripe.Client, mailer *email.Client) Service {
	return &invoiceService{db: db, stripe: stripeClient, mailer: mailer}
}

func (s *invoiceService) Create(ctx context.Context, clinicID uuid.UUID, req CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Patient{}).
		Where("id = ? AND clinic_id = ?", req.PatientID, clinicID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if count == 0 {
		return nil, ErrPatientNotFound
	}

	inv := &domain.Invoice{
		ClinicID:       clinicID,
		PatientID:      req.PatientID,
		AppointmentID:  req.AppointmentID,
		ConsultationID: req.ConsultationID,
		Status:         domain.InvoiceDraft,
		IssuedAt:       time.Now().UTC(),
		DueDate:        req.DueDate,
	}
	inv.LineItems, inv.Total = buildItems(req.Items)

	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func validateItems(items []LineItemInput) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return ErrInvalidLineItem
		}
	}
	return nil
}

func buildItems(items []LineItemInput) ([]domain.InvoiceLineItem, float64) {
	var out []domain.InvoiceLineItem
	var total float64
	for i, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
		out = append(out, domain.InvoiceLineItem{
			Position:    i + 1,
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out, total
}

func (s *invoiceService) GetByID(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", invoiceID, clinicID).
		Preload("Patient").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments").
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

func (s *invoiceService) List(ctx context.Context, clinicID uuid.UUID, req ListInvoicesRequest) (*domain.Paginated[domain.Invoice], error) {
	s.sweepOverdue(ctx, clinicID)

	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("clinic_id = ?", clinicID)
	if req.PatientID != nil {
		q = q.Where("patient_id = ?", *req.PatientID)
	}
	if req.Status != nil {
		q = q.Where("status = ?", *req.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	var list []domain.Invoice
	err := q.Preload("Patient").
		Order("issued_at DESC").
		Offset(offset).Limit(perPage).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return domain.NewPaginated(list, int(total), page, perPage), nil
}

func (s *invoiceService) ListForPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Invoice, error) {
	var list []domain.Invoice
	err := s.db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("issued_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list patient invoices: %w", err)
	}
	return list, nil
}

// sweepOverdue flags sent invoices past their due date. Best effort, run
// before listings and stats so the status column stays truthful.
func (s *invoiceService) sweepOverdue(ctx context.Context, clinicID uuid.UUID) {
	err := s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("clinic_id = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?",
			clinicID, domain.InvoiceSent, time.Now().UTC()).
		Update("status", domain.InvoiceOverdue).Error
	if err != nil {
		slog.Warn("overdue sweep failed", "clinic_id", clinicID, "error", err)
	}
}

func (s *invoiceService) Update(ctx context.Context, clinicID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv domain.Invoice
		err := tx.Where("id = ? AND clinic_id = ?", invoiceID, clinicID).First(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("get invoice: %w", err)
		}
		if !inv.Status.Payable() {
			return ErrNotEditable
		}

		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&domain.InvoiceLineItem{}).Error; err != nil {
			return fmt.Errorf("clear line items: %w", err)
		}

		items, total := buildItems(req.Items)
		for i := range items {
			items[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("replace line items: %w", err)
		}

		updates := map[string]any{"total": total}
		if req.DueDate != nil {
			updates["due_date"] = *req.DueDate
		}
		return tx.Model(&domain.Invoice{}).Where("id = ?", inv.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, clinicID, invoiceID)
}

func (s *invoiceService) Send(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDraft {
		return nil, ErrNotDraft
	}

	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", inv.ID).
		Update("status", domain.InvoiceSent).Error
	if err != nil {
		return nil, fmt.Errorf("send invoice: %w", err)
	}

	inv.Status = domain.InvoiceSent
	return inv, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, ErrAlreadyPaid
	}
	if !inv.Status.Payable() {
		return nil, ErrInvoiceNotPayable
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]any{"status": domain.InvoicePaid, "paid_at": now}).Error
	if err != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}

	inv.Status = domain.InvoicePaid
	inv.PaidAt = &now
	metrics.InvoicesPaid.WithLabelValues("manual").Inc()
	s.sendReceipt(ctx, inv)
	return inv, nil
}

func (s *invoiceService) RecordManualPayment(ctx context.Context, clinicID, invoiceID uuid.UUID, req ManualPaymentRequest) (*domain.Invoice, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidPayment
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "manual"
	}

	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, ErrAlreadyPaid
	}
	if !inv.Status.Payable() {
		return nil, ErrInvoiceNotPayable
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := &domain.Payment{
			InvoiceID: inv.ID,
			Method:    method,
			Amount:    req.Amount,
			Status:    domain.PaymentSucceeded,
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("record payment: %w", err)
		}
		return tx.Model(&domain.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{"status": domain.InvoicePaid, "paid_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	inv.Status = domain.InvoicePaid
	inv.PaidAt = &now
	metrics.InvoicesPaid.WithLabelValues("manual").Inc()
	s.sendReceipt(ctx, inv)
	return inv, nil
}

func (s *invoiceService) Stats(ctx context.Context, clinicID uuid.UUID) (*BillingStats, error) {
	s.sweepOverdue(ctx, clinicID)

	stats := &BillingStats{}
	counts := []struct {
		status domain.InvoiceStatus
		dest   *int64
	}{
		{domain.InvoiceDraft, &stats.Draft},
		{domain.InvoiceSent, &stats.Sent},
		{domain.InvoiceOverdue, &stats.Overdue},
		{domain.InvoicePaid, &stats.Paid},
	}
	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(&domain.Invoice{}).
			Where("clinic_id = ? AND status = ?", clinicID, c.status).
			Count(c.dest).Error
		if err != nil {
			return nil, fmt.Errorf("count %s invoices: %w", c.status, err)
		}
	}

	var revenue *float64
	err := s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Select("SUM(total)").
		Where("clinic_id = ? AND status = ?", clinicID, domain.InvoicePaid).
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if revenue != nil {
		stats.Revenue = *revenue
	}

	var outstanding *float64
	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Select("SUM(total)").
		Where("clinic_id = ? AND status IN ?", clinicID, []domain.InvoiceStatus{domain.InvoiceSent, domain.InvoiceOverdue}).
		Scan(&outstanding).Error
	if err != nil {
		return nil, fmt.Errorf("sum outstanding: %w", err)
	}
	if outstanding != nil {
		stats.Outstanding = *outstanding
	}

	return stats, nil
}

func (s *invoiceService) Cancel(ctx context.Context, clinicID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, ErrAlreadyPaid
	}

	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", inv.ID).
		Update("status", domain.InvoiceCancelled).Error
	if err != nil {
		return nil, fmt.Errorf("cancel invoice: %w", err)
	}

	inv.Status = domain.InvoiceCancelled
	return inv, nil
}

func (s *invoiceService) Checkout(ctx context.Context, clinicID, invoiceID uuid.UUID) (*CheckoutResult, error) {
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePaid {
		return nil, ErrAlreadyPaid
	}
	if !inv.Status.Payable() {
		return nil, ErrInvoiceNotPayable
	}

	description := fmt.Sprintf("Invoice %s", inv.ID)
	session, err := s.stripe.CreateCheckoutSession(ctx, inv.ID.String(), description, inv.Total)
	if err != nil {
		slog.Error("stripe checkout session failed", "invoice_id", inv.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	payment := &domain.Payment{
		InvoiceID:         inv.ID,
		Method:            "stripe",
		ProviderSessionID: &session.ID,
		Amount:            inv.Total,
		Status:            domain.PaymentPending,
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("record payment attempt: %w", err)
	}

	return &CheckoutResult{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

func (s *invoiceService) RenderPDF(ctx context.Context, clinicID, invoiceID uuid.UUID) ([]byte, error) {
	inv, err := s.GetByID(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, err
	}

	var clinic domain.Clinic
	if err := s.db.WithContext(ctx).First(&clinic, "id = ?", clinicID).Error; err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}

	patientName := ""
	if inv.Patient != nil {
		patientName = inv.Patient.FirstName + " " + inv.Patient.LastName
	}

	doc := pdf.InvoiceDoc{
		ClinicName:  clinic.Name,
		PatientName: patientName,
		InvoiceID:   inv.ID.String(),
		Status:      string(inv.Status),
		IssuedAt:    inv.IssuedAt,
		Total:       inv.Total,
	}
	for _, line := range inv.LineItems {
		doc.Lines = append(doc.Lines, pdf.InvoiceLine{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	return pdf.RenderInvoice(doc)
}

// sendReceipt is best effort: the payment is already settled.
func (s *invoiceService) sendReceipt(ctx context.Context, inv *domain.Invoice) {
	var p domain.Patient
	if err := s.db.WithContext(ctx).First(&p, "id = ?", inv.PatientID).Error; err != nil || p.Email == nil {
		return
	}
	var clinic domain.Clinic
	s.db.WithContext(ctx).First(&clinic, "id = ?", inv.ClinicID)

	paidAt := time.Now().UTC()
	if inv.PaidAt != nil {
		paidAt = *inv.PaidAt
	}

	msg := email.BuildPaymentReceiptEmail(email.ReceiptEmailData{
		PatientName: p.FirstName,
		Email:       *p.Email,
		ClinicName:  clinic.Name,
		InvoiceID:   inv.ID.String(),
		Total:       inv.Total,
		PaidAt:      paidAt,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("failed to send payment receipt", "invoice_id", inv.ID, "error", err)
	}
}
