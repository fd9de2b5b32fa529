// Package payment processes Stripe webhook deliveries and settles invoices.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/metrics"
	"github.com/maherraissi/MedFlow/pkg/stripe"
)

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// HandleWebhook verifies and applies one Stripe webhook delivery.
	// Unknown event types and unknown invoices are acknowledged without
	// effect so Stripe stops retrying them.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type paymentService struct {
	db     *gorm.DB
	stripe *stripe.Client
}

func New(db *gorm.DB, stripeClient *stripe.Client) Service {
	return &paymentService{db: db, stripe: stripeClient}
}

// checkoutSessionObject is the slice of a checkout.session object we act on.
type checkoutSessionObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.stripe.ConstructEvent(payload, sigHeader, time.Now())
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("bad_signature").Inc()
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "checkout.session.expired":
		return s.handleCheckoutExpired(ctx, event)
	default:
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		slog.Debug("ignoring stripe event", "event_type", event.Type, "event_id", event.ID)
		return nil
	}
}

func (s *paymentService) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session checkoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		metrics.WebhookEvents.WithLabelValues("bad_payload").Inc()
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	invoiceID, err := uuid.Parse(session.Metadata["invoiceId"])
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("no_invoice").Inc()
		slog.Warn("stripe session without invoice metadata", "session_id", session.ID, "event_id", event.ID)
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv domain.Invoice
		err := tx.WithContext(ctx).First(&inv, "id = ?", invoiceID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Invoice may belong to another environment sharing the
				// Stripe account. Acknowledge and move on.
				slog.Warn("stripe webhook for unknown invoice", "invoice_id", invoiceID, "event_id", event.ID)
				return nil
			}
			return fmt.Errorf("get invoice: %w", err)
		}

		// Retried deliveries must not double-settle.
		if inv.Status != domain.InvoicePaid {
			now := time.Now().UTC()
			err = tx.WithContext(ctx).Model(&domain.Invoice{}).
				Where("id = ?", inv.ID).
				Updates(map[string]any{"status": domain.InvoicePaid, "paid_at": now}).Error
			if err != nil {
				return fmt.Errorf("settle invoice: %w", err)
			}
			metrics.InvoicesPaid.WithLabelValues("webhook").Inc()
		}

		err = tx.WithContext(ctx).Model(&domain.Payment{}).
			Where("provider_session_id = ?", session.ID).
			Update("status", domain.PaymentSucceeded).Error
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}

	metrics.WebhookEvents.WithLabelValues("settled").Inc()
	return nil
}

func (s *paymentService) handleCheckoutExpired(ctx context.Context, event *stripe.Event) error {
	var session checkoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		metrics.WebhookEvents.WithLabelValues("bad_payload").Inc()
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	err := s.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("provider_session_id = ? AND status = ?", session.ID, domain.PaymentPending).
		Update("status", domain.PaymentFailed).Error
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return fmt.Errorf("expire payment: %w", err)
	}

	metrics.WebhookEvents.WithLabelValues("expired").Inc()
	return nil
}
