// Package clinic manages tenant settings and the staff dashboard summary.
package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UpdateClinicRequest struct {
	Name    *string
	Address *string
	Phone   *string
}

// DashboardStats is the staff dashboard summary.
type DashboardStats struct {
	PatientsTotal        int64   `json:"patients_total"`
	AppointmentsToday    int64   `json:"appointments_today"`
	AppointmentsUpcoming int64   `json:"appointments_upcoming"`
	InvoicesOutstanding  int64   `json:"invoices_outstanding"`
	RevenueThisMonth     float64 `json:"revenue_this_month"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Get(ctx context.Context, clinicID uuid.UUID) (*domain.Clinic, error)
	Update(ctx context.Context, clinicID uuid.UUID, req UpdateClinicRequest) (*domain.Clinic, error)
	Stats(ctx context.Context, clinicID uuid.UUID) (*DashboardStats, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type clinicService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &clinicService{db: db}
}

func (s *clinicService) Get(ctx context.Context, clinicID uuid.UUID) (*domain.Clinic, error) {
	var clinic domain.Clinic
	err := s.db.WithContext(ctx).First(&clinic, "id = ?", clinicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &clinic, nil
}

func (s *clinicService) Update(ctx context.Context, clinicID uuid.UUID, req UpdateClinicRequest) (*domain.Clinic, error) {
	clinic, err := s.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidName
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(clinic).Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("update clinic: %w", err)
		}
	}
	return clinic, nil
}

func (s *clinicService) Stats(ctx context.Context, clinicID uuid.UUID) (*DashboardStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{}

	err := s.db.WithContext(ctx).Model(&domain.Patient{}).
		Where("clinic_id = ?", clinicID).
		Count(&stats.PatientsTotal).Error
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("clinic_id = ? AND start_at >= ? AND start_at < ?", clinicID, dayStart, dayEnd).
		Where("NOT status = ?", domain.AppointmentCancelled).
		Count(&stats.AppointmentsToday).Error
	if err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("clinic_id = ? AND start_at >= ?", clinicID, dayEnd).
		Where("status IN ?", []domain.AppointmentStatus{domain.AppointmentBooked, domain.AppointmentConfirmed}).
		Count(&stats.AppointmentsUpcoming).Error
	if err != nil {
		return nil, fmt.Errorf("count upcoming appointments: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("clinic_id = ? AND status IN ?", clinicID,
			[]domain.InvoiceStatus{domain.InvoiceSent, domain.InvoiceOverdue}).
		Count(&stats.InvoicesOutstanding).Error
	if err != nil {
		return nil, fmt.Errorf("count outstanding invoices: %w", err)
	}

	var revenue *float64
	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("clinic_id = ? AND status = ? AND paid_at >= ?", clinicID, domain.InvoicePaid, monthStart).
		Select("SUM(total)").
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if revenue != nil {
		stats.RevenueThisMonth = *revenue
	}

	return stats, nil
}
