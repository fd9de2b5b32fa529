// Package catalog manages the bookable services a clinic offers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateServiceRequest struct {
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
}

type UpdateServiceRequest struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *float64
	IsActive        *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, clinicID uuid.UUID, req CreateServiceRequest) (*domain.Service, error)
	GetByID(ctx context.Context, clinicID, serviceID uuid.UUID) (*domain.Service, error)
	List(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]domain.Service, error)
	Update(ctx context.Context, clinicID, serviceID uuid.UUID, req UpdateServiceRequest) (*domain.Service, error)
	Delete(ctx context.Context, clinicID, serviceID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type catalogService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &catalogService{db: db}
}

func (s *catalogService) Create(ctx context.Context, clinicID uuid.UUID, req CreateServiceRequest) (*domain.Service, error) {
	if err := validate(req.Name, req.DurationMinutes, req.Price); err != nil {
		return nil, err
	}

	svc := &domain.Service{
		ClinicID:        clinicID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) GetByID(ctx context.Context, clinicID, serviceID uuid.UUID) (*domain.Service, error) {
	var svc domain.Service
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", serviceID, clinicID).
		First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &svc, nil
}

func (s *catalogService) List(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]domain.Service, error) {
	q := s.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var services []domain.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) Update(ctx context.Context, clinicID, serviceID uuid.UUID, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.GetByID(ctx, clinicID, serviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 3 {
			return nil, ErrInvalidName
		}
		svc.Name = name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 5 {
			return nil, ErrInvalidDuration
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		svc.Price = *req.Price
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, clinicID, serviceID uuid.UUID) error {
	if _, err := s.GetByID(ctx, clinicID, serviceID); err != nil {
		return err
	}

	// Services referenced by appointments are deactivated, never deleted,
	// so historical bookings keep their pricing.
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("service_id = ?", serviceID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check service usage: %w", err)
	}
	if count > 0 {
		return ErrServiceInUse
	}

	if err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", serviceID, clinicID).
		Delete(&domain.Service{}).Error; err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

func validate(name string, duration int, price float64) error {
	if len(strings.TrimSpace(name)) < 3 {
		return ErrInvalidName
	}
	if duration < 5 {
		return ErrInvalidDuration
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
