// Package consultation records the clinical outcome of an appointment.
package consultation

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

type CreateConsultationRequest struct {
	AppointmentID uuid.UUID
	Symptoms      string
	Diagnosis     string
	Notes         *string
}

type UpdateConsultationRequest struct {
	Symptoms  *string
	Diagnosis *string
	Notes     *string
}

type ListConsultationsRequest struct {
	Page      int
	PerPage   int
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Create records a consultation against an appointment. Only the doctor
	// the appointment is booked with may create it, and each appointment
	// carries at most one consultation.
	Create(ctx context.Context, clinicID, doctorID uuid.UUID, req CreateConsultationRequest) (*domain.Consultation, error)
	GetByID(ctx context.Context, clinicID, consultationID uuid.UUID) (*domain.Consultation, error)
	List(ctx context.Context, clinicID uuid.UUID, req ListConsultationsRequest) (*domain.Paginated[domain.Consultation], error)
	Update(ctx context.Context, clinicID, doctorID, consultationID uuid.UUID, req UpdateConsultationRequest) (*domain.Consultation, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type consultationService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &consultationService{db: db}
}

func (s *consultationService) Create(ctx context.Context, clinicID, doctorID uuid.UUID, req CreateConsultationRequest) (*domain.Consultation, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, ErrInvalidSymptoms
	}
	if strings.TrimSpace(req.Diagnosis) == "" {
		return nil, ErrInvalidDiagnosis
	}

	var cons *domain.Consultation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt domain.Appointment
		err := tx.WithContext(ctx).
			Where("id = ? AND clinic_id = ?", req.AppointmentID, clinicID).
			First(&appt).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("get appointment: %w", err)
		}

		if appt.DoctorID != doctorID {
			return ErrNotAttendingDoctor
		}
		if appt.Status == domain.AppointmentCancelled {
			return ErrAppointmentCancelled
		}

		var count int64
		err = tx.WithContext(ctx).Model(&domain.Consultation{}).
			Where("appointment_id = ?", appt.ID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check existing consultation: %w", err)
		}
		if count > 0 {
			return ErrConsultationExists
		}

		cons = &domain.Consultation{
			ClinicID:      clinicID,
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			DoctorID:      doctorID,
			Symptoms:      strings.TrimSpace(req.Symptoms),
			Diagnosis:     strings.TrimSpace(req.Diagnosis),
			Notes:         req.Notes,
		}
		if err := tx.WithContext(ctx).Create(cons).Error; err != nil {
			return fmt.Errorf("create consultation: %w", err)
		}

		// Recording a consultation closes out an in-progress visit.
		if appt.Status == domain.AppointmentInProgress {
			err = tx.WithContext(ctx).Model(&domain.Appointment{}).
				Where("id = ?", appt.ID).
				Update("status", domain.AppointmentCompleted).Error
			if err != nil {
				return fmt.Errorf("complete appointment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cons, nil
}

func (s *consultationService) GetByID(ctx context.Context, clinicID, consultationID uuid.UUID) (*domain.Consultation, error) {
	var cons domain.Consultation
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", consultationID, clinicID).
		Preload("Appointment").
		Preload("Prescriptions.Items").
		First(&cons).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return &cons, nil
}

func (s *consultationService) List(ctx context.Context, clinicID uuid.UUID, req ListConsultationsRequest) (*domain.Paginated[domain.Consultation], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.Consultation{}).
		Where("clinic_id = ?", clinicID)
	if req.PatientID != nil {
		q = q.Where("patient_id = ?", *req.PatientID)
	}
	if req.DoctorID != nil {
		q = q.Where("doctor_id = ?", *req.DoctorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count consultations: %w", err)
	}

	var list []domain.Consultation
	err := q.Order("created_at DESC").
		Offset(offset).Limit(perPage).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}

	return domain.NewPaginated(list, int(total), page, perPage), nil
}

func (s *consultationService) Update(ctx context.Context, clinicID, doctorID, consultationID uuid.UUID, req UpdateConsultationRequest) (*domain.Consultation, error) {
	var cons domain.Consultation
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", consultationID, clinicID).
		First(&cons).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}

	if cons.DoctorID != doctorID {
		return nil, ErrNotAttendingDoctor
	}

	updates := map[string]any{}
	if req.Symptoms != nil {
		if strings.TrimSpace(*req.Symptoms) == "" {
			return nil, ErrInvalidSymptoms
		}
		updates["symptoms"] = strings.TrimSpace(*req.Symptoms)
	}
	if req.Diagnosis != nil {
		if strings.TrimSpace(*req.Diagnosis) == "" {
			return nil, ErrInvalidDiagnosis
		}
		updates["diagnosis"] = strings.TrimSpace(*req.Diagnosis)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(&cons).Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("update consultation: %w", err)
		}
	}
	return &cons, nil
}
