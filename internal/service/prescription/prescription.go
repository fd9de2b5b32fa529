// Package prescription issues prescriptions under a consultation and renders
// them as printable PDFs.
package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/pdf"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type PrescriptionItemInput struct {
	Name         string  `json:"name"`
	Dosage       string  `json:"dosage"`
	Duration     string  `json:"duration"`
	Instructions *string `json:"instructions"`
}

type CreatePrescriptionRequest struct {
	Items []PrescriptionItemInput
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, clinicID, doctorID, consultationID uuid.UUID, req CreatePrescriptionRequest) (*domain.Prescription, error)
	GetByID(ctx context.Context, clinicID, prescriptionID uuid.UUID) (*domain.Prescription, error)
	ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Prescription, error)
	RenderPDF(ctx context.Context, clinicID, prescriptionID uuid.UUID) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type prescriptionService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &prescriptionService{db: db}
}

func (s *prescriptionService) Create(ctx context.Context, clinicID, doctorID, consultationID uuid.UUID, req CreatePrescriptionRequest) (*domain.Prescription, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" ||
			strings.TrimSpace(item.Dosage) == "" ||
			strings.TrimSpace(item.Duration) == "" {
			return nil, ErrInvalidItem
		}
	}

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

	p := &domain.Prescription{
		ClinicID:       clinicID,
		ConsultationID: cons.ID,
		DoctorID:       doctorID,
	}
	for i, item := range req.Items {
		p.Items = append(p.Items, domain.PrescriptionItem{
			Position:     i + 1,
			Name:         strings.TrimSpace(item.Name),
			Dosage:       strings.TrimSpace(item.Dosage),
			Duration:     strings.TrimSpace(item.Duration),
			Instructions: item.Instructions,
		})
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	return p, nil
}

func (s *prescriptionService) GetByID(ctx context.Context, clinicID, prescriptionID uuid.UUID) (*domain.Prescription, error) {
	var p domain.Prescription
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", prescriptionID, clinicID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("get prescription: %w", err)
	}
	return &p, nil
}

func (s *prescriptionService) ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Prescription, error) {
	var list []domain.Prescription
	err := s.db.WithContext(ctx).
		Joins("JOIN consultations ON consultations.id = prescriptions.consultation_id").
		Where("prescriptions.clinic_id = ? AND consultations.patient_id = ?", clinicID, patientID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("prescriptions.created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list patient prescriptions: %w", err)
	}
	return list, nil
}

func (s *prescriptionService) RenderPDF(ctx context.Context, clinicID, prescriptionID uuid.UUID) ([]byte, error) {
	p, err := s.GetByID(ctx, clinicID, prescriptionID)
	if err != nil {
		return nil, err
	}

	var cons domain.Consultation
	err = s.db.WithContext(ctx).First(&cons, "id = ?", p.ConsultationID).Error
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}

	var clinic domain.Clinic
	var doctor domain.User
	var pat domain.Patient
	if err := s.db.WithContext(ctx).First(&clinic, "id = ?", clinicID).Error; err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&doctor, "id = ?", cons.DoctorID).Error; err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&pat, "id = ?", cons.PatientID).Error; err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}

	doc := pdf.PrescriptionDoc{
		ClinicName:  clinic.Name,
		DoctorName:  doctor.Name,
		PatientName: pat.FirstName + " " + pat.LastName,
		IssuedAt:    p.CreatedAt,
	}
	for _, item := range p.Items {
		line := pdf.PrescriptionLine{
			Name:     item.Name,
			Dosage:   item.Dosage,
			Duration: item.Duration,
		}
		if item.Instructions != nil {
			line.Instructions = *item.Instructions
		}
		doc.Items = append(doc.Items, line)
	}

	return pdf.RenderPrescription(doc)
}
