package patient

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/pkg/util/phone"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListPatientsRequest struct {
	Page    int
	PerPage int
	Search  string // matches first name, last name or email
	Gender  *domain.Gender
	Order   string // asc | desc, by created_at
}

type CreatePatientRequest struct {
	FirstName      string
	LastName       string
	Email          *string
	Phone          *string
	Gender         *domain.Gender
	BirthDate      *time.Time
	Address        *string
	MedicalHistory *string
}

type UpdatePatientRequest struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Gender         *domain.Gender
	BirthDate      *time.Time
	Address        *string
	MedicalHistory *string
}

// MedicalRecord aggregates a patient's history for the clinical view.
type MedicalRecord struct {
	Patient       *domain.Patient       `json:"patient"`
	Appointments  []domain.Appointment  `json:"appointments"`
	Consultations []domain.Consultation `json:"consultations"`
	Invoices      []domain.Invoice      `json:"invoices"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, clinicID uuid.UUID, req CreatePatientRequest) (*domain.Patient, error)
	GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*domain.Patient, error)
	GetByEmail(ctx context.Context, clinicID uuid.UUID, email string) (*domain.Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, req ListPatientsRequest) (*domain.Paginated[domain.Patient], error)
	Update(ctx context.Context, clinicID, patientID uuid.UUID, req UpdatePatientRequest) (*domain.Patient, error)
	Delete(ctx context.Context, clinicID, patientID uuid.UUID) error

	// Records returns the full clinical history of one patient.
	Records(ctx context.Context, clinicID, patientID uuid.UUID) (*MedicalRecord, error)

	// FindOrCreateByEmail backs public portal booking: an existing patient is
	// matched by email within the clinic, otherwise a minimal record is created.
	FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, clinicID uuid.UUID, email, firstName, lastName string, phoneNumber *string) (*domain.Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &patientService{db: db}
}

func (s *patientService) Create(ctx context.Context, clinicID uuid.UUID, req CreatePatientRequest) (*domain.Patient, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if len(req.FirstName) < 2 || len(req.LastName) < 2 {
		return nil, ErrInvalidName
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	phoneNumber, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	if req.Gender != nil && !domain.KnownGenders[*req.Gender] {
		return nil, ErrInvalidGender
	}

	if email != nil {
		taken, err := s.emailTaken(ctx, clinicID, *email, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	p := &domain.Patient{
		ClinicID:       clinicID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Phone:          phoneNumber,
		Gender:         req.Gender,
		BirthDate:      req.BirthDate,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *patientService) GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*domain.Patient, error) {
	var p domain.Patient
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", patientID, clinicID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &p, nil
}

func (s *patientService) GetByEmail(ctx context.Context, clinicID uuid.UUID, email string) (*domain.Patient, error) {
	normalized, err := normalizeEmail(&email)
	if err != nil || normalized == nil {
		return nil, ErrInvalidEmail
	}

	var p domain.Patient
	err = s.db.WithContext(ctx).
		Where("clinic_id = ? AND email = ?", clinicID, *normalized).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient by email: %w", err)
	}
	return &p, nil
}

func (s *patientService) List(ctx context.Context, clinicID uuid.UUID, req ListPatientsRequest) (*domain.Paginated[domain.Patient], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.Patient{}).
		Where("clinic_id = ?", clinicID)

	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if req.Gender != nil {
		q = q.Where("gender = ?", *req.Gender)
	}

	// Sorting
	if req.Order == "asc" {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}

	var patients []domain.Patient
	if err := q.Offset(offset).Limit(perPage).Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	return domain.NewPaginated(patients, int(total), page, perPage), nil
}

func (s *patientService) Update(ctx context.Context, clinicID, patientID uuid.UUID, req UpdatePatientRequest) (*domain.Patient, error) {
	p, err := s.GetByID(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if len(name) < 2 {
			return nil, ErrInvalidName
		}
		p.FirstName = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if len(name) < 2 {
			return nil, ErrInvalidName
		}
		p.LastName = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != nil {
			// Uniqueness is rechecked on update, excluding the patient itself.
			taken, err := s.emailTaken(ctx, clinicID, *email, patientID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}
		p.Email = email
	}
	if req.Phone != nil {
		phoneNumber, err := normalizePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		p.Phone = phoneNumber
	}
	if req.Gender != nil {
		if !domain.KnownGenders[*req.Gender] {
			return nil, ErrInvalidGender
		}
		p.Gender = req.Gender
	}
	if req.BirthDate != nil {
		p.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.MedicalHistory != nil {
		p.MedicalHistory = req.MedicalHistory
	}

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return p, nil
}

func (s *patientService) Delete(ctx context.Context, clinicID, patientID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", patientID, clinicID).
		Delete(&domain.Patient{})
	if res.Error != nil {
		return fmt.Errorf("delete patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (s *patientService) Records(ctx context.Context, clinicID, patientID uuid.UUID) (*MedicalRecord, error) {
	p, err := s.GetByID(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}

	rec := &MedicalRecord{Patient: p}

	err = s.db.WithContext(ctx).
		Where("patient_id = ? AND clinic_id = ?", patientID, clinicID).
		Preload("Doctor").Preload("Service").
		Order("start_at DESC").
		Find(&rec.Appointments).Error
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	err = s.db.WithContext(ctx).
		Where("patient_id = ? AND clinic_id = ?", patientID, clinicID).
		Preload("Prescriptions.Items").
		Order("created_at DESC").
		Find(&rec.Consultations).Error
	if err != nil {
		return nil, fmt.Errorf("load consultations: %w", err)
	}

	err = s.db.WithContext(ctx).
		Where("patient_id = ? AND clinic_id = ?", patientID, clinicID).
		Preload("LineItems").
		Order("issued_at DESC").
		Find(&rec.Invoices).Error
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	return rec, nil
}

func (s *patientService) FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, clinicID uuid.UUID, email, firstName, lastName string, phoneNumber *string) (*domain.Patient, error) {
	db := s.db
	if tx != nil {
		db = tx
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	var p domain.Patient
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND email = ?", clinicID, email).
		First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find patient by email: %w", err)
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if len(firstName) < 2 || len(lastName) < 2 {
		return nil, ErrInvalidName
	}

	normPhone, err := normalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	p = domain.Patient{
		ClinicID:  clinicID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     &email,
		Phone:     normPhone,
	}
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *patientService) emailTaken(ctx context.Context, clinicID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	q := s.db.WithContext(ctx).Model(&domain.Patient{}).
		Where("clinic_id = ? AND email = ?", clinicID, email)
	if excludeID != uuid.Nil {
		q = q.Where("NOT id = ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check patient email: %w", err)
	}
	return count > 0, nil
}

func normalizeEmail(in *string) (*string, error) {
	if in == nil {
		return nil, nil
	}
	email := strings.ToLower(strings.TrimSpace(*in))
	if email == "" {
		return nil, nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	return &email, nil
}

func normalizePhone(in *string) (*string, error) {
	if in == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*in)
	if raw == "" {
		return nil, nil
	}
	normalized, err := phone.Normalize(raw)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	return &normalized, nil
}
