// Package domain holds the persistent model types shared by every service.
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps common to all rows.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tenancy
// ---------------------------------------------------------------------------

type Clinic struct {
	Base
	Name    string  `gorm:"not null" json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type User struct {
	Base
	ClinicID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Email        string     `gorm:"not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"not null" json:"name"`
	PasswordHash *string    `json:"-"`
	Role         Role       `gorm:"not null" json:"role"`
	Status       UserStatus `gorm:"not null;default:ACTIVE" json:"status"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	InviteToken  *string    `gorm:"uniqueIndex" json:"-"`
	InviteExpiry *time.Time `json:"-"`

	Clinic *Clinic `gorm:"constraint:OnDelete:CASCADE" json:"clinic,omitempty"`
}

// ---------------------------------------------------------------------------
// Patients and catalog
// ---------------------------------------------------------------------------

type Patient struct {
	Base
	ClinicID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_patients_clinic_email,priority:1;index" json:"clinic_id"`
	FirstName      string     `gorm:"not null" json:"first_name"`
	LastName       string     `gorm:"not null" json:"last_name"`
	Email          *string    `gorm:"uniqueIndex:idx_patients_clinic_email,priority:2" json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Gender         *Gender    `json:"gender,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Address        *string    `json:"address,omitempty"`
	MedicalHistory *string    `json:"medical_history,omitempty"`

	Clinic *Clinic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Service is a bookable catalog entry (consultation type, procedure, ...).
type Service struct {
	Base
	ClinicID        uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"not null" json:"price"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Clinic *Clinic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ---------------------------------------------------------------------------
// Scheduling
// ---------------------------------------------------------------------------

type Appointment struct {
	Base
	ClinicID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_time,priority:1" json:"doctor_id"`
	ServiceID uuid.UUID         `gorm:"type:uuid;not null" json:"service_id"`
	StartAt   time.Time         `gorm:"not null;index:idx_appointments_doctor_time,priority:2" json:"start_at"`
	EndAt     time.Time         `gorm:"not null" json:"end_at"`
	Status    AppointmentStatus `gorm:"not null;default:BOOKED" json:"status"`
	Notes     *string           `json:"notes,omitempty"`

	Patient *Patient `gorm:"constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	Doctor  *User    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Service *Service `gorm:"constraint:OnDelete:RESTRICT" json:"service,omitempty"`
}

// ---------------------------------------------------------------------------
// Clinical records
// ---------------------------------------------------------------------------

type Consultation struct {
	Base
	ClinicID      uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null" json:"doctor_id"`
	Symptoms      string    `gorm:"not null" json:"symptoms"`
	Diagnosis     string    `gorm:"not null" json:"diagnosis"`
	Notes         *string   `json:"notes,omitempty"`

	Appointment   *Appointment   `gorm:"constraint:OnDelete:CASCADE" json:"appointment,omitempty"`
	Prescriptions []Prescription `gorm:"constraint:OnDelete:CASCADE" json:"prescriptions,omitempty"`
}

type Prescription struct {
	Base
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	ConsultationID uuid.UUID `gorm:"type:uuid;not null;index" json:"consultation_id"`
	DoctorID       uuid.UUID `gorm:"type:uuid;not null" json:"doctor_id"`

	Items []PrescriptionItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type PrescriptionItem struct {
	Base
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"prescription_id"`
	Position       int       `gorm:"not null" json:"position"`
	Name           string    `gorm:"not null" json:"name"`
	Dosage         string    `gorm:"not null" json:"dosage"`
	Duration       string    `gorm:"not null" json:"duration"`
	Instructions   *string   `json:"instructions,omitempty"`
}

// ---------------------------------------------------------------------------
// Billing
// ---------------------------------------------------------------------------

type Invoice struct {
	Base
	ClinicID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID  *uuid.UUID    `gorm:"type:uuid" json:"appointment_id,omitempty"`
	ConsultationID *uuid.UUID    `gorm:"type:uuid" json:"consultation_id,omitempty"`
	Total          float64       `gorm:"not null" json:"total"`
	Status         InvoiceStatus `gorm:"not null;default:DRAFT" json:"status"`
	IssuedAt       time.Time     `gorm:"not null" json:"issued_at"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`

	Patient   *Patient          `gorm:"constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	LineItems []InvoiceLineItem `gorm:"constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Payments  []Payment         `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

type InvoiceLineItem struct {
	Base
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int       `gorm:"not null" json:"position"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
}

// Payment records money taken against an invoice, whether a Stripe checkout
// attempt or a manual settlement at the front desk.
type Payment struct {
	Base
	InvoiceID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Method            string        `gorm:"not null" json:"method"`
	ProviderSessionID *string       `gorm:"index" json:"provider_session_id,omitempty"`
	Amount            float64       `gorm:"not null" json:"amount"`
	Status            PaymentStatus `gorm:"not null;default:PENDING" json:"status"`
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

type AuditLog struct {
	Base
	ClinicID *uuid.UUID     `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	UserID   *uuid.UUID     `gorm:"type:uuid" json:"user_id,omitempty"`
	Action   string         `gorm:"not null;index" json:"action"`
	Entity   string         `gorm:"not null" json:"entity"`
	EntityID *uuid.UUID     `gorm:"type:uuid" json:"entity_id,omitempty"`
	Meta     datatypes.JSON `gorm:"type:jsonb" json:"meta,omitempty"`
}

// AllModels is the migration order for gorm.AutoMigrate: parents first.
func AllModels() []any {
	return []any{
		&Clinic{},
		&User{},
		&Patient{},
		&Service{},
		&Appointment{},
		&Consultation{},
		&Prescription{},
		&PrescriptionItem{},
		&Invoice{},
		&InvoiceLineItem{},
		&Payment{},
		&AuditLog{},
	}
}
