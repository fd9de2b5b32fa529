// Package appointment implements booking with doctor-level conflict detection.
package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/internal/domain"
	"github.com/maherraissi/MedFlow/internal/service/patient"
	"github.com/maherraissi/MedFlow/pkg/email"
	"github.com/maherraissi/MedFlow/pkg/metrics"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListAppointmentsRequest struct {
	Page     int
	PerPage  int
	DoctorID *uuid.UUID
	Status   *string
	From     *time.Time
	To       *time.Time
}

type BookRequest struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	ServiceID uuid.UUID
	StartAt   time.Time
	Notes     *string
}

// PortalBookRequest is the public self-service booking payload. The patient
// record is found or created by email inside the booking transaction.
type PortalBookRequest struct {
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	ServiceID uuid.UUID
	StartAt   time.Time
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

type RescheduleRequest struct {
	DoctorID  *uuid.UUID
	ServiceID *uuid.UUID
	StartAt   *time.Time
	Notes     *string
}

// BookingOptions is what the public booking page needs to render.
type BookingOptions struct {
	Services []domain.Service `json:"services"`
	Doctors  []domain.User    `json:"doctors"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, clinicID uuid.UUID, req BookRequest) (*domain.Appointment, error)
	PortalBook(ctx context.Context, req PortalBookRequest) (*domain.Appointment, error)
	BookingOptions(ctx context.Context, clinicID uuid.UUID) (*BookingOptions, error)
	GetByID(ctx context.Context, clinicID, appointmentID uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, clinicID uuid.UUID, req ListAppointmentsRequest) (*domain.Paginated[domain.Appointment], error)
	ListForPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Appointment, error)
	Reschedule(ctx context.Context, clinicID, appointmentID uuid.UUID, req RescheduleRequest) (*domain.Appointment, error)
	ChangeStatus(ctx context.Context, clinicID, appointmentID uuid.UUID, to domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, clinicID, appointmentID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db       *gorm.DB
	patients patient.Service
	mailer   *email.Client
	cfg      *config.Config
}

func New(db *gorm.DB, patients patient.Service, mailer *email.Client, cfg *config.Config) Service {
	return &appointmentService{db: db, patients: patients, mailer: mailer, cfg: cfg}
}

func (s *appointmentService) Book(ctx context.Context, clinicID uuid.UUID, req BookRequest) (*domain.Appointment, error) {
	svc, err := s.loadService(ctx, clinicID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDoctor(ctx, clinicID, req.DoctorID); err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, clinicID, req.PatientID); err != nil {
		return nil, err
	}

	endAt := req.StartAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	appt := &domain.Appointment{
		ClinicID:  clinicID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		ServiceID: req.ServiceID,
		StartAt:   req.StartAt,
		EndAt:     endAt,
		Status:    domain.AppointmentBooked,
		Notes:     req.Notes,
	}

	// Conflict check and insert run in one serializable transaction so two
	// racing bookings for the same slot cannot both pass the check. Under
	// READ COMMITTED both would count zero conflicts and both commit.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insertWithConflictCheck(ctx, tx, appt)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	metrics.AppointmentsBooked.WithLabelValues("staff").Inc()
	s.sendConfirmation(ctx, appt)
	return appt, nil
}

func (s *appointmentService) PortalBook(ctx context.Context, req PortalBookRequest) (*domain.Appointment, error) {
	svc, err := s.loadService(ctx, req.ClinicID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDoctor(ctx, req.ClinicID, req.DoctorID); err != nil {
		return nil, err
	}

	endAt := req.StartAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	var appt *domain.Appointment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.patients.FindOrCreateByEmail(ctx, tx, req.ClinicID, req.Email, req.FirstName, req.LastName, req.Phone)
		if err != nil {
			return err
		}

		appt = &domain.Appointment{
			ClinicID:  req.ClinicID,
			PatientID: p.ID,
			DoctorID:  req.DoctorID,
			ServiceID: req.ServiceID,
			StartAt:   req.StartAt,
			EndAt:     endAt,
			Status:    domain.AppointmentBooked,
		}
		return s.insertWithConflictCheck(ctx, tx, appt)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	metrics.AppointmentsBooked.WithLabelValues("portal").Inc()
	s.sendConfirmation(ctx, appt)
	return appt, nil
}

func (s *appointmentService) BookingOptions(ctx context.Context, clinicID uuid.UUID) (*BookingOptions, error) {
	opts := &BookingOptions{}

	err := s.db.WithContext(ctx).
		Where("clinic_id = ? AND is_active = ?", clinicID, true).
		Order("name ASC").
		Find(&opts.Services).Error
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	err = s.db.WithContext(ctx).
		Select("id", "name", "role", "clinic_id").
		Where("clinic_id = ? AND role = ? AND is_active = ?", clinicID, domain.RoleDoctor, true).
		Order("name ASC").
		Find(&opts.Doctors).Error
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	return opts, nil
}

func (s *appointmentService) GetByID(ctx context.Context, clinicID, appointmentID uuid.UUID) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		Preload("Patient").Preload("Doctor").Preload("Service").
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &appt, nil
}

func (s *appointmentService) List(ctx context.Context, clinicID uuid.UUID, req ListAppointmentsRequest) (*domain.Paginated[domain.Appointment], error) {
	page, perPage := domain.NormalizePage(req.Page, req.PerPage)
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("clinic_id = ?", clinicID)

	if req.DoctorID != nil {
		q = q.Where("doctor_id = ?", *req.DoctorID)
	}
	if req.Status != nil {
		q = q.Where("status = ?", *req.Status)
	}
	if req.From != nil {
		q = q.Where("start_at >= ?", *req.From)
	}
	if req.To != nil {
		q = q.Where("start_at < ?", *req.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}

	var appts []domain.Appointment
	err := q.Preload("Patient").Preload("Doctor").Preload("Service").
		Order("start_at ASC").
		Offset(offset).Limit(perPage).
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return domain.NewPaginated(appts, int(total), page, perPage), nil
}

func (s *appointmentService) ListForPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := s.db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Preload("Doctor").Preload("Service").
		Order("start_at DESC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return appts, nil
}

func (s *appointmentService) Reschedule(ctx context.Context, clinicID, appointmentID uuid.UUID, req RescheduleRequest) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	if req.DoctorID != nil {
		if err := s.checkDoctor(ctx, clinicID, *req.DoctorID); err != nil {
			return nil, err
		}
		appt.DoctorID = *req.DoctorID
	}
	if req.ServiceID != nil {
		appt.ServiceID = *req.ServiceID
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	svc, err := s.loadService(ctx, clinicID, appt.ServiceID)
	if err != nil {
		return nil, err
	}
	if req.StartAt != nil {
		appt.StartAt = *req.StartAt
	}
	appt.EndAt = appt.StartAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	// Clear preloaded edges so Save does not upsert them.
	appt.Patient, appt.Doctor, appt.Service = nil, nil, nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := s.hasConflict(ctx, tx, appt.ClinicID, appt.DoctorID, appt.StartAt, appt.EndAt, appt.ID)
		if err != nil {
			return err
		}
		if conflict {
			metrics.AppointmentConflicts.Inc()
			return ErrOverlappingSlot
		}
		return tx.WithContext(ctx).Save(appt).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *appointmentService) ChangeStatus(ctx context.Context, clinicID, appointmentID uuid.UUID, to domain.AppointmentStatus) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appt.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}

	err = s.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("id = ?", appt.ID).
		Update("status", to).Error
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	appt.Status = to
	return appt, nil
}

func (s *appointmentService) Delete(ctx context.Context, clinicID, appointmentID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		Delete(&domain.Appointment{})
	if res.Error != nil {
		return fmt.Errorf("delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// insertWithConflictCheck validates the time range, rejects overlapping
// non-cancelled appointments for the doctor, and inserts. Must run inside tx.
func (s *appointmentService) insertWithConflictCheck(ctx context.Context, tx *gorm.DB, appt *domain.Appointment) error {
	if !appt.EndAt.After(appt.StartAt) {
		return ErrInvalidTimeRange
	}

	conflict, err := s.hasConflict(ctx, tx, appt.ClinicID, appt.DoctorID, appt.StartAt, appt.EndAt, uuid.Nil)
	if err != nil {
		return err
	}
	if conflict {
		metrics.AppointmentConflicts.Inc()
		return ErrOverlappingSlot
	}

	if err := tx.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Appointments that merely touch at a boundary
// (one ends exactly when the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// hasConflict is the SQL form of Overlaps over the doctor's non-cancelled
// appointments.
func (s *appointmentService) hasConflict(ctx context.Context, tx *gorm.DB, clinicID, doctorID uuid.UUID, startAt, endAt time.Time, excludeID uuid.UUID) (bool, error) {
	q := tx.WithContext(ctx).Model(&domain.Appointment{}).
		Where("clinic_id = ? AND doctor_id = ?", clinicID, doctorID).
		Where("NOT status = ?", domain.AppointmentCancelled).
		Where("start_at < ? AND end_at > ?", endAt, startAt)
	if excludeID != uuid.Nil {
		q = q.Where("NOT id = ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slot conflict: %w", err)
	}
	return count > 0, nil
}

func (s *appointmentService) loadService(ctx context.Context, clinicID, serviceID uuid.UUID) (*domain.Service, error) {
	var svc domain.Service
	err := s.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND is_active = ?", serviceID, clinicID, true).
		First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &svc, nil
}

func (s *appointmentService) checkDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND clinic_id = ? AND role = ? AND is_active = ?", doctorID, clinicID, domain.RoleDoctor, true).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check doctor: %w", err)
	}
	if count == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (s *appointmentService) checkPatient(ctx context.Context, clinicID, patientID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Patient{}).
		Where("id = ? AND clinic_id = ?", patientID, clinicID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	if count == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// sendConfirmation emails the patient. Failures are logged, never surfaced:
// the booking already committed.
func (s *appointmentService) sendConfirmation(ctx context.Context, appt *domain.Appointment) {
	var p domain.Patient
	if err := s.db.WithContext(ctx).First(&p, "id = ?", appt.PatientID).Error; err != nil || p.Email == nil {
		return
	}
	var doctor domain.User
	var svc domain.Service
	var clinic domain.Clinic
	s.db.WithContext(ctx).First(&doctor, "id = ?", appt.DoctorID)
	s.db.WithContext(ctx).First(&svc, "id = ?", appt.ServiceID)
	s.db.WithContext(ctx).First(&clinic, "id = ?", appt.ClinicID)

	msg := email.BuildAppointmentConfirmationEmail(email.AppointmentEmailData{
		PatientName: p.FirstName,
		Email:       *p.Email,
		ClinicName:  clinic.Name,
		DoctorName:  doctor.Name,
		ServiceName: svc.Name,
		StartAt:     appt.StartAt,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("failed to send appointment confirmation", "appointment_id", appt.ID, "error", err)
	}
}
