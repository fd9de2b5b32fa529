package consultation

import "errors"

var (
	ErrConsultationNotFound  = errors.New("consultation not found")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrConsultationExists    = errors.New("consultation already exists for this appointment")
	ErrAppointmentCancelled  = errors.New("cannot record a consultation against a cancelled appointment")
	ErrNotAttendingDoctor    = errors.New("only the attending doctor can record the consultation")
	ErrInvalidSymptoms       = errors.New("symptoms are required")
	ErrInvalidDiagnosis      = errors.New("diagnosis is required")
)
