package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrOverlappingSlot     = errors.New("the doctor already has an appointment in this time range")
	ErrInvalidTimeRange    = errors.New("appointment end must be after its start")
	ErrInvalidTransition   = errors.New("status transition not allowed")
)
