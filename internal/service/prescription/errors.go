package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrNoItems              = errors.New("prescription requires at least one item")
	ErrInvalidItem          = errors.New("prescription item requires name, dosage and duration")
	ErrNotAttendingDoctor   = errors.New("only the attending doctor can prescribe")
)
