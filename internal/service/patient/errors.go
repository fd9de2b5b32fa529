package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrEmailTaken      = errors.New("a patient with this email already exists in this clinic")
	ErrInvalidName     = errors.New("first and last name must be at least 2 characters")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidGender   = errors.New("invalid gender value")
)
