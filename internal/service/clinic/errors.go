package clinic

import "errors"

var (
	ErrClinicNotFound = errors.New("clinic not found")
	ErrInvalidName    = errors.New("clinic name is required")
)
