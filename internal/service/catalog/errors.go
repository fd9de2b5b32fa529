package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInUse    = errors.New("service has appointments and cannot be deleted")
	ErrInvalidName     = errors.New("service name must be at least 3 characters")
	ErrInvalidDuration = errors.New("duration must be at least 5 minutes")
	ErrInvalidPrice    = errors.New("price must be positive")
)
