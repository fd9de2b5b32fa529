package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account temporarily locked, try again later")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet the minimum length")
	ErrInvalidName        = errors.New("name is required")
	ErrClinicNameRequired = errors.New("clinic name is required")
	ErrInvalidInvitation  = errors.New("invitation is invalid or has expired")
	ErrSessionNotFound    = errors.New("session not found")
)
