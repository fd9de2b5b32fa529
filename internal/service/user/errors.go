package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidName   = errors.New("name is required")
	ErrInvalidRole   = errors.New("invalid staff role")
	ErrSelfDemotion  = errors.New("cannot change or remove your own admin account")
	ErrNotStaffRole  = errors.New("patients cannot be invited as staff")
	ErrAlreadyActive = errors.New("user is already active")
	ErrNotInvited    = errors.New("user has no pending invitation")
	ErrWeakPassword  = errors.New("password does not meet the minimum length")
)
