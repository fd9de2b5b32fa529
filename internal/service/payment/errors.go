package payment

import "errors"

var (
	ErrBadSignature = errors.New("webhook signature rejected")
	ErrBadPayload   = errors.New("webhook payload malformed")
)
