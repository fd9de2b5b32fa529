package invoice

import "errors"

var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrNoLineItems       = errors.New("invoice requires at least one line item")
	ErrInvalidLineItem   = errors.New("line item requires description, positive quantity and non-negative price")
	ErrAlreadyPaid       = errors.New("invoice is already paid")
	ErrInvoiceNotPayable = errors.New("invoice is not payable")
	ErrNotDraft          = errors.New("only draft invoices can be sent")
	ErrNotEditable       = errors.New("invoice can no longer be edited")
	ErrInvalidPayment    = errors.New("payment requires a positive amount")
	ErrCheckoutFailed    = errors.New("checkout session could not be created")
)
