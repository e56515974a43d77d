package services

import "errors"

// Domain error taxonomy. The api layer maps each sentinel to an HTTP status
// and a human-readable message; no other error shape crosses into handlers.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNotCircleMember  = errors.New("not a circle member")
	ErrNotRecipient     = errors.New("not a recipient")
	ErrNotSender        = errors.New("not the sender")
	ErrAlreadyRedeemed  = errors.New("voucher already redeemed")
	ErrAlertClosed      = errors.New("alert already closed")
	ErrCapacityExceeded = errors.New("circle is full")
	ErrAlreadyMember    = errors.New("already a member")
)

// validationError wraps ErrValidation with a user-facing message so
// errors.Is(err, ErrValidation) keeps working.
type validationError struct {
	message string
}

func (err validationError) Error() string {
	return err.message
}

func (err validationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(message string) error {
	return validationError{message: message}
}
