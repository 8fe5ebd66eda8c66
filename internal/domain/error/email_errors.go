package error

import (
	"errors"
	"fmt"
)

// Notification errors. Delivery failures wrap ErrPermanentEmailFailure or
// ErrTemporaryEmailFailure; only temporary ones are retried.
var (
	ErrEmailQueueFailed      = errors.New("failed to queue email")
	ErrEmailSendFailed       = errors.New("failed to send email")
	ErrInvalidTemplate       = errors.New("invalid email template")
	ErrTemplateRenderFailed  = errors.New("failed to render email template")
	ErrPermanentEmailFailure = errors.New("permanent email failure")
	ErrTemporaryEmailFailure = errors.New("temporary email failure")
)

// EmailErrorCode identifies a notification failure.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// Send errors (02XXXX)
	ErrCodeEmailSendFailed       EmailErrorCode = "EMAIL-020001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	// Template errors (03XXXX)
	ErrCodeInvalidTemplate      EmailErrorCode = "EMAIL-030001"
	ErrCodeTemplateRenderFailed EmailErrorCode = "EMAIL-030002"
)

// EmailError carries a code alongside the wrapped cause.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewDeliveryError classifies a provider failure as permanent or temporary.
func NewDeliveryError(message string, permanent bool, cause error) *EmailError {
	if permanent {
		return NewEmailError(ErrCodePermanentEmailFailure, message, fmt.Errorf("%w: %w", ErrPermanentEmailFailure, cause))
	}
	return NewEmailError(ErrCodeTemporaryEmailFailure, message, fmt.Errorf("%w: %w", ErrTemporaryEmailFailure, cause))
}

// IsPermanentEmailFailure reports whether retrying err cannot succeed.
func IsPermanentEmailFailure(err error) bool {
	return errors.Is(err, ErrPermanentEmailFailure)
}
