package error

import "errors"

// Deposit domain errors.
var (
	// ErrDepositNotFound is returned when no deposit matches a checkout request ID.
	ErrDepositNotFound = errors.New("deposit not found")

	// ErrDepositAlreadyResolved is returned when a deposit has already left the pending state.
	ErrDepositAlreadyResolved = errors.New("deposit already resolved")

	// ErrInvalidDepositAmount is returned when the amount is below the gateway minimum.
	ErrInvalidDepositAmount = errors.New("amount must be at least 1")

	// ErrInvalidPhoneNumber is returned when a phone number cannot be normalised.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")

	// ErrInvalidCreditAmount is returned when a confirmed credit is zero or negative.
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")

	// ErrGatewayUnavailable is returned when the payment gateway call fails.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected is returned when the gateway refuses a request.
	ErrGatewayRejected = errors.New("payment gateway rejected the request")

	// ErrInvalidCallback is returned when a gateway callback is malformed.
	ErrInvalidCallback = errors.New("invalid gateway callback")
)

// DepositErrorCode defines error codes for deposit errors.
// Format: DEP-XXYYYY where XX is category and YYYY is specific error.
type DepositErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDepositAmount DepositErrorCode = "DEP-010001"
	ErrCodeInvalidPhoneNumber   DepositErrorCode = "DEP-010002"
	ErrCodeMissingCheckoutID    DepositErrorCode = "DEP-010003"
	ErrCodeInvalidCreditAmount  DepositErrorCode = "DEP-010004"

	// Lookup errors (02XXXX)
	ErrCodeDepositNotFound DepositErrorCode = "DEP-020001"
	ErrCodeAccountNotFound DepositErrorCode = "DEP-020002"

	// Gateway errors (03XXXX)
	ErrCodeGatewayUnavailable DepositErrorCode = "DEP-030001"
	ErrCodeGatewayRejected    DepositErrorCode = "DEP-030002"
	ErrCodeInvalidCallback    DepositErrorCode = "DEP-030003"
	ErrCodeCallbackForbidden  DepositErrorCode = "DEP-030004"
)

// DepositError represents a deposit error with code and message.
type DepositError struct {
	Code    DepositErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DepositError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DepositError) Unwrap() error {
	return e.Err
}

// NewDepositError creates a new DepositError with the given code and message.
func NewDepositError(code DepositErrorCode, message string, err error) *DepositError {
	return &DepositError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
