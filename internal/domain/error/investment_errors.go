package error

import "errors"

// Investment domain errors.
var (
	// ErrInvestmentNotFound is returned when an investment is not found or not owned by the caller.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrInsufficientBalance is returned when a user's balance does not cover the plan amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidInvestmentTerms is returned when ad-hoc terms are missing, non-positive or finer than a cent.
	ErrInvalidInvestmentTerms = errors.New("invalid investment terms")

	// ErrMissingInvestmentSource is returned when neither a plan nor custom terms are supplied.
	ErrMissingInvestmentSource = errors.New("either a plan or custom terms are required")

	// ErrInvestmentNotActive is returned when a payout is attempted on a finished investment.
	ErrInvestmentNotActive = errors.New("investment is not active")

	// ErrPayoutNotDue is returned when less than a day has passed since the last payout.
	ErrPayoutNotDue = errors.New("daily return is not due yet")

	// ErrPayoutConflict is returned when another writer advanced the investment first.
	ErrPayoutConflict = errors.New("investment was updated concurrently")

	// ErrPayoutScanInProgress is returned when another payout scan holds the lock.
	ErrPayoutScanInProgress = errors.New("payout scan already in progress")
)

// InvestmentErrorCode defines error codes for investment errors.
// Format: INV-XXYYYY where XX is category and YYYY is specific error.
type InvestmentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingInvestmentSource InvestmentErrorCode = "INV-010001"
	ErrCodeInvalidInvestmentTerms  InvestmentErrorCode = "INV-010002"
	ErrCodeInsufficientBalance     InvestmentErrorCode = "INV-010003"

	// Lookup errors (02XXXX)
	ErrCodeInvestmentNotFound InvestmentErrorCode = "INV-020001"
	ErrCodeInvestorNotFound   InvestmentErrorCode = "INV-020002"

	// Payout errors (03XXXX)
	ErrCodePayoutScanInProgress InvestmentErrorCode = "INV-030001"
)

// InvestmentError represents an investment error with code and message.
type InvestmentError struct {
	Code    InvestmentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InvestmentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InvestmentError) Unwrap() error {
	return e.Err
}

// NewInvestmentError creates a new InvestmentError with the given code and message.
func NewInvestmentError(code InvestmentErrorCode, message string, err error) *InvestmentError {
	return &InvestmentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
