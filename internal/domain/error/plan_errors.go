package error

import "errors"

// Investment plan domain errors.
var (
	// ErrPlanNotFound is returned when an investment plan is not found.
	ErrPlanNotFound = errors.New("investment plan not found")

	// ErrPlanInactive is returned when an investment plan is no longer offered.
	ErrPlanInactive = errors.New("investment plan is not active")
)

// PlanErrorCode defines error codes for plan errors.
// Format: PLAN-XXYYYY where XX is category and YYYY is specific error.
type PlanErrorCode string

const (
	ErrCodePlanNotFound PlanErrorCode = "PLAN-010001"
	ErrCodePlanInactive PlanErrorCode = "PLAN-010002"
	ErrCodeSeedFailed   PlanErrorCode = "PLAN-020001"
)

// PlanError represents a plan error with code and message.
type PlanError struct {
	Code    PlanErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// NewPlanError creates a new PlanError with the given code and message.
func NewPlanError(code PlanErrorCode, message string, err error) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
