package shared

import "fmt"

// Error codes shared by every bounded context. The HTTP layer maps
// them to status codes in one place.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInvestor    = "INVALID_INVESTOR"
	CodeDuplicateBill      = "DUPLICATE_BILL"
	CodeInvestmentRequired = "INVESTMENT_REQUIRED"
	CodeRateUnavailable    = "RATE_UNAVAILABLE"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeInvalidState       = "INVALID_STATE"
	CodeVersionConflict    = "VERSION_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) matches any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a missing or malformed request field
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a referenced record that does not exist
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s with id %v not found", resource, id))
}

// NewPersistenceError wraps an underlying storage failure
func NewPersistenceError(message string, cause error) *DomainError {
	return WrapDomainError(CodePersistence, message, cause)
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput    = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidState    = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrVersionConflict = NewDomainError(CodeVersionConflict, "Resource was modified by another process")
)
