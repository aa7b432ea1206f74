package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies created
// with a more specific message still match the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists    = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation       = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrConflict         = NewDomainError("CONFLICT", "Integrity constraint violated")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrForbidden        = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrShopRoleRequired = NewDomainError("FORBIDDEN", "Only for shops")
	ErrLockNotAcquired  = NewDomainError("CONFLICT", "Resource is busy, retry later")
)

// NewValidationError returns a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrValidation.Code, message)
}

// NewNotFoundError returns a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrNotFound.Code, resource+" not found")
}

// NewConflictError returns a CONFLICT error carrying the store's message
func NewConflictError(message string) *DomainError {
	return NewDomainError(ErrConflict.Code, message)
}

// AsDomainError extracts a DomainError from err, if any
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
